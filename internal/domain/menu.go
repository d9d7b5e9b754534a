package domain

import "time"

// MenuItem описывает позицию меню ресторана.
type MenuItem struct {
	ID          string
	Name        string
	Description string
	// PriceMinor — цена в минимальных денежных единицах.
	PriceMinor int64
	Category   string
	// Available = false означает стоп-лист: блюдо нельзя заказать.
	Available bool
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Validate проверяет ключевые поля позиции меню.
func (m *MenuItem) Validate() []error {
	var errs []error

	if m.Name == "" {
		errs = append(errs, ErrItemNameRequired)
	}
	if m.PriceMinor < 0 {
		errs = append(errs, ErrItemPriceInvalid)
	}

	return errs
}
