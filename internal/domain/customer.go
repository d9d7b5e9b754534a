package domain

import "time"

// ActivityWindow — окно, в пределах которого клиент считается активным.
const ActivityWindow = 30 * 24 * time.Hour

// Customer хранит профиль клиента и накопленные агрегаты по его заказам.
// Агрегаты (TotalOrders, TotalSpentMinor, LastOrderAt) пересчитывает
// loyalty-воркер; остальной код читает их как есть.
type Customer struct {
	ID    string
	Name  string
	Email string
	Phone string
	// TotalOrders — количество завершённых заказов клиента.
	TotalOrders int64
	// TotalSpentMinor — суммарно потрачено, в минимальных денежных единицах.
	TotalSpentMinor int64
	// LastOrderAt — время последнего заказа; нулевое значение = заказов не было.
	LastOrderAt   time.Time
	LoyaltyPoints int64
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Validate проверяет ключевые поля профиля.
func (c *Customer) Validate() []error {
	var errs []error

	if c.Name == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if c.TotalOrders < 0 {
		errs = append(errs, ErrOrderCountNegative)
	}
	if c.TotalSpentMinor < 0 {
		errs = append(errs, ErrTotalNegative)
	}
	if c.LoyaltyPoints < 0 {
		errs = append(errs, ErrLoyaltyPointsNegative)
	}

	return errs
}

// IsActive сообщает, заказывал ли клиент в течение окна активности до now.
func (c *Customer) IsActive(now time.Time) bool {
	if c.LastOrderAt.IsZero() {
		return false
	}
	return !c.LastOrderAt.Before(now.Add(-ActivityWindow))
}

// IsLoyaltyMember сообщает, участвует ли клиент в программе лояльности.
func (c *Customer) IsLoyaltyMember() bool {
	return c.LoyaltyPoints > 0
}
