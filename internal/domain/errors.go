package domain

import "errors"

var (
	// Ошибка отсутствующего имени клиента.
	ErrCustomerNameRequired = errors.New("customer name is required")
	// Ошибка отсутствия хотя бы одной позиции в заказе.
	ErrItemsRequired = errors.New("order must contain at least one item")
	// Ошибка отрицательной суммы.
	ErrTotalNegative = errors.New("total_minor must be non-negative")
	// Ошибка отсутствующего названия позиции.
	ErrItemNameRequired = errors.New("item name is required")
	// Ошибка при некорректном количестве порций (<= 0).
	ErrItemQtyInvalid = errors.New("item qty must be greater than zero")
	// Ошибка, если цена позиции отрицательная.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка несоответствия суммы заказа и сумм позиций.
	ErrTotalMismatch = errors.New("order total does not match items sum")
	// Ошибка недопустимого перехода статуса.
	ErrStatusTransitionInvalid = errors.New("status transition is not allowed")
	// Ошибка неизвестного значения статуса.
	ErrStatusUnknown = errors.New("unknown status value")

	// Ошибка отсутствующей даты брони.
	ErrReservationDateRequired = errors.New("reservation date is required")
	// Ошибка отсутствующего времени брони.
	ErrReservationTimeRequired = errors.New("reservation time is required")
	// Ошибка некорректного размера компании (<= 0).
	ErrPartySizeInvalid = errors.New("party size must be greater than zero")
	// Ошибка отрицательного номера столика.
	ErrTableNumberInvalid = errors.New("table number must be non-negative")
	// ErrTableConflict — столик уже занят другой активной бронью в этот слот.
	ErrTableConflict = errors.New("table is already reserved for this slot")

	// Ошибка отрицательного счётчика заказов клиента.
	ErrOrderCountNegative = errors.New("total orders must be non-negative")
	// Ошибка отрицательного баланса баллов лояльности.
	ErrLoyaltyPointsNegative = errors.New("loyalty points must be non-negative")

	// Ошибка отсутствующего заголовка рассылки.
	ErrNotificationTitleRequired = errors.New("notification title is required")
	// Ошибка отсутствующего текста рассылки.
	ErrNotificationMessageRequired = errors.New("notification message is required")
	// Ошибка отрицательного числа получателей.
	ErrRecipientCountNegative = errors.New("recipient count must be non-negative")
	// ErrNotificationNotDue — рассылка ещё не должна отправляться.
	ErrNotificationNotDue = errors.New("notification is not due for dispatch")

	// ErrNotFound возвращается, если запись не найдена в репозитории.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists возвращается при попытке создать запись с занятым ID.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrVersionConflict сигнализирует о конфликте версий при сохранении.
	ErrVersionConflict = errors.New("record version conflict")
)

// IsNotFound проверяет, является ли ошибка отсутствием записи.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsAlreadyExists проверяет, является ли ошибка дубликатом записи.
func IsAlreadyExists(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}
