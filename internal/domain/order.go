package domain

import "time"

// OrderStatus описывает жизненный цикл заказа на кухне ресторана.
type OrderStatus string

const (
	// OrderStatusPending — заказ принят, но кухня ещё не приступила.
	OrderStatusPending OrderStatus = "pending"
	// OrderStatusPreparing — заказ готовится.
	OrderStatusPreparing OrderStatus = "preparing"
	// OrderStatusReady — заказ готов к выдаче или подаче.
	OrderStatusReady OrderStatus = "ready"
	// OrderStatusCompleted — заказ выдан клиенту и закрыт.
	OrderStatusCompleted OrderStatus = "completed"
	// OrderStatusRejected — заказ отклонён (кухня, клиент, стоп-лист).
	OrderStatusRejected OrderStatus = "rejected"
)

// OrderStatuses перечисляет все статусы в стабильном порядке —
// используется агрегатором статистики и проверкой фильтров.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusPreparing,
	OrderStatusReady,
	OrderStatusCompleted,
	OrderStatusRejected,
}

// OrderItem представляет одну позицию заказа.
type OrderItem struct {
	// ID позиции нужен для однозначной идентификации и аудита.
	ID string
	// Name — название блюда из меню на момент заказа.
	Name string
	// Qty — количество порций.
	Qty int32
	// PriceMinor — цена за порцию в минимальных денежных единицах.
	PriceMinor int64
	// Instructions — пожелания клиента к блюду (опционально).
	Instructions string
}

// Order агрегирует состояние заказа и его позиции.
type Order struct {
	ID            string
	CustomerName  string
	CustomerPhone string
	Status        OrderStatus
	TotalMinor    int64
	Items         []OrderItem
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
	// EstimatedReadyAt заполняется кухней; нулевое значение = оценки нет.
	EstimatedReadyAt time.Time
}

// ValidateInvariants проверяет базовые инварианты заказа и возвращает список замечаний.
func (o *Order) ValidateInvariants() []error {
	var errs []error

	if o.CustomerName == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if len(o.Items) == 0 {
		errs = append(errs, ErrItemsRequired)
	}
	if o.TotalMinor < 0 {
		errs = append(errs, ErrTotalNegative)
	}

	// Сверяем сумму заказа с суммой позиций: qty * price.
	var calc int64
	for _, item := range o.Items {
		if item.Name == "" {
			errs = append(errs, ErrItemNameRequired)
		}
		if item.Qty <= 0 {
			errs = append(errs, ErrItemQtyInvalid)
		}
		if item.PriceMinor < 0 {
			errs = append(errs, ErrItemPriceInvalid)
		}
		calc += int64(item.Qty) * item.PriceMinor
	}
	if calc != o.TotalMinor {
		errs = append(errs, ErrTotalMismatch)
	}

	return errs
}

// CanTransitionTo проверяет допустимость перехода статуса заказа.
// Терминальные статусы (completed, rejected) переходов не имеют.
func (o *Order) CanTransitionTo(next OrderStatus) bool {
	switch o.Status {
	case OrderStatusPending:
		return next == OrderStatusPreparing || next == OrderStatusRejected
	case OrderStatusPreparing:
		return next == OrderStatusReady || next == OrderStatusRejected
	case OrderStatusReady:
		return next == OrderStatusCompleted || next == OrderStatusRejected
	default:
		return false
	}
}

// IsValidOrderStatus сообщает, входит ли значение в перечень статусов заказа.
func IsValidOrderStatus(s OrderStatus) bool {
	for _, known := range OrderStatuses {
		if s == known {
			return true
		}
	}
	return false
}
