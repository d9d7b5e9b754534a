package domain

import "time"

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ. Возвращает ErrAlreadyExists, если ID занят.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrNotFound.
	Get(id string) (Order, error)
	// List возвращает полный снимок коллекции заказов.
	List() ([]Order, error)
	// ListSince возвращает заказы, созданные не раньше указанного момента.
	ListSince(since time.Time) ([]Order, error)
	// Save применяет обновления к заказу с учётом optimistic locking.
	Save(order Order) error
}

// ReservationRepository описывает требования к хранилищу броней.
type ReservationRepository interface {
	Create(res Reservation) error
	Get(id string) (Reservation, error)
	List() ([]Reservation, error)
	// ListByDate возвращает брони на конкретную календарную дату.
	ListByDate(date time.Time) ([]Reservation, error)
	Save(res Reservation) error
}

// CustomerRepository описывает требования к хранилищу клиентов.
type CustomerRepository interface {
	Create(customer Customer) error
	Get(id string) (Customer, error)
	// GetByPhone ищет клиента по номеру телефона; ErrNotFound, если нет.
	GetByPhone(phone string) (Customer, error)
	List() ([]Customer, error)
	Save(customer Customer) error
}

// NotificationRepository описывает требования к хранилищу рассылок.
type NotificationRepository interface {
	Create(n Notification) error
	Get(id string) (Notification, error)
	List() ([]Notification, error)
	// PullDue возвращает запланированные рассылки, срок которых наступил.
	PullDue(now time.Time, limit int) ([]Notification, error)
	Save(n Notification) error
}

// MenuRepository описывает требования к хранилищу меню.
type MenuRepository interface {
	Create(item MenuItem) error
	Get(id string) (MenuItem, error)
	List() ([]MenuItem, error)
	Save(item MenuItem) error
	Delete(id string) error
}

// EventPublisher публикует события изменения сущностей во внешний брокер.
type EventPublisher interface {
	// Publish передаёт событие наружу; должен быть идемпотентным.
	Publish(topic, key string, event any) error
}
