package kafka

import "time"

// EventType определяет тип доменного события.
type EventType string

const (
	// События заказов.
	EventTypeOrderCreated       EventType = "order.created"
	EventTypeOrderStatusChanged EventType = "order.status_changed"
	EventTypeOrderCompleted     EventType = "order.completed"
	EventTypeOrderRejected      EventType = "order.rejected"

	// События бронирований.
	EventTypeReservationCreated       EventType = "reservation.created"
	EventTypeReservationStatusChanged EventType = "reservation.status_changed"

	// События рассылок.
	EventTypeNotificationSent   EventType = "notification.sent"
	EventTypeNotificationFailed EventType = "notification.failed"
)

// Topics для Kafka.
const (
	TopicOrderEvents        = "resto.order.events"
	TopicReservationEvents  = "resto.reservation.events"
	TopicNotificationEvents = "resto.notification.events"
	TopicDeadLetterQueue    = "resto.dlq" // Dead Letter Queue для failed messages
)

// Kafka headers для retry логики.
const (
	HeaderRetryCount    = "x-retry-count"
	HeaderOriginalTopic = "x-original-topic"
	HeaderErrorMessage  = "x-error-message"
	HeaderFailedAt      = "x-failed-at"
)

// OrderEvent представляет событие заказа.
type OrderEvent struct {
	EventType  EventType              `json:"event_type"`
	OrderID    string                 `json:"order_id"`
	Status     string                 `json:"status"`
	TotalMinor int64                  `json:"total_minor"`
	Timestamp  time.Time              `json:"timestamp"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
}

// ReservationEvent представляет событие бронирования.
type ReservationEvent struct {
	EventType     EventType              `json:"event_type"`
	ReservationID string                 `json:"reservation_id"`
	Status        string                 `json:"status"`
	Date          time.Time              `json:"date"`
	TimeSlot      string                 `json:"time_slot"`
	TableNumber   int32                  `json:"table_number"`
	Timestamp     time.Time              `json:"timestamp"`
	Metadata      map[string]interface{} `json:"metadata,omitempty"`
}

// NotificationEvent представляет событие рассылки.
type NotificationEvent struct {
	EventType      EventType `json:"event_type"`
	NotificationID string    `json:"notification_id"`
	Audience       string    `json:"audience"`
	RecipientCount int64     `json:"recipient_count"`
	Timestamp      time.Time `json:"timestamp"`
	Error          string    `json:"error,omitempty"`
}

// NewOrderEvent создает новое событие заказа.
func NewOrderEvent(eventType EventType, orderID, status string, totalMinor int64, metadata map[string]interface{}) *OrderEvent {
	return &OrderEvent{
		EventType:  eventType,
		OrderID:    orderID,
		Status:     status,
		TotalMinor: totalMinor,
		Timestamp:  time.Now(),
		Metadata:   metadata,
	}
}

// NewReservationEvent создает новое событие бронирования.
func NewReservationEvent(eventType EventType, reservationID, status string, date time.Time, timeSlot string, table int32) *ReservationEvent {
	return &ReservationEvent{
		EventType:     eventType,
		ReservationID: reservationID,
		Status:        status,
		Date:          date,
		TimeSlot:      timeSlot,
		TableNumber:   table,
		Timestamp:     time.Now(),
	}
}

// NewNotificationEvent создает новое событие рассылки.
func NewNotificationEvent(eventType EventType, notificationID, audience string, recipients int64, errMessage string) *NotificationEvent {
	return &NotificationEvent{
		EventType:      eventType,
		NotificationID: notificationID,
		Audience:       audience,
		RecipientCount: recipients,
		Timestamp:      time.Now(),
		Error:          errMessage,
	}
}
