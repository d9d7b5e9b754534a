package api

// orderItemRequest описывает позицию заказа в запросе создания.
type orderItemRequest struct {
	Name         string `json:"name" validate:"required"`
	Qty          int32  `json:"qty" validate:"required,min=1"`
	PriceMinor   int64  `json:"price_minor" validate:"required,gt=0"`
	Instructions string `json:"instructions,omitempty"`
}

// createOrderRequest — payload POST /orders.
type createOrderRequest struct {
	CustomerName  string             `json:"customer_name" validate:"required"`
	CustomerPhone string             `json:"customer_phone,omitempty"`
	Items         []orderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// updateStatusRequest — payload PATCH статуса заказа или бронирования.
type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// createReservationRequest — payload POST /reservations.
type createReservationRequest struct {
	CustomerName    string `json:"customer_name" validate:"required"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	CustomerEmail   string `json:"customer_email,omitempty" validate:"omitempty,email"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	TimeSlot        string `json:"time_slot" validate:"required"`
	PartySize       int32  `json:"party_size" validate:"required,min=1"`
	TableNumber     int32  `json:"table_number,omitempty" validate:"omitempty,min=1"`
	SpecialRequests string `json:"special_requests,omitempty"`
}

// assignTableRequest — payload PATCH /reservations/:id/table.
type assignTableRequest struct {
	TableNumber int32 `json:"table_number" validate:"required,min=1"`
}

// createCustomerRequest — payload POST /customers.
type createCustomerRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email,omitempty" validate:"omitempty,email"`
	Phone string `json:"phone,omitempty"`
}

// createNotificationRequest — payload POST /notifications.
type createNotificationRequest struct {
	Title        string `json:"title" validate:"required"`
	Message      string `json:"message" validate:"required"`
	Audience     string `json:"audience,omitempty" validate:"omitempty,oneof=all active loyal"`
	ScheduledFor string `json:"scheduled_for,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// scheduleNotificationRequest — payload POST /notifications/:id/schedule.
type scheduleNotificationRequest struct {
	ScheduledFor string `json:"scheduled_for,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// menuItemRequest — payload POST/PUT для блюда меню.
type menuItemRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description,omitempty"`
	PriceMinor  int64  `json:"price_minor" validate:"required,gt=0"`
	Category    string `json:"category" validate:"required"`
	Available   *bool  `json:"available,omitempty"`
}
