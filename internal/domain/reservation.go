package domain

import "time"

// ReservationStatus отражает статус брони столика.
type ReservationStatus string

const (
	// ReservationStatusPending — бронь создана, но не подтверждена.
	ReservationStatusPending ReservationStatus = "pending"
	// ReservationStatusConfirmed — бронь подтверждена рестораном.
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	// ReservationStatusSeated — гости пришли и посажены за стол.
	ReservationStatusSeated ReservationStatus = "seated"
	// ReservationStatusCompleted — визит завершён.
	ReservationStatusCompleted ReservationStatus = "completed"
	// ReservationStatusCancelled — бронь отменена клиентом или рестораном.
	ReservationStatusCancelled ReservationStatus = "cancelled"
	// ReservationStatusNoShow — гости не пришли.
	ReservationStatusNoShow ReservationStatus = "no_show"
)

// ReservationStatuses перечисляет все статусы в стабильном порядке.
var ReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusSeated,
	ReservationStatusCompleted,
	ReservationStatusCancelled,
	ReservationStatusNoShow,
}

// Reservation описывает бронь столика на конкретную дату и время.
type Reservation struct {
	ID            string
	CustomerName  string
	CustomerPhone string
	CustomerEmail string
	// Date — календарная дата визита (время внутри дня задаёт TimeSlot).
	Date time.Time
	// TimeSlot — время визита строкой вида "19:30".
	TimeSlot  string
	PartySize int32
	// TableNumber — номер столика; 0 = стол ещё не назначен.
	TableNumber     int32
	Status          ReservationStatus
	SpecialRequests string
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Validate проверяет, корректно ли заполнены ключевые поля брони.
func (r *Reservation) Validate() []error {
	var errs []error

	if r.CustomerName == "" {
		errs = append(errs, ErrCustomerNameRequired)
	}
	if r.Date.IsZero() {
		errs = append(errs, ErrReservationDateRequired)
	}
	if r.TimeSlot == "" {
		errs = append(errs, ErrReservationTimeRequired)
	}
	if r.PartySize <= 0 {
		errs = append(errs, ErrPartySizeInvalid)
	}
	if r.TableNumber < 0 {
		errs = append(errs, ErrTableNumberInvalid)
	}

	return errs
}

// IsActive сообщает, занимает ли бронь столик: отменённые и no-show не занимают.
func (r *Reservation) IsActive() bool {
	return r.Status != ReservationStatusCancelled && r.Status != ReservationStatusNoShow
}

// IsValidReservationStatus сообщает, входит ли значение в перечень статусов брони.
func IsValidReservationStatus(s ReservationStatus) bool {
	for _, known := range ReservationStatuses {
		if s == known {
			return true
		}
	}
	return false
}
