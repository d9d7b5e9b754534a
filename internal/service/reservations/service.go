package reservations

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
	"github.com/vladislavdragonenkov/restadmin/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/restadmin/internal/metrics"
	"github.com/vladislavdragonenkov/restadmin/internal/stream"
)

// CreateInput описывает входные данные создания бронирования.
type CreateInput struct {
	CustomerName    string
	CustomerPhone   string
	CustomerEmail   string
	Date            time.Time
	TimeSlot        string
	PartySize       int32
	TableNumber     int32
	SpecialRequests string
}

// Service инкапсулирует бизнес-логику бронирований.
type Service struct {
	repo      domain.ReservationRepository
	publisher domain.EventPublisher
	hub       *stream.Hub[domain.Reservation]
	metrics   *metrics.AdminMetrics
	logger    *log.Entry
	now       func() time.Time
}

// Options задаёт необязательные зависимости сервиса бронирований.
type Options struct {
	Publisher domain.EventPublisher
	Hub       *stream.Hub[domain.Reservation]
	Metrics   *metrics.AdminMetrics
	Logger    *log.Entry
	Now       func() time.Time
}

// NewService создаёт сервис бронирований.
func NewService(repo domain.ReservationRepository, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "reservations-service")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		repo:      repo,
		publisher: opts.Publisher,
		hub:       opts.Hub,
		metrics:   opts.Metrics,
		logger:    logger,
		now:       now,
	}
}

// Create создаёт бронирование со статусом pending.
// Проверка конфликта столика fail-closed: ошибка хранилища блокирует
// создание вместо того, чтобы считаться отсутствием конфликта.
func (s *Service) Create(input CreateInput) (domain.Reservation, error) {
	now := s.now().UTC()

	reservation := domain.Reservation{
		ID:              uuid.NewString(),
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		CustomerEmail:   input.CustomerEmail,
		Date:            input.Date,
		TimeSlot:        input.TimeSlot,
		PartySize:       input.PartySize,
		TableNumber:     input.TableNumber,
		Status:          domain.ReservationStatusPending,
		SpecialRequests: input.SpecialRequests,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if errs := reservation.Validate(); len(errs) > 0 {
		return domain.Reservation{}, errs[0]
	}

	if err := s.checkTableConflict(reservation); err != nil {
		return domain.Reservation{}, err
	}

	if err := s.repo.Create(reservation); err != nil {
		return domain.Reservation{}, fmt.Errorf("create reservation: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordReservationCreated()
	}
	s.publishEvent(kafka.NewReservationEvent(
		kafka.EventTypeReservationCreated,
		reservation.ID,
		string(reservation.Status),
		reservation.Date,
		reservation.TimeSlot,
		reservation.TableNumber,
	))
	s.publishSnapshot()

	s.logger.WithFields(log.Fields{
		"reservation_id": reservation.ID,
		"date":           reservation.Date.Format("2006-01-02"),
		"time_slot":      reservation.TimeSlot,
		"table_number":   reservation.TableNumber,
	}).Info("reservation created")

	return reservation, nil
}

// Get возвращает бронирование по идентификатору.
func (s *Service) Get(id string) (domain.Reservation, error) {
	return s.repo.Get(id)
}

// List возвращает все бронирования по возрастанию даты.
func (s *Service) List() ([]domain.Reservation, error) {
	return s.repo.List()
}

// UpdateStatus переводит бронирование в новый статус.
func (s *Service) UpdateStatus(id string, next domain.ReservationStatus) (domain.Reservation, error) {
	if !domain.IsValidReservationStatus(next) {
		return domain.Reservation{}, domain.ErrStatusUnknown
	}

	const maxRetries = 3
	const baseDelay = 10 * time.Millisecond

	reservation, err := s.repo.Get(id)
	if err != nil {
		return domain.Reservation{}, err
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		if reservation.Status == next {
			return reservation, nil
		}

		reservation.Status = next
		reservation.UpdatedAt = s.now().UTC()

		err := s.repo.Save(reservation)
		if err == nil {
			reservation.Version++
			break
		}

		if domain.IsVersionConflict(err) && attempt < maxRetries-1 {
			s.logger.WithFields(log.Fields{
				"reservation_id": reservation.ID,
				"attempt":        attempt + 1,
			}).Warn("version conflict detected, retrying")

			fresh, loadErr := s.repo.Get(reservation.ID)
			if loadErr != nil {
				return domain.Reservation{}, loadErr
			}
			reservation = fresh

			time.Sleep(baseDelay * time.Duration(1<<uint(attempt)))
			continue
		}

		return domain.Reservation{}, err
	}

	s.publishEvent(kafka.NewReservationEvent(
		kafka.EventTypeReservationStatusChanged,
		reservation.ID,
		string(reservation.Status),
		reservation.Date,
		reservation.TimeSlot,
		reservation.TableNumber,
	))
	s.publishSnapshot()

	s.logger.WithFields(log.Fields{
		"reservation_id": reservation.ID,
		"status":         string(next),
	}).Info("reservation status updated")

	return reservation, nil
}

// AssignTable назначает бронированию столик с проверкой конфликта.
func (s *Service) AssignTable(id string, table int32) (domain.Reservation, error) {
	if table <= 0 {
		return domain.Reservation{}, domain.ErrTableNumberInvalid
	}

	reservation, err := s.repo.Get(id)
	if err != nil {
		return domain.Reservation{}, err
	}

	candidate := reservation
	candidate.TableNumber = table
	if err := s.checkTableConflict(candidate); err != nil {
		return domain.Reservation{}, err
	}

	reservation.TableNumber = table
	reservation.UpdatedAt = s.now().UTC()
	if err := s.repo.Save(reservation); err != nil {
		return domain.Reservation{}, err
	}
	reservation.Version++

	s.publishSnapshot()
	return reservation, nil
}

// checkTableConflict ищет активное бронирование того же столика в тот же слот.
func (s *Service) checkTableConflict(candidate domain.Reservation) error {
	if candidate.TableNumber == 0 {
		return nil
	}

	sameDay, err := s.repo.ListByDate(candidate.Date)
	if err != nil {
		// Fail-closed: при недоступном хранилище бронирование не создаётся.
		return fmt.Errorf("check table availability: %w", err)
	}

	for _, existing := range sameDay {
		if existing.ID == candidate.ID {
			continue
		}
		if !existing.IsActive() {
			continue
		}
		if existing.TimeSlot == candidate.TimeSlot && existing.TableNumber == candidate.TableNumber {
			if s.metrics != nil {
				s.metrics.RecordReservationConflict()
			}
			return domain.ErrTableConflict
		}
	}

	return nil
}

func (s *Service) publishEvent(event *kafka.ReservationEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(kafka.TopicReservationEvents, event.ReservationID, event); err != nil {
		s.logger.WithError(err).WithField("reservation_id", event.ReservationID).Warn("failed to publish reservation event")
	}
}

func (s *Service) publishSnapshot() {
	if s.hub == nil {
		return
	}

	reservations, err := s.repo.List()
	if err != nil {
		s.logger.WithError(err).Warn("failed to load reservations for stream snapshot")
		s.hub.Fail(stream.ErrCodeUpstream, "failed to load reservations")
		return
	}
	s.hub.Publish(reservations)
}
