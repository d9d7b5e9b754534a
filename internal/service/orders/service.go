package orders

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

// ItemInput описывает позицию заказа при создании.
type ItemInput struct {
	Name         string
	Qty          int32
	PriceMinor   int64
	Instructions string
}

// CreateInput описывает входные данные создания заказа.
type CreateInput struct {
	CustomerName  string
	CustomerPhone string
	Items         []ItemInput
}

// Service инкапсулирует бизнес-логику заказов.
type Service struct {
	repo      domain.OrderRepository
	publisher domain.EventPublisher
	hub       *stream.Hub[domain.Order]
	metrics   *metrics.AdminMetrics
	logger    *log.Entry
	now       func() time.Time
}

// Options задаёт необязательные зависимости сервиса заказов.
type Options struct {
	Publisher domain.EventPublisher
	Hub       *stream.Hub[domain.Order]
	Metrics   *metrics.AdminMetrics
	Logger    *log.Entry
	Now       func() time.Time
}

// NewService создаёт сервис заказов.
func NewService(repo domain.OrderRepository, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "orders-service")
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

// Create создаёт заказ в статусе pending.
func (s *Service) Create(input CreateInput) (domain.Order, error) {
	now := s.now().UTC()

	order := domain.Order{
		ID:            uuid.NewString(),
		CustomerName:  input.CustomerName,
		CustomerPhone: input.CustomerPhone,
		Status:        domain.OrderStatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	for _, item := range input.Items {
		order.Items = append(order.Items, domain.OrderItem{
			ID:           uuid.NewString(),
			Name:         item.Name,
			Qty:          item.Qty,
			PriceMinor:   item.PriceMinor,
			Instructions: item.Instructions,
		})
		order.TotalMinor += int64(item.Qty) * item.PriceMinor
	}

	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, errs[0]
	}

	if err := s.repo.Create(order); err != nil {
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordOrderCreated()
	}
	s.publishEvent(kafka.NewOrderEvent(kafka.EventTypeOrderCreated, order.ID, string(order.Status), order.TotalMinor, nil))
	s.publishSnapshot()

	s.logger.WithFields(log.Fields{
		"order_id":    order.ID,
		"total_minor": order.TotalMinor,
		"items":       len(order.Items),
	}).Info("order created")

	return order, nil
}

// Get возвращает заказ по идентификатору.
func (s *Service) Get(id string) (domain.Order, error) {
	return s.repo.Get(id)
}

// List возвращает все заказы, новые первыми.
func (s *Service) List() ([]domain.Order, error) {
	return s.repo.List()
}

// UpdateStatus переводит заказ в новый статус.
// Реализует retry логику с exponential backoff для обработки version conflicts.
func (s *Service) UpdateStatus(id string, next domain.OrderStatus) (domain.Order, error) {
	if !domain.IsValidOrderStatus(next) {
		return domain.Order{}, domain.ErrStatusUnknown
	}

	const maxRetries = 3
	const baseDelay = 10 * time.Millisecond

	order, err := s.repo.Get(id)
	if err != nil {
		return domain.Order{}, err
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		if order.Status == next {
			return order, nil
		}
		if !order.CanTransitionTo(next) {
			return domain.Order{}, fmt.Errorf("%w: %s -> %s", domain.ErrStatusTransitionInvalid, order.Status, next)
		}

		order.Status = next
		order.UpdatedAt = s.now().UTC()

		err := s.repo.Save(order)
		if err == nil {
			order.Version++
			break
		}

		if domain.IsVersionConflict(err) && attempt < maxRetries-1 {
			s.logger.WithFields(log.Fields{
				"order_id": order.ID,
				"attempt":  attempt + 1,
				"version":  order.Version,
			}).Warn("version conflict detected, retrying")

			fresh, loadErr := s.repo.Get(order.ID)
			if loadErr != nil {
				return domain.Order{}, loadErr
			}
			order = fresh

			time.Sleep(baseDelay * time.Duration(1<<uint(attempt)))
			continue
		}

		return domain.Order{}, err
	}

	if s.metrics != nil {
		s.metrics.RecordOrderStatusChange(string(next))
	}
	s.publishEvent(kafka.NewOrderEvent(s.eventTypeFor(next), order.ID, string(order.Status), order.TotalMinor, nil))
	s.publishSnapshot()

	s.logger.WithFields(log.Fields{
		"order_id": order.ID,
		"status":   string(next),
	}).Info("order status updated")

	return order, nil
}

func (s *Service) eventTypeFor(status domain.OrderStatus) kafka.EventType {
	switch status {
	case domain.OrderStatusCompleted:
		return kafka.EventTypeOrderCompleted
	case domain.OrderStatusRejected:
		return kafka.EventTypeOrderRejected
	default:
		return kafka.EventTypeOrderStatusChanged
	}
}

func (s *Service) publishEvent(event *kafka.OrderEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(kafka.TopicOrderEvents, event.OrderID, event); err != nil {
		s.logger.WithError(err).WithField("order_id", event.OrderID).Warn("failed to publish order event")
	}
}

func (s *Service) publishSnapshot() {
	if s.hub == nil {
		return
	}

	orders, err := s.repo.List()
	if err != nil {
		s.logger.WithError(err).Warn("failed to load orders for stream snapshot")
		s.hub.Fail(stream.ErrCodeUpstream, "failed to load orders")
		return
	}
	s.hub.Publish(orders)
}
