package loyalty

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
	"github.com/vladislavdragonenkov/restadmin/internal/metrics"
	"github.com/vladislavdragonenkov/restadmin/internal/stream"
)

const (
	defaultPollInterval = 10 * time.Second

	// Одно очко лояльности за каждые 100 минорных единиц чека.
	pointsDivisor = 100
)

// WorkerOptions задаёт параметры loyalty worker.
type WorkerOptions struct {
	Logger       *log.Entry
	Hub          *stream.Hub[domain.Customer]
	Metrics      *metrics.AdminMetrics
	PollInterval time.Duration
	Since        time.Time
	Now          func() time.Time
}

// Option настраивает Worker.
type Option func(*WorkerOptions)

// WithLogger задаёт logger для воркера.
func WithLogger(logger *log.Entry) Option {
	return func(opts *WorkerOptions) {
		opts.Logger = logger
	}
}

// WithHub задаёт поток, в который публикуется снапшот клиентов.
func WithHub(hub *stream.Hub[domain.Customer]) Option {
	return func(opts *WorkerOptions) {
		opts.Hub = hub
	}
}

// WithMetrics задаёт метрики начислений.
func WithMetrics(m *metrics.AdminMetrics) Option {
	return func(opts *WorkerOptions) {
		opts.Metrics = m
	}
}

// WithPollInterval задаёт частоту опроса заказов.
func WithPollInterval(interval time.Duration) Option {
	return func(opts *WorkerOptions) {
		opts.PollInterval = interval
	}
}

// WithSince задаёт нижнюю границу заказов для начисления.
func WithSince(since time.Time) Option {
	return func(opts *WorkerOptions) {
		opts.Since = since
	}
}

// WithClock задаёт источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(opts *WorkerOptions) {
		opts.Now = now
	}
}

// Worker начисляет лояльность по завершённым заказам.
type Worker struct {
	orders    domain.OrderRepository
	customers domain.CustomerRepository
	hub       *stream.Hub[domain.Customer]
	metrics   *metrics.AdminMetrics
	logger    *log.Entry
	interval  time.Duration
	since     time.Time
	now       func() time.Time

	// TODO: вынести курсор начислений в хранилище, чтобы рестарт
	// сервиса не приводил к повторному начислению.
	accrued map[string]struct{}
}

// NewWorker создаёт loyalty worker.
func NewWorker(orders domain.OrderRepository, customers domain.CustomerRepository, options ...Option) *Worker {
	opts := WorkerOptions{
		PollInterval: defaultPollInterval,
		Now:          time.Now,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "loyalty-worker")
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Worker{
		orders:    orders,
		customers: customers,
		hub:       opts.Hub,
		metrics:   opts.Metrics,
		logger:    logger,
		interval:  opts.PollInterval,
		since:     opts.Since,
		now:       opts.Now,
		accrued:   make(map[string]struct{}),
	}
}

// Run запускает периодическое начисление до отмены ctx.
func (w *Worker) Run(ctx context.Context) {
	if w.orders == nil || w.customers == nil {
		w.logger.Warn("loyalty worker is disabled: repositories are nil")
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.ProcessOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.ProcessOnce(ctx)
		}
	}
}

// ProcessOnce выполняет один цикл начисления.
func (w *Worker) ProcessOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	orders, err := w.orders.ListSince(w.since)
	if err != nil {
		w.logger.WithError(err).Warn("failed to list orders for loyalty accrual")
		return
	}

	changed := false
	for _, order := range orders {
		if ctx.Err() != nil {
			return
		}
		if order.Status != domain.OrderStatusCompleted {
			continue
		}
		if _, done := w.accrued[order.ID]; done {
			continue
		}

		if err := w.accrue(order); err != nil {
			w.logger.WithError(err).WithField("order_id", order.ID).Warn("loyalty accrual failed")
			continue
		}

		w.accrued[order.ID] = struct{}{}
		changed = true
		if w.metrics != nil {
			w.metrics.RecordLoyaltyAccrual()
		}
	}

	if changed {
		w.publishSnapshot()
	}
}

// accrue сворачивает завершённый заказ в агрегаты клиента.
func (w *Worker) accrue(order domain.Order) error {
	if order.CustomerPhone == "" {
		w.logger.WithField("order_id", order.ID).Debug("order has no customer phone, skipping accrual")
		return nil
	}

	const maxRetries = 3

	for attempt := 0; attempt < maxRetries; attempt++ {
		customer, err := w.customers.GetByPhone(order.CustomerPhone)
		if domain.IsNotFound(err) {
			customer, err = w.createCustomer(order)
			if domain.IsAlreadyExists(err) {
				// Конкурирующее создание, перечитываем.
				continue
			}
		}
		if err != nil {
			return err
		}

		customer.TotalOrders++
		customer.TotalSpentMinor += order.TotalMinor
		if order.CreatedAt.After(customer.LastOrderAt) {
			customer.LastOrderAt = order.CreatedAt
		}
		customer.LoyaltyPoints += order.TotalMinor / pointsDivisor
		customer.UpdatedAt = w.now().UTC()

		err = w.customers.Save(customer)
		if err == nil {
			w.logger.WithFields(log.Fields{
				"order_id":    order.ID,
				"customer_id": customer.ID,
				"points":      order.TotalMinor / pointsDivisor,
			}).Info("loyalty accrued")
			return nil
		}
		if !domain.IsVersionConflict(err) {
			return err
		}
	}

	return domain.ErrVersionConflict
}

func (w *Worker) createCustomer(order domain.Order) (domain.Customer, error) {
	now := w.now().UTC()
	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      order.CustomerName,
		Phone:     order.CustomerPhone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := w.customers.Create(customer); err != nil {
		return domain.Customer{}, err
	}
	return customer, nil
}

func (w *Worker) publishSnapshot() {
	if w.hub == nil {
		return
	}

	customers, err := w.customers.List()
	if err != nil {
		w.logger.WithError(err).Warn("failed to load customers for stream snapshot")
		w.hub.Fail(stream.ErrCodeUpstream, "failed to load customers")
		return
	}
	w.hub.Publish(customers)
}
