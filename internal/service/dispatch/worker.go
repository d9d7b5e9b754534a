package dispatch

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
	"github.com/vladislavdragonenkov/restadmin/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/restadmin/internal/stream"
)

const (
	defaultPollInterval   = 5 * time.Second
	defaultBatchSize      = 50
	defaultMaxAttempts    = 3
	defaultRetryBaseDelay = 50 * time.Millisecond
)

var (
	dispatchAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "resto_notification_dispatch_attempts_total",
		Help: "Total number of notification dispatch attempts grouped by result.",
	}, []string{"result"})
	dispatchBacklog = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "resto_notification_dispatch_backlog",
		Help: "Current number of scheduled notifications that are due for dispatch.",
	})
)

// WorkerOptions задаёт параметры dispatch worker.
type WorkerOptions struct {
	Logger         *log.Entry
	Publisher      domain.EventPublisher
	Hub            *stream.Hub[domain.Notification]
	PollInterval   time.Duration
	BatchSize      int
	MaxAttempts    int
	RetryBaseDelay time.Duration
	Now            func() time.Time
}

// Option настраивает Worker.
type Option func(*WorkerOptions)

// WithLogger задаёт logger для воркера.
func WithLogger(logger *log.Entry) Option {
	return func(opts *WorkerOptions) {
		opts.Logger = logger
	}
}

// WithPublisher задаёт publisher для событий рассылок.
func WithPublisher(publisher domain.EventPublisher) Option {
	return func(opts *WorkerOptions) {
		opts.Publisher = publisher
	}
}

// WithHub задаёт поток, в который публикуется снапшот после отправки.
func WithHub(hub *stream.Hub[domain.Notification]) Option {
	return func(opts *WorkerOptions) {
		opts.Hub = hub
	}
}

// WithPollInterval задаёт частоту опроса расписания.
func WithPollInterval(interval time.Duration) Option {
	return func(opts *WorkerOptions) {
		opts.PollInterval = interval
	}
}

// WithBatchSize задаёт размер батча рассылок за цикл.
func WithBatchSize(batchSize int) Option {
	return func(opts *WorkerOptions) {
		opts.BatchSize = batchSize
	}
}

// WithMaxAttempts задаёт число попыток отправки перед статусом failed.
func WithMaxAttempts(maxAttempts int) Option {
	return func(opts *WorkerOptions) {
		opts.MaxAttempts = maxAttempts
	}
}

// WithRetryBaseDelay задаёт базовый delay для exponential backoff.
func WithRetryBaseDelay(delay time.Duration) Option {
	return func(opts *WorkerOptions) {
		opts.RetryBaseDelay = delay
	}
}

// WithClock задаёт источник времени (для тестов).
func WithClock(now func() time.Time) Option {
	return func(opts *WorkerOptions) {
		opts.Now = now
	}
}

// Worker отправляет наступившие по расписанию рассылки.
type Worker struct {
	notifications  domain.NotificationRepository
	customers      domain.CustomerRepository
	publisher      domain.EventPublisher
	hub            *stream.Hub[domain.Notification]
	logger         *log.Entry
	pollInterval   time.Duration
	batchSize      int
	maxAttempts    int
	retryBaseDelay time.Duration
	now            func() time.Time
}

// NewWorker создаёт dispatch worker.
func NewWorker(notifications domain.NotificationRepository, customers domain.CustomerRepository, options ...Option) *Worker {
	opts := WorkerOptions{
		PollInterval:   defaultPollInterval,
		BatchSize:      defaultBatchSize,
		MaxAttempts:    defaultMaxAttempts,
		RetryBaseDelay: defaultRetryBaseDelay,
		Now:            time.Now,
	}
	for _, option := range options {
		option(&opts)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "dispatch-worker")
	}

	if opts.PollInterval <= 0 {
		opts.PollInterval = defaultPollInterval
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = defaultMaxAttempts
	}
	if opts.RetryBaseDelay < 0 {
		opts.RetryBaseDelay = 0
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Worker{
		notifications:  notifications,
		customers:      customers,
		publisher:      opts.Publisher,
		hub:            opts.Hub,
		logger:         logger,
		pollInterval:   opts.PollInterval,
		batchSize:      opts.BatchSize,
		maxAttempts:    opts.MaxAttempts,
		retryBaseDelay: opts.RetryBaseDelay,
		now:            opts.Now,
	}
}

// Run запускает периодический опрос расписания до отмены ctx.
func (w *Worker) Run(ctx context.Context) {
	if w.notifications == nil {
		w.logger.Warn("dispatch worker is disabled: notification repository is nil")
		return
	}

	ticker := time.NewTicker(w.pollInterval)
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

// ProcessOnce выполняет один цикл отправки.
func (w *Worker) ProcessOnce(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	now := w.now()
	due, err := w.notifications.PullDue(now, w.batchSize)
	if err != nil {
		w.logger.WithError(err).Warn("failed to pull due notifications")
		return
	}
	dispatchBacklog.Set(float64(len(due)))
	if len(due) == 0 {
		return
	}

	changed := false
	for _, notification := range due {
		if ctx.Err() != nil {
			return
		}
		if w.dispatchOne(ctx, notification, now) {
			changed = true
		}
	}

	if changed {
		w.publishSnapshot()
	}
}

// dispatchOne отправляет одну рассылку и фиксирует результат в хранилище.
func (w *Worker) dispatchOne(ctx context.Context, notification domain.Notification, now time.Time) bool {
	logger := w.logger.WithFields(log.Fields{
		"notification_id": notification.ID,
		"audience":        notification.Audience,
	})

	recipients, err := w.countRecipients(notification.Audience, now)
	if err != nil {
		logger.WithError(err).Warn("failed to resolve audience, keeping notification scheduled")
		return false
	}

	deliverErr := w.deliverWithRetry(ctx, notification, recipients)

	notification.RecipientCount = recipients
	notification.UpdatedAt = now
	if deliverErr != nil {
		logger.WithError(deliverErr).Error("notification dispatch failed after retries")
		dispatchAttempts.WithLabelValues("failed").Inc()
		notification.Status = domain.NotificationStatusFailed
	} else {
		dispatchAttempts.WithLabelValues("sent").Inc()
		notification.Status = domain.NotificationStatusSent
		notification.SentAt = now
		notification.DeliveredCount = recipients
	}

	if err := w.notifications.Save(notification); err != nil {
		logger.WithError(err).Warn("failed to persist dispatch result")
		return false
	}

	logger.WithFields(log.Fields{
		"status":     string(notification.Status),
		"recipients": recipients,
	}).Info("notification dispatched")

	return true
}

// deliverWithRetry публикует событие отправки с retry и exponential backoff.
func (w *Worker) deliverWithRetry(ctx context.Context, notification domain.Notification, recipients int64) error {
	if w.publisher == nil {
		return nil
	}

	event := kafka.NewNotificationEvent(
		kafka.EventTypeNotificationSent,
		notification.ID,
		notification.Audience,
		recipients,
		"",
	)

	var lastErr error
	for attempt := 1; attempt <= w.maxAttempts; attempt++ {
		err := w.publisher.Publish(kafka.TopicNotificationEvents, notification.ID, event)
		if err == nil {
			return nil
		}
		lastErr = err
		dispatchAttempts.WithLabelValues("retry_error").Inc()

		if attempt >= w.maxAttempts {
			break
		}

		delay := w.retryBackoff(attempt)
		if delay <= 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return fmt.Errorf("deliver failed after %d attempts: %w", w.maxAttempts, lastErr)
}

// countRecipients возвращает размер аудитории на момент отправки.
func (w *Worker) countRecipients(audience string, now time.Time) (int64, error) {
	if w.customers == nil {
		return 0, nil
	}

	customers, err := w.customers.List()
	if err != nil {
		return 0, fmt.Errorf("list customers: %w", err)
	}

	var count int64
	for _, customer := range customers {
		switch audience {
		case "active":
			if customer.IsActive(now) {
				count++
			}
		case "loyal":
			if customer.IsLoyaltyMember() {
				count++
			}
		default:
			count++
		}
	}

	return count, nil
}

func (w *Worker) publishSnapshot() {
	if w.hub == nil {
		return
	}

	notifications, err := w.notifications.List()
	if err != nil {
		w.logger.WithError(err).Warn("failed to load notifications for stream snapshot")
		w.hub.Fail(stream.ErrCodeUpstream, "failed to load notifications")
		return
	}
	w.hub.Publish(notifications)
}

func (w *Worker) retryBackoff(attempt int) time.Duration {
	if w.retryBaseDelay <= 0 {
		return 0
	}
	if attempt <= 1 {
		return w.retryBaseDelay
	}

	const maxDuration = time.Duration(1<<63 - 1)
	delay := w.retryBaseDelay
	for i := 1; i < attempt; i++ {
		if delay > maxDuration/2 {
			return maxDuration
		}
		delay *= 2
	}
	return delay
}
