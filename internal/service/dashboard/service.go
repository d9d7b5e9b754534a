package dashboard

import (
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
	"github.com/vladislavdragonenkov/restadmin/internal/metrics"
	"github.com/vladislavdragonenkov/restadmin/internal/stats"
	"github.com/vladislavdragonenkov/restadmin/internal/stream"
)

// Snapshot агрегирует статистику всех разделов дашборда.
type Snapshot struct {
	Orders        stats.OrderStats        `json:"orders"`
	PopularItems  []stats.PopularItem     `json:"popular_items"`
	Reservations  stats.ReservationStats  `json:"reservations"`
	Customers     stats.CustomerStats     `json:"customers"`
	Notifications stats.NotificationStats `json:"notifications"`
	UpdatedAt     time.Time               `json:"updated_at"`
}

// Hubs перечисляет потоки сущностей, на которые подписывается дашборд.
type Hubs struct {
	Orders        *stream.Hub[domain.Order]
	Reservations  *stream.Hub[domain.Reservation]
	Customers     *stream.Hub[domain.Customer]
	Notifications *stream.Hub[domain.Notification]
}

// Options задаёт необязательные зависимости дашборда.
type Options struct {
	Metrics *metrics.AdminMetrics
	Logger  *log.Entry
	Now     func() time.Time
	TopN    int
}

// Service держит актуальную статистику, пересчитывая её на каждый снапшот.
type Service struct {
	mu            sync.RWMutex
	snapshot      Snapshot
	orders        []domain.Order
	reservations  []domain.Reservation
	customers     []domain.Customer
	notifications []domain.Notification

	metrics *metrics.AdminMetrics
	logger  *log.Entry
	now     func() time.Time
	topN    int

	cancels []func()
}

// NewService создаёт дашборд и подписывает его на потоки сущностей.
func NewService(hubs Hubs, opts Options) *Service {
	logger := opts.Logger
	if logger == nil {
		logger = log.WithField("component", "dashboard")
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	topN := opts.TopN
	if topN <= 0 {
		topN = stats.DefaultTopItems
	}

	s := &Service{
		metrics: opts.Metrics,
		logger:  logger,
		now:     now,
		topN:    topN,
	}

	if hubs.Orders != nil {
		s.cancels = append(s.cancels, hubs.Orders.Subscribe(s.onOrders, s.onStreamError("orders")))
	}
	if hubs.Reservations != nil {
		s.cancels = append(s.cancels, hubs.Reservations.Subscribe(s.onReservations, s.onStreamError("reservations")))
	}
	if hubs.Customers != nil {
		s.cancels = append(s.cancels, hubs.Customers.Subscribe(s.onCustomers, s.onStreamError("customers")))
	}
	if hubs.Notifications != nil {
		s.cancels = append(s.cancels, hubs.Notifications.Subscribe(s.onNotifications, s.onStreamError("notifications")))
	}

	return s
}

// Prime загружает начальное состояние из репозиториев до первых снапшотов.
func (s *Service) Prime(orders domain.OrderRepository, reservations domain.ReservationRepository, customers domain.CustomerRepository, notifications domain.NotificationRepository) {
	if orders != nil {
		if list, err := orders.List(); err == nil {
			s.onOrders(list)
		} else {
			s.logger.WithError(err).Warn("failed to prime orders")
		}
	}
	if reservations != nil {
		if list, err := reservations.List(); err == nil {
			s.onReservations(list)
		} else {
			s.logger.WithError(err).Warn("failed to prime reservations")
		}
	}
	if customers != nil {
		if list, err := customers.List(); err == nil {
			s.onCustomers(list)
		} else {
			s.logger.WithError(err).Warn("failed to prime customers")
		}
	}
	if notifications != nil {
		if list, err := notifications.List(); err == nil {
			s.onNotifications(list)
		} else {
			s.logger.WithError(err).Warn("failed to prime notifications")
		}
	}
}

// Stats возвращает последнюю рассчитанную статистику.
func (s *Service) Stats() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Close отписывается от всех потоков.
func (s *Service) Close() {
	for _, cancel := range s.cancels {
		cancel()
	}
}

func (s *Service) onOrders(orders []domain.Order) {
	s.mu.Lock()
	s.orders = orders
	s.recomputeLocked()
	s.mu.Unlock()
}

func (s *Service) onReservations(reservations []domain.Reservation) {
	s.mu.Lock()
	s.reservations = reservations
	s.recomputeLocked()
	s.mu.Unlock()
}

func (s *Service) onCustomers(customers []domain.Customer) {
	s.mu.Lock()
	s.customers = customers
	s.recomputeLocked()
	s.mu.Unlock()
}

func (s *Service) onNotifications(notifications []domain.Notification) {
	s.mu.Lock()
	s.notifications = notifications
	s.recomputeLocked()
	s.mu.Unlock()
}

func (s *Service) onStreamError(name string) stream.ErrorFunc {
	return func(err *stream.Error) {
		s.logger.WithFields(log.Fields{
			"stream": name,
			"code":   err.Code,
		}).Warn(err.Message)
	}
}

// recomputeLocked пересчитывает статистику; вызывается под mu.
func (s *Service) recomputeLocked() {
	started := time.Now()
	now := s.now()

	s.snapshot = Snapshot{
		Orders:        stats.ComputeOrderStats(s.orders, now),
		PopularItems:  stats.ComputePopularItems(s.orders, s.topN),
		Reservations:  stats.ComputeReservationStats(s.reservations, now),
		Customers:     stats.ComputeCustomerStats(s.customers, now),
		Notifications: stats.ComputeNotificationStats(s.notifications),
		UpdatedAt:     now,
	}

	if s.metrics != nil {
		s.metrics.RecordStatsRecompute(time.Since(started))

		active := 0
		for _, order := range s.orders {
			switch order.Status {
			case domain.OrderStatusPending, domain.OrderStatusPreparing, domain.OrderStatusReady:
				active++
			}
		}
		s.metrics.SetActiveOrders(active)

		scheduled := 0
		for _, n := range s.notifications {
			if n.Status == domain.NotificationStatusScheduled {
				scheduled++
			}
		}
		s.metrics.SetScheduledNotifications(scheduled)
	}
}
