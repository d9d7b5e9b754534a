package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AdminMetrics содержит метрики админ-панели ресторана.
type AdminMetrics struct {
	// Счётчики операций
	ordersCreated        prometheus.Counter
	orderStatusChanges   *prometheus.CounterVec
	reservationsCreated  prometheus.Counter
	reservationConflicts prometheus.Counter
	notificationsSent    prometheus.Counter
	notificationsFailed  prometheus.Counter
	loyaltyAccruals      prometheus.Counter

	// Гистограммы времени выполнения
	statsRecompute   prometheus.Histogram
	dispatchDuration prometheus.Histogram

	// Gauge для живых значений дашборда
	activeOrders           prometheus.Gauge
	scheduledNotifications prometheus.Gauge
	streamSubscribers      *prometheus.GaugeVec
}

// NewAdminMetrics создаёт новый экземпляр метрик.
func NewAdminMetrics() *AdminMetrics {
	return newAdminMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

func newAdminMetricsWithRegisterer(registerer prometheus.Registerer) *AdminMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	return &AdminMetrics{
		ordersCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "resto_orders_created_total",
			Help: "Total number of orders created",
		}),
		orderStatusChanges: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "resto_order_status_changes_total",
			Help: "Total number of order status transitions",
		}, []string{"status"}),
		reservationsCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "resto_reservations_created_total",
			Help: "Total number of reservations created",
		}),
		reservationConflicts: registerCounter(registerer, prometheus.CounterOpts{
			Name: "resto_reservation_conflicts_total",
			Help: "Total number of reservations rejected due to table conflicts",
		}),
		notificationsSent: registerCounter(registerer, prometheus.CounterOpts{
			Name: "resto_notifications_sent_total",
			Help: "Total number of notifications dispatched successfully",
		}),
		notificationsFailed: registerCounter(registerer, prometheus.CounterOpts{
			Name: "resto_notifications_failed_total",
			Help: "Total number of notification dispatch failures",
		}),
		loyaltyAccruals: registerCounter(registerer, prometheus.CounterOpts{
			Name: "resto_loyalty_accruals_total",
			Help: "Total number of loyalty accruals applied to customers",
		}),
		statsRecompute: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "resto_stats_recompute_duration_seconds",
			Help:    "Duration of dashboard stats recomputation in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		}),
		dispatchDuration: registerHistogram(registerer, prometheus.HistogramOpts{
			Name:    "resto_notification_dispatch_duration_seconds",
			Help:    "Duration of a single notification dispatch in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		activeOrders: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "resto_active_orders",
			Help: "Number of orders currently in a non-terminal status",
		}),
		scheduledNotifications: registerGauge(registerer, prometheus.GaugeOpts{
			Name: "resto_scheduled_notifications",
			Help: "Number of notifications waiting to be dispatched",
		}),
		streamSubscribers: registerGaugeVec(registerer, prometheus.GaugeOpts{
			Name: "resto_stream_subscribers",
			Help: "Number of active subscribers per entity stream",
		}, []string{"stream"}),
	}
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerGauge(registerer prometheus.Registerer, opts prometheus.GaugeOpts) prometheus.Gauge {
	collector := prometheus.NewGauge(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Gauge)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge %q: %v", opts.Name, err))
	}
	return collector
}

func registerGaugeVec(registerer prometheus.Registerer, opts prometheus.GaugeOpts, labels []string) *prometheus.GaugeVec {
	collector := prometheus.NewGaugeVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.GaugeVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register gauge vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogram(registerer prometheus.Registerer, opts prometheus.HistogramOpts) prometheus.Histogram {
	collector := prometheus.NewHistogram(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Histogram)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram %q: %v", opts.Name, err))
	}
	return collector
}

// RecordOrderCreated увеличивает счётчик созданных заказов.
func (m *AdminMetrics) RecordOrderCreated() {
	m.ordersCreated.Inc()
}

// RecordOrderStatusChange увеличивает счётчик переходов статуса заказа.
func (m *AdminMetrics) RecordOrderStatusChange(status string) {
	m.orderStatusChanges.WithLabelValues(status).Inc()
}

// RecordReservationCreated увеличивает счётчик созданных бронирований.
func (m *AdminMetrics) RecordReservationCreated() {
	m.reservationsCreated.Inc()
}

// RecordReservationConflict увеличивает счётчик конфликтов столиков.
func (m *AdminMetrics) RecordReservationConflict() {
	m.reservationConflicts.Inc()
}

// RecordNotificationSent увеличивает счётчик отправленных рассылок.
func (m *AdminMetrics) RecordNotificationSent() {
	m.notificationsSent.Inc()
}

// RecordNotificationFailed увеличивает счётчик неудачных рассылок.
func (m *AdminMetrics) RecordNotificationFailed() {
	m.notificationsFailed.Inc()
}

// RecordLoyaltyAccrual увеличивает счётчик начислений лояльности.
func (m *AdminMetrics) RecordLoyaltyAccrual() {
	m.loyaltyAccruals.Inc()
}

// RecordStatsRecompute записывает длительность пересчёта статистики.
func (m *AdminMetrics) RecordStatsRecompute(duration time.Duration) {
	m.statsRecompute.Observe(duration.Seconds())
}

// RecordDispatchDuration записывает длительность отправки рассылки.
func (m *AdminMetrics) RecordDispatchDuration(duration time.Duration) {
	m.dispatchDuration.Observe(duration.Seconds())
}

// SetActiveOrders выставляет количество активных заказов.
func (m *AdminMetrics) SetActiveOrders(n int) {
	m.activeOrders.Set(float64(n))
}

// SetScheduledNotifications выставляет количество запланированных рассылок.
func (m *AdminMetrics) SetScheduledNotifications(n int) {
	m.scheduledNotifications.Set(float64(n))
}

// SetStreamSubscribers выставляет количество подписчиков потока.
func (m *AdminMetrics) SetStreamSubscribers(stream string, n int) {
	m.streamSubscribers.WithLabelValues(stream).Set(float64(n))
}
