package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restadmin/internal/api"
	"github.com/vladislavdragonenkov/restadmin/internal/domain"
	healthcheck "github.com/vladislavdragonenkov/restadmin/internal/health"
	"github.com/vladislavdragonenkov/restadmin/internal/messaging/kafka"
	"github.com/vladislavdragonenkov/restadmin/internal/metrics"
	"github.com/vladislavdragonenkov/restadmin/internal/service/dashboard"
	"github.com/vladislavdragonenkov/restadmin/internal/service/dispatch"
	"github.com/vladislavdragonenkov/restadmin/internal/service/loyalty"
	"github.com/vladislavdragonenkov/restadmin/internal/service/orders"
	"github.com/vladislavdragonenkov/restadmin/internal/service/reservations"
	"github.com/vladislavdragonenkov/restadmin/internal/storage/memory"
	"github.com/vladislavdragonenkov/restadmin/internal/storage/postgres"
	"github.com/vladislavdragonenkov/restadmin/internal/stream"
	"github.com/vladislavdragonenkov/restadmin/internal/version"
)

// repositories группирует хранилища всех сущностей, независимо от бэкенда.
type repositories struct {
	orders        domain.OrderRepository
	reservations  domain.ReservationRepository
	customers     domain.CustomerRepository
	notifications domain.NotificationRepository
	menu          domain.MenuRepository
}

// Run собирает зависимости и держит сервис до отмены контекста.
func Run(ctx context.Context, cfg Config) error {
	logger := log.WithField("component", "app")
	logger.Info(version.String())

	repos, store, err := initStorage(ctx, cfg, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				logger.WithError(err).Warn("failed to close postgres store")
			}
		}()
	}

	adminMetrics := metrics.NewAdminMetrics()

	var publisher domain.EventPublisher
	var kafkaProducer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer, err := kafka.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		} else {
			kafkaProducer = producer
			publisher = producer
			logger.WithField("brokers", cfg.KafkaBrokers).Info("kafka producer initialized")
		}
	}
	defer func() {
		if kafkaProducer == nil {
			return
		}
		if err := kafkaProducer.Close(); err != nil {
			logger.WithError(err).Warn("failed to close kafka producer")
		}
	}()

	orderHub := stream.NewHub[domain.Order](log.WithField("stream", "orders"))
	reservationHub := stream.NewHub[domain.Reservation](log.WithField("stream", "reservations"))
	customerHub := stream.NewHub[domain.Customer](log.WithField("stream", "customers"))
	notificationHub := stream.NewHub[domain.Notification](log.WithField("stream", "notifications"))
	defer func() {
		orderHub.Close()
		reservationHub.Close()
		customerHub.Close()
		notificationHub.Close()
	}()

	orderService := orders.NewService(repos.orders, orders.Options{
		Publisher: publisher,
		Hub:       orderHub,
		Metrics:   adminMetrics,
	})
	reservationService := reservations.NewService(repos.reservations, reservations.Options{
		Publisher: publisher,
		Hub:       reservationHub,
		Metrics:   adminMetrics,
	})

	dashboardService := dashboard.NewService(dashboard.Hubs{
		Orders:        orderHub,
		Reservations:  reservationHub,
		Customers:     customerHub,
		Notifications: notificationHub,
	}, dashboard.Options{Metrics: adminMetrics})
	defer dashboardService.Close()
	dashboardService.Prime(repos.orders, repos.reservations, repos.customers, repos.notifications)

	adminMetrics.SetStreamSubscribers("orders", orderHub.SubscriberCount())
	adminMetrics.SetStreamSubscribers("reservations", reservationHub.SubscriberCount())
	adminMetrics.SetStreamSubscribers("customers", customerHub.SubscriberCount())
	adminMetrics.SetStreamSubscribers("notifications", notificationHub.SubscriberCount())

	dispatchOptions := []dispatch.Option{
		dispatch.WithHub(notificationHub),
		dispatch.WithPollInterval(cfg.DispatchInterval),
	}
	if publisher != nil {
		dispatchOptions = append(dispatchOptions, dispatch.WithPublisher(publisher))
	}
	dispatchWorker := dispatch.NewWorker(repos.notifications, repos.customers, dispatchOptions...)

	loyaltyWorker := loyalty.NewWorker(repos.orders, repos.customers,
		loyalty.WithHub(customerHub),
		loyalty.WithMetrics(adminMetrics),
		loyalty.WithPollInterval(cfg.LoyaltyInterval),
	)

	workersCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()
	go dispatchWorker.Run(workersCtx)
	go loyaltyWorker.Run(workersCtx)

	healthHandler := healthcheck.NewHandler(version.String())
	if store != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.CheckerFunc(store.Ping))
	}

	metricsSrv := startMetricsServer(ctx, cfg.MetricsAddr, logger, healthHandler)

	router := api.NewRouter(api.Dependencies{
		Orders:          orderService,
		Reservations:    reservationService,
		Customers:       repos.customers,
		Notifications:   repos.notifications,
		Menu:            repos.menu,
		CustomerHub:     customerHub,
		NotificationHub: notificationHub,
		Dashboard:       dashboardService,
	})

	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP API слушает %s", cfg.HTTPAddr)
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		cancelWorkers()
		shutdownHTTP(httpSrv, cfg.ShutdownTimeout, logger)
		shutdownHTTP(metricsSrv, cfg.ShutdownTimeout, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, cfg.ShutdownTimeout, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// initStorage выбирает бэкенд хранилища; *postgres.Store возвращается
// только для бэкенда postgres, иначе nil.
func initStorage(ctx context.Context, cfg Config, logger *log.Entry) (repositories, *postgres.Store, error) {
	switch cfg.StorageBackend {
	case StoragePostgres:
		store, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return repositories{}, nil, err
		}
		if err := store.EnsureSchema(ctx); err != nil {
			_ = store.Close()
			return repositories{}, nil, err
		}
		logger.Info("postgres storage initialized")
		return repositories{
			orders:        postgres.NewOrderRepository(store),
			reservations:  postgres.NewReservationRepository(store),
			customers:     postgres.NewCustomerRepository(store),
			notifications: postgres.NewNotificationRepository(store),
			menu:          postgres.NewMenuRepository(store),
		}, store, nil
	default:
		logger.Info("using in-memory storage")
		return repositories{
			orders:        memory.NewOrderRepository(),
			reservations:  memory.NewReservationRepository(),
			customers:     memory.NewCustomerRepository(),
			notifications: memory.NewNotificationRepository(),
			menu:          memory.NewMenuRepository(),
		}, nil, nil
	}
}

// startMetricsServer поднимает HTTP-сервер метрик и health-проверок.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, 5*time.Second, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, timeout time.Duration, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
