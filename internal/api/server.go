package api

import (
	"time"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
	"github.com/vladislavdragonenkov/restadmin/internal/service/dashboard"
	"github.com/vladislavdragonenkov/restadmin/internal/service/orders"
	"github.com/vladislavdragonenkov/restadmin/internal/service/reservations"
	"github.com/vladislavdragonenkov/restadmin/internal/stream"
	"github.com/vladislavdragonenkov/restadmin/internal/view"
)

// Dependencies группирует зависимости HTTP API.
type Dependencies struct {
	Orders          *orders.Service
	Reservations    *reservations.Service
	Customers       domain.CustomerRepository
	Notifications   domain.NotificationRepository
	Menu            domain.MenuRepository
	CustomerHub     *stream.Hub[domain.Customer]
	NotificationHub *stream.Hub[domain.Notification]
	Dashboard       *dashboard.Service
	Logger          *log.Entry
	Now             func() time.Time
}

type server struct {
	deps     Dependencies
	validate *validatorv10.Validate
	logger   *log.Entry
	now      func() time.Time
}

// NewRouter собирает gin router со всеми маршрутами админ-панели.
func NewRouter(deps Dependencies) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = log.WithField("component", "http-api")
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	s := &server{
		deps:     deps,
		validate: newValidator(),
		logger:   logger,
		now:      now,
	}

	router := gin.New()
	router.Use(gin.Recovery())

	v1 := router.Group("/api/v1")
	{
		v1.GET("/orders", s.listOrders)
		v1.POST("/orders", s.createOrder)
		v1.GET("/orders/:id", s.getOrder)
		v1.PATCH("/orders/:id/status", s.updateOrderStatus)

		v1.GET("/reservations", s.listReservations)
		v1.POST("/reservations", s.createReservation)
		v1.GET("/reservations/:id", s.getReservation)
		v1.PATCH("/reservations/:id/status", s.updateReservationStatus)
		v1.PATCH("/reservations/:id/table", s.assignReservationTable)

		v1.GET("/customers", s.listCustomers)
		v1.POST("/customers", s.createCustomer)
		v1.GET("/customers/:id", s.getCustomer)

		v1.GET("/notifications", s.listNotifications)
		v1.POST("/notifications", s.createNotification)
		v1.GET("/notifications/:id", s.getNotification)
		v1.POST("/notifications/:id/schedule", s.scheduleNotification)

		v1.GET("/menu", s.listMenu)
		v1.POST("/menu", s.createMenuItem)
		v1.GET("/menu/:id", s.getMenuItem)
		v1.PUT("/menu/:id", s.updateMenuItem)
		v1.DELETE("/menu/:id", s.deleteMenuItem)

		v1.GET("/dashboard/stats", s.dashboardStats)
	}

	return router
}

// parseSort извлекает поле и направление сортировки из query.
func parseSort(c *gin.Context, defaultField view.SortField, defaultAsc bool) (view.SortField, bool) {
	field := view.SortField(c.DefaultQuery("sort", string(defaultField)))

	asc := defaultAsc
	switch c.Query("dir") {
	case "asc":
		asc = true
	case "desc":
		asc = false
	}
	return field, asc
}
