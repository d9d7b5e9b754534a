package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
	"github.com/vladislavdragonenkov/restadmin/internal/stream"
	"github.com/vladislavdragonenkov/restadmin/internal/view"
)

func (s *server) listCustomers(c *gin.Context) {
	all, err := s.deps.Customers.List()
	if err != nil {
		writeDomainError(c, err)
		return
	}

	filtered := view.FilterCustomers(all, view.CustomerFilter{
		Activity: view.Activity(c.DefaultQuery("activity", string(view.ActivityAll))),
		Search:   c.Query("search"),
		Now:      s.now(),
	})

	field, asc := parseSort(c, view.SortByName, true)
	sorted := view.SortCustomers(filtered, field, asc)

	c.JSON(http.StatusOK, gin.H{"customers": sorted, "total": len(sorted)})
}

func (s *server) createCustomer(c *gin.Context) {
	var req createCustomerRequest
	if err := bindAndValidate(c, &req, s.validate); err != nil {
		return
	}

	now := s.now().UTC()
	customer := domain.Customer{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if errs := customer.Validate(); len(errs) > 0 {
		writeDomainError(c, errs[0])
		return
	}

	if err := s.deps.Customers.Create(customer); err != nil {
		writeDomainError(c, err)
		return
	}
	s.publishCustomerSnapshot()

	c.JSON(http.StatusCreated, customer)
}

func (s *server) getCustomer(c *gin.Context) {
	customer, err := s.deps.Customers.Get(c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, customer)
}

func (s *server) publishCustomerSnapshot() {
	if s.deps.CustomerHub == nil {
		return
	}

	customers, err := s.deps.Customers.List()
	if err != nil {
		s.logger.WithError(err).Warn("failed to load customers for stream snapshot")
		s.deps.CustomerHub.Fail(stream.ErrCodeUpstream, "failed to load customers")
		return
	}
	s.deps.CustomerHub.Publish(customers)
}
