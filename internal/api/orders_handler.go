package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
	"github.com/vladislavdragonenkov/restadmin/internal/service/orders"
	"github.com/vladislavdragonenkov/restadmin/internal/view"
)

func (s *server) listOrders(c *gin.Context) {
	all, err := s.deps.Orders.List()
	if err != nil {
		writeDomainError(c, err)
		return
	}

	filtered := view.FilterOrders(all, view.OrderFilter{
		Status: c.DefaultQuery("status", view.StatusAll),
		Search: c.Query("search"),
	})

	field, asc := parseSort(c, view.SortByCreatedAt, false)
	sorted := view.SortOrders(filtered, field, asc)

	c.JSON(http.StatusOK, gin.H{"orders": sorted, "total": len(sorted)})
}

func (s *server) createOrder(c *gin.Context) {
	var req createOrderRequest
	if err := bindAndValidate(c, &req, s.validate); err != nil {
		return
	}

	input := orders.CreateInput{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, orders.ItemInput{
			Name:         item.Name,
			Qty:          item.Qty,
			PriceMinor:   item.PriceMinor,
			Instructions: item.Instructions,
		})
	}

	order, err := s.deps.Orders.Create(input)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

func (s *server) getOrder(c *gin.Context) {
	order, err := s.deps.Orders.Get(c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (s *server) updateOrderStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := bindAndValidate(c, &req, s.validate); err != nil {
		return
	}

	order, err := s.deps.Orders.UpdateStatus(c.Param("id"), domain.OrderStatus(req.Status))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}
