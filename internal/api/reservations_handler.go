package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
	"github.com/vladislavdragonenkov/restadmin/internal/service/reservations"
	"github.com/vladislavdragonenkov/restadmin/internal/view"
)

func (s *server) listReservations(c *gin.Context) {
	all, err := s.deps.Reservations.List()
	if err != nil {
		writeDomainError(c, err)
		return
	}

	filtered := view.FilterReservations(all, view.ReservationFilter{
		Status: c.DefaultQuery("status", view.StatusAll),
		Bucket: view.DateBucket(c.DefaultQuery("bucket", string(view.DateBucketAll))),
		Search: c.Query("search"),
		Now:    s.now(),
	})

	field, asc := parseSort(c, view.SortByDate, true)
	sorted := view.SortReservations(filtered, field, asc)

	c.JSON(http.StatusOK, gin.H{"reservations": sorted, "total": len(sorted)})
}

func (s *server) createReservation(c *gin.Context) {
	var req createReservationRequest
	if err := bindAndValidate(c, &req, s.validate); err != nil {
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_date", "msg": err.Error()})
		return
	}

	reservation, err := s.deps.Reservations.Create(reservations.CreateInput{
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		CustomerEmail:   req.CustomerEmail,
		Date:            date,
		TimeSlot:        req.TimeSlot,
		PartySize:       req.PartySize,
		TableNumber:     req.TableNumber,
		SpecialRequests: req.SpecialRequests,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

func (s *server) getReservation(c *gin.Context) {
	reservation, err := s.deps.Reservations.Get(c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, reservation)
}

func (s *server) updateReservationStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := bindAndValidate(c, &req, s.validate); err != nil {
		return
	}

	reservation, err := s.deps.Reservations.UpdateStatus(c.Param("id"), domain.ReservationStatus(req.Status))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

func (s *server) assignReservationTable(c *gin.Context) {
	var req assignTableRequest
	if err := bindAndValidate(c, &req, s.validate); err != nil {
		return
	}

	reservation, err := s.deps.Reservations.AssignTable(c.Param("id"), req.TableNumber)
	if err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}
