package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/restadmin/internal/domain"
)

func (s *server) listMenu(c *gin.Context) {
	items, err := s.deps.Menu.List()
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": len(items)})
}

func (s *server) createMenuItem(c *gin.Context) {
	var req menuItemRequest
	if err := bindAndValidate(c, &req, s.validate); err != nil {
		return
	}

	now := s.now().UTC()
	item := domain.MenuItem{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		PriceMinor:  req.PriceMinor,
		Category:    req.Category,
		Available:   true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
	if errs := item.Validate(); len(errs) > 0 {
		writeDomainError(c, errs[0])
		return
	}

	if err := s.deps.Menu.Create(item); err != nil {
		writeDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, item)
}

func (s *server) getMenuItem(c *gin.Context) {
	item, err := s.deps.Menu.Get(c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (s *server) updateMenuItem(c *gin.Context) {
	var req menuItemRequest
	if err := bindAndValidate(c, &req, s.validate); err != nil {
		return
	}

	item, err := s.deps.Menu.Get(c.Param("id"))
	if err != nil {
		writeDomainError(c, err)
		return
	}

	item.Name = req.Name
	item.Description = req.Description
	item.PriceMinor = req.PriceMinor
	item.Category = req.Category
	if req.Available != nil {
		item.Available = *req.Available
	}
	item.UpdatedAt = s.now().UTC()

	if errs := item.Validate(); len(errs) > 0 {
		writeDomainError(c, errs[0])
		return
	}

	if err := s.deps.Menu.Save(item); err != nil {
		writeDomainError(c, err)
		return
	}
	item.Version++

	c.JSON(http.StatusOK, item)
}

func (s *server) deleteMenuItem(c *gin.Context) {
	if err := s.deps.Menu.Delete(c.Param("id")); err != nil {
		writeDomainError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
