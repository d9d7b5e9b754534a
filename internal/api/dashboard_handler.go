package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (s *server) dashboardStats(c *gin.Context) {
	if s.deps.Dashboard == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "dashboard_unavailable"})
		return
	}
	c.JSON(http.StatusOK, s.deps.Dashboard.Stats())
}
