package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldtrack/internal/service"
)

// StatsHandler serves the admin dashboard counters.
type StatsHandler struct {
	stats *service.StatsService
}

// NewStatsHandler creates a stats handler
func NewStatsHandler(stats *service.StatsService) *StatsHandler {
	return &StatsHandler{stats: stats}
}

// RegisterRoutes registers stats routes
func (h *StatsHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/stats/overview", h.Overview)
}

// Overview godoc
// @Summary Dashboard counters
// @Tags stats
// @Produce json
// @Success 200 {object} service.DashboardStats
// @Router /stats/overview [get]
func (h *StatsHandler) Overview(c *gin.Context) {
	stats, err := h.stats.Overview(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}
