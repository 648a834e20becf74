package handler

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"fieldtrack/internal/model"
	"fieldtrack/internal/service"
)

// previewCache drops cached report previews after fuel edits.
type previewCache interface {
	InvalidatePreview(ctx context.Context, repID uint, year, month int) error
}

// FuelHandler exposes the rep's fuel-fill records.
type FuelHandler struct {
	fuel     *service.FuelService
	previews previewCache
}

// NewFuelHandler creates a fuel handler
func NewFuelHandler(fuel *service.FuelService, previews previewCache) *FuelHandler {
	return &FuelHandler{fuel: fuel, previews: previews}
}

// RegisterRoutes registers fuel routes
func (h *FuelHandler) RegisterRoutes(r *gin.RouterGroup) {
	fuel := r.Group("/fuel")
	{
		fuel.GET("", h.ListMonth)
		fuel.POST("", h.Add)
		fuel.PUT("/:id", h.Update)
		fuel.DELETE("/:id", h.Delete)
	}
}

// ListMonth godoc
// @Summary Fuel fills for one calendar month
// @Tags fuel
// @Produce json
// @Param year query int false "year (defaults to current)"
// @Param month query int false "month 1-12 (defaults to current)"
// @Router /fuel [get]
func (h *FuelHandler) ListMonth(c *gin.Context) {
	year, month := monthParams(c)
	fills, err := h.fuel.ListMonth(c.Request.Context(), currentUserID(c), year, month)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": fills})
}

// Add godoc
// @Summary Record a fuel fill
// @Tags fuel
// @Accept json
// @Produce json
// @Param body body model.SaveFuelLogRequest true "fill"
// @Success 201 {object} model.FuelLog
// @Router /fuel [post]
func (h *FuelHandler) Add(c *gin.Context) {
	var req model.SaveFuelLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fill, err := h.fuel.Add(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.dropPreviews(c.Request.Context(), fill.UserID, fill.FillDate)
	c.JSON(http.StatusCreated, fill)
}

// Update godoc
// @Summary Rewrite a fuel fill
// @Tags fuel
// @Accept json
// @Produce json
// @Param body body model.SaveFuelLogRequest true "fill"
// @Success 200 {object} model.FuelLog
// @Router /fuel/{id} [put]
func (h *FuelHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fuel log id"})
		return
	}

	var req model.SaveFuelLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The old fill date matters too: moving a fill across months leaves
	// both months' cached previews stale.
	oldDate := ""
	if old, err := h.fuel.Get(c.Request.Context(), uint(id)); err == nil {
		oldDate = old.FillDate
	}

	fill, err := h.fuel.Update(c.Request.Context(), uint(id), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.dropPreviews(c.Request.Context(), fill.UserID, oldDate, fill.FillDate)
	c.JSON(http.StatusOK, fill)
}

// Delete godoc
// @Summary Remove a fuel fill
// @Tags fuel
// @Produce json
// @Router /fuel/{id} [delete]
func (h *FuelHandler) Delete(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fuel log id"})
		return
	}

	old, err := h.fuel.Get(c.Request.Context(), uint(id))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "fuel log not found"})
		return
	}

	if err := h.fuel.Delete(c.Request.Context(), uint(id)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.dropPreviews(c.Request.Context(), old.UserID, old.FillDate)
	c.JSON(http.StatusOK, gin.H{"deleted": id})
}

// dropPreviews invalidates the cached report preview for every month the
// given fill dates touch. Best effort: the preview rebuilds on demand.
func (h *FuelHandler) dropPreviews(ctx context.Context, repID uint, dates ...string) {
	if h.previews == nil {
		return
	}
	for _, date := range dates {
		d, err := time.Parse("2006-01-02", date)
		if err != nil {
			continue
		}
		if err := h.previews.InvalidatePreview(ctx, repID, d.Year(), int(d.Month())); err != nil {
			log.Printf("[Fuel] Failed to invalidate report preview for rep %d %s: %v", repID, date, err)
		}
	}
}

// monthParams reads year/month query params, defaulting to the current month.
func monthParams(c *gin.Context) (int, int) {
	now := time.Now()
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil || year < 2000 {
		year = now.Year()
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		month = int(now.Month())
	}
	return year, month
}
