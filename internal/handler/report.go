package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fieldtrack/internal/model"
	"fieldtrack/internal/service"
)

// ReportHandler exposes the monthly running-chart: a JSON preview and the
// PDF download. Reps can only request their own month; admins and managers
// can request any rep's.
type ReportHandler struct {
	reports *service.ReportService
	pdf     *service.ReportPDF
	events  *service.EventPublisher
}

// NewReportHandler creates a report handler
func NewReportHandler(reports *service.ReportService, pdf *service.ReportPDF, events *service.EventPublisher) *ReportHandler {
	return &ReportHandler{reports: reports, pdf: pdf, events: events}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(r *gin.RouterGroup) {
	reports := r.Group("/reports")
	{
		reports.GET("/:rep_id/preview", h.Preview)
		reports.GET("/:rep_id/pdf", h.Download)
		reports.PUT("/:rep_id/fuel/:fuel_id", h.UpdateFuel)
		reports.DELETE("/:rep_id/fuel/:fuel_id", h.DeleteFuel)
	}
}

func (h *ReportHandler) resolveRep(c *gin.Context) (uint, bool) {
	repID, err := strconv.Atoi(c.Param("rep_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rep id"})
		return 0, false
	}

	role, _ := c.Get("role")
	if role == model.RoleRep && uint(repID) != currentUserID(c) {
		c.JSON(http.StatusForbidden, gin.H{"error": "reps can only view their own report"})
		return 0, false
	}
	return uint(repID), true
}

// Preview godoc
// @Summary Build the monthly report preview
// @Tags reports
// @Produce json
// @Param year query int false "year (defaults to current)"
// @Param month query int false "month 1-12 (defaults to current)"
// @Success 200 {object} model.ReportPreview
// @Router /reports/{rep_id}/preview [get]
func (h *ReportHandler) Preview(c *gin.Context) {
	repID, ok := h.resolveRep(c)
	if !ok {
		return
	}
	year, month := monthParams(c)

	preview, err := h.reports.BuildMonthly(c.Request.Context(), repID, year, month)
	if err != nil {
		if errors.Is(err, service.ErrNotARep) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	h.events.ReportGenerated(service.ReportEvent{RepID: repID, Year: year, Month: month})
	c.JSON(http.StatusOK, preview)
}

// Download godoc
// @Summary Download the monthly running chart as PDF
// @Tags reports
// @Produce application/pdf
// @Param year query int false "year (defaults to current)"
// @Param month query int false "month 1-12 (defaults to current)"
// @Router /reports/{rep_id}/pdf [get]
func (h *ReportHandler) Download(c *gin.Context) {
	repID, ok := h.resolveRep(c)
	if !ok {
		return
	}
	year, month := monthParams(c)
	ctx := c.Request.Context()

	// The preview call normally primed the cache; rebuild on a miss so a
	// direct download link still works.
	preview, err := h.reports.CachedPreview(ctx, repID, year, month)
	if err != nil || preview == nil {
		preview, err = h.reports.BuildMonthly(ctx, repID, year, month)
		if err != nil {
			if errors.Is(err, service.ErrNotARep) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
	}

	data, err := h.pdf.Render(preview)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+h.pdf.Filename(preview)+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// UpdateFuel godoc
// @Summary Edit a fuel fill from the report surface
// @Tags reports
// @Accept json
// @Produce json
// @Param year query int false "year (defaults to current)"
// @Param month query int false "month 1-12 (defaults to current)"
// @Param body body model.SaveFuelLogRequest true "fill"
// @Success 200 {object} model.ReportPreview
// @Router /reports/{rep_id}/fuel/{fuel_id} [put]
func (h *ReportHandler) UpdateFuel(c *gin.Context) {
	if _, ok := h.resolveRep(c); !ok {
		return
	}
	fuelID, err := strconv.Atoi(c.Param("fuel_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fuel log id"})
		return
	}

	var req model.SaveFuelLogRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	year, month := monthParams(c)
	preview, err := h.reports.UpdateFuelAndRebuild(c.Request.Context(), uint(fuelID), &req, year, month)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, preview)
}

// DeleteFuel godoc
// @Summary Remove a fuel fill from the report surface
// @Tags reports
// @Produce json
// @Param year query int false "year (defaults to current)"
// @Param month query int false "month 1-12 (defaults to current)"
// @Success 200 {object} model.ReportPreview
// @Router /reports/{rep_id}/fuel/{fuel_id} [delete]
func (h *ReportHandler) DeleteFuel(c *gin.Context) {
	if _, ok := h.resolveRep(c); !ok {
		return
	}
	fuelID, err := strconv.Atoi(c.Param("fuel_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid fuel log id"})
		return
	}

	year, month := monthParams(c)
	preview, err := h.reports.DeleteFuelAndRebuild(c.Request.Context(), uint(fuelID), year, month)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, preview)
}
