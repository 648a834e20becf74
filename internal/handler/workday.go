package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldtrack/internal/model"
	"fieldtrack/internal/service"
)

// WorkdayHandler exposes the rep's daily log lifecycle.
type WorkdayHandler struct {
	workday *service.WorkdayService
}

// NewWorkdayHandler creates a workday handler
func NewWorkdayHandler(workday *service.WorkdayService) *WorkdayHandler {
	return &WorkdayHandler{workday: workday}
}

// RegisterRoutes registers workday routes
func (h *WorkdayHandler) RegisterRoutes(r *gin.RouterGroup) {
	days := r.Group("/workday")
	{
		days.GET("/today", h.Today)
		days.POST("/start", h.StartDay)
		days.POST("/end", h.EndDay)
		days.GET("/history", h.History)
	}
}

// Today godoc
// @Summary Today's daily log, if one is open
// @Tags workday
// @Produce json
// @Success 200 {object} model.DailyLog
// @Router /workday/today [get]
func (h *WorkdayHandler) Today(c *gin.Context) {
	dayLog, err := h.workday.Today(c.Request.Context(), currentUserID(c), service.TodayDate())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if dayLog == nil {
		c.JSON(http.StatusOK, gin.H{"log": nil})
		return
	}
	c.JSON(http.StatusOK, gin.H{"log": dayLog})
}

// StartDay godoc
// @Summary Open today's log with the start odometer reading
// @Tags workday
// @Accept json
// @Produce json
// @Param body body model.StartDayRequest true "start of day"
// @Success 201 {object} model.DailyLog
// @Router /workday/start [post]
func (h *WorkdayHandler) StartDay(c *gin.Context) {
	var req model.StartDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dayLog, err := h.workday.StartDay(c.Request.Context(), currentUserID(c), service.TodayDate(), req.StartMeter, req.VehicleNumber)
	if err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, dayLog)
}

// EndDay godoc
// @Summary Close today's log with the end reading and distance split
// @Tags workday
// @Accept json
// @Produce json
// @Param body body model.EndDayRequest true "end of day"
// @Success 200 {object} model.DailyLog
// @Router /workday/end [post]
func (h *WorkdayHandler) EndDay(c *gin.Context) {
	var req model.EndDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	dayLog, err := h.workday.EndDay(c.Request.Context(), currentUserID(c), service.TodayDate(), req.EndMeter, req.PersonalKm)
	if err != nil {
		if errors.Is(err, service.ErrNoOpenDay) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, dayLog)
}

// History godoc
// @Summary List the rep's past daily logs
// @Tags workday
// @Produce json
// @Param from query string false "start date (inclusive)"
// @Param to query string false "end date (inclusive)"
// @Router /workday/history [get]
func (h *WorkdayHandler) History(c *gin.Context) {
	var query model.DailyLogListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	logs, total, err := h.workday.History(c.Request.Context(), currentUserID(c), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"list":      logs,
		"total":     total,
		"page":      query.Page,
		"page_size": query.PageSize,
	})
}
