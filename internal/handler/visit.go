package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fieldtrack/internal/model"
	"fieldtrack/internal/service"
)

// VisitHandler exposes visit recording on the rep's open daily log.
type VisitHandler struct {
	visits *service.VisitService
}

// NewVisitHandler creates a visit handler
func NewVisitHandler(visits *service.VisitService) *VisitHandler {
	return &VisitHandler{visits: visits}
}

// RegisterRoutes registers visit routes
func (h *VisitHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/workday/:log_id/visits", h.List)
	r.POST("/workday/:log_id/visits", h.Record)
	r.PUT("/visits/:id", h.Update)
	r.GET("/visit-outcomes", h.Outcomes)
}

// List godoc
// @Summary Visits recorded against one daily log, newest first
// @Tags visits
// @Produce json
// @Router /workday/{log_id}/visits [get]
func (h *VisitHandler) List(c *gin.Context) {
	logID, err := strconv.Atoi(c.Param("log_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}

	visits, err := h.visits.ListForLog(c.Request.Context(), currentUserID(c), uint(logID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": visits})
}

// Record godoc
// @Summary Record a shop visit on the open daily log
// @Tags visits
// @Accept json
// @Produce json
// @Param body body model.RecordVisitRequest true "visit"
// @Success 201 {object} model.Visit
// @Router /workday/{log_id}/visits [post]
func (h *VisitHandler) Record(c *gin.Context) {
	logID, err := strconv.Atoi(c.Param("log_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid log id"})
		return
	}

	var req model.RecordVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visit, err := h.visits.Record(c.Request.Context(), currentUserID(c), uint(logID), &req)
	if err != nil {
		if errors.Is(err, service.ErrNoOpenDay) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, visit)
}

// Update godoc
// @Summary Amend a visit's outcome tags and note
// @Tags visits
// @Accept json
// @Produce json
// @Param body body model.UpdateVisitRequest true "changes"
// @Success 200 {object} model.Visit
// @Router /visits/{id} [put]
func (h *VisitHandler) Update(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid visit id"})
		return
	}

	var req model.UpdateVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visit, err := h.visits.Update(c.Request.Context(), currentUserID(c), uint(id), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, visit)
}

// Outcomes godoc
// @Summary Known outcome tags and their display labels
// @Tags visits
// @Produce json
// @Router /visit-outcomes [get]
func (h *VisitHandler) Outcomes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"outcomes": model.OutcomeLabels})
}
