package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	returnsapp "github.com/returnhub/backend/internal/application/returns"
)

// GradingHandler handles QC grading and split endpoints
type GradingHandler struct {
	BaseHandler
	gradingService *returnsapp.GradingService
}

// NewGradingHandler creates a new GradingHandler
func NewGradingHandler(gradingService *returnsapp.GradingService) *GradingHandler {
	return &GradingHandler{gradingService: gradingService}
}

// Grade applies a QC decision to a single unit
func (h *GradingHandler) Grade(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid unit ID format")
		return
	}

	var req returnsapp.GradingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	unit, err := h.gradingService.GradeUnit(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, unit)
}

// Split carves a quantity out of a unit into a new child, optionally grading
// the child in the same request
func (h *GradingHandler) Split(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid unit ID format")
		return
	}

	var req returnsapp.SplitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.gradingService.Split(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, result)
}

// GradeGroup applies one QC decision to every unit of a reference group.
// Per-unit failures are reported in the result, not rolled back.
func (h *GradingHandler) GradeGroup(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		h.BadRequest(c, "Missing group key")
		return
	}

	var req returnsapp.GradingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.gradingService.GradeGroup(c.Request.Context(), key, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
