package handler

import (
	"github.com/gin-gonic/gin"

	returnsapp "github.com/returnhub/backend/internal/application/returns"
)

// BatchHandler handles document batch endpoints
type BatchHandler struct {
	BaseHandler
	batchService *returnsapp.BatchService
}

// NewBatchHandler creates a new BatchHandler
func NewBatchHandler(batchService *returnsapp.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// Preview computes batch lines and totals without documenting anything
func (h *BatchHandler) Preview(c *gin.Context) {
	var req returnsapp.DocumentBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	preview, err := h.batchService.Preview(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, preview)
}

// Commit documents every eligible unit under one shared timestamp. Units
// that fail are reported per line and the rest stay documented.
func (h *BatchHandler) Commit(c *gin.Context) {
	var req returnsapp.DocumentBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.batchService.Commit(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
