package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	inventoryapp "github.com/returnhub/backend/internal/application/inventory"
	"github.com/returnhub/backend/internal/domain/inventory"
	"github.com/returnhub/backend/internal/domain/returns"
)

// LedgerHandler exposes the derived inventory ledger
type LedgerHandler struct {
	BaseHandler
	ledgerService *inventoryapp.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler
func NewLedgerHandler(ledgerService *inventoryapp.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// MovementQuery is the query shape for the ledger movement endpoint
type MovementQuery struct {
	Disposition string     `form:"disposition"`
	Direction   string     `form:"direction" binding:"omitempty,oneof=IN OUT"`
	StartDate   *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate     *time.Time `form:"end_date" time_format:"2006-01-02"`
}

func (q MovementQuery) toFilter() inventoryapp.MovementFilter {
	return inventoryapp.MovementFilter{
		Disposition: returns.Disposition(q.Disposition),
		Direction:   inventory.Direction(q.Direction),
		From:        q.StartDate,
		To:          q.EndDate,
	}
}

// Movements returns the derived ledger, newest first, optionally narrowed
// by disposition, direction and date range
func (h *LedgerHandler) Movements(c *gin.Context) {
	var query MovementQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	movements, err := h.ledgerService.Movements(c.Request.Context(), query.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movements)
}

// OnHand returns per-disposition stock totals
func (h *LedgerHandler) OnHand(c *gin.Context) {
	totals, err := h.ledgerService.OnHand(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, totals)
}

// StockSummary returns the per-product stock rows
func (h *LedgerHandler) StockSummary(c *gin.Context) {
	rows, err := h.ledgerService.StockSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rows)
}
