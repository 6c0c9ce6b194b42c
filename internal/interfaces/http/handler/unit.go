package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	returnsapp "github.com/returnhub/backend/internal/application/returns"
	"github.com/returnhub/backend/internal/domain/shared"
)

// UnitHandler handles return unit registration and lifecycle endpoints
type UnitHandler struct {
	BaseHandler
	unitService *returnsapp.UnitService
}

// NewUnitHandler creates a new UnitHandler
func NewUnitHandler(unitService *returnsapp.UnitService) *UnitHandler {
	return &UnitHandler{unitService: unitService}
}

// UnitListQuery is the query shape for unit list endpoints
type UnitListQuery struct {
	Page         int        `form:"page" binding:"omitempty,min=1"`
	PageSize     int        `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy      string     `form:"order_by"`
	OrderDir     string     `form:"order_dir" binding:"omitempty,oneof=asc desc"`
	Search       string     `form:"search"`
	Status       string     `form:"status"`
	Statuses     []string   `form:"statuses"`
	Disposition  string     `form:"disposition"`
	Branch       string     `form:"branch"`
	ProductCode  string     `form:"product_code"`
	Channel      string     `form:"channel" binding:"omitempty,oneof=incident collection"`
	FieldSettled *bool      `form:"field_settled"`
	StartDate    *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate      *time.Time `form:"end_date" time_format:"2006-01-02"`
}

// toFilter converts the query into a repository filter
func (q UnitListQuery) toFilter() shared.Filter {
	filter := shared.Filter{
		Page:     q.Page,
		PageSize: q.PageSize,
		OrderBy:  q.OrderBy,
		OrderDir: q.OrderDir,
		Search:   q.Search,
		Filters:  make(map[string]interface{}),
	}
	if q.Status != "" {
		filter.Filters["status"] = q.Status
	}
	if len(q.Statuses) > 0 {
		filter.Filters["statuses"] = q.Statuses
	}
	if q.Disposition != "" {
		filter.Filters["disposition"] = q.Disposition
	}
	if q.Branch != "" {
		filter.Filters["branch"] = q.Branch
	}
	if q.ProductCode != "" {
		filter.Filters["product_code"] = q.ProductCode
	}
	if q.Channel != "" {
		filter.Filters["channel"] = q.Channel
	}
	if q.FieldSettled != nil {
		filter.Filters["field_settled"] = *q.FieldSettled
	}
	if q.StartDate != nil {
		filter.Filters["start_date"] = *q.StartDate
	}
	if q.EndDate != nil {
		filter.Filters["end_date"] = *q.EndDate
	}
	return filter
}

// Create registers a new return unit
func (h *UnitHandler) Create(c *gin.Context) {
	var req returnsapp.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	unit, err := h.unitService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, unit)
}

// Get retrieves a return unit by ID
func (h *UnitHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid unit ID format")
		return
	}

	unit, err := h.unitService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, unit)
}

// List retrieves return units with pagination and filtering
func (h *UnitHandler) List(c *gin.Context) {
	var query UnitListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.unitService.List(c.Request.Context(), query.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Update edits the descriptive fields of a unit
func (h *UnitHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid unit ID format")
		return
	}

	var req returnsapp.UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	unit, err := h.unitService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, unit)
}

// Advance moves a unit into the named lifecycle stage
func (h *UnitHandler) Advance(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid unit ID format")
		return
	}

	var req returnsapp.AdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	unit, err := h.unitService.Advance(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, unit)
}

// Reverse walks a unit back one stage under supervisor authorization
func (h *UnitHandler) Reverse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid unit ID format")
		return
	}

	var req returnsapp.ReverseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	unit, err := h.unitService.Reverse(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, unit)
}

// Settle records an on-the-spot field settlement for a unit
func (h *UnitHandler) Settle(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid unit ID format")
		return
	}

	var req returnsapp.SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	unit, err := h.unitService.SettleOnField(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, unit)
}

// Delete removes a unit under supervisor authorization
func (h *UnitHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid unit ID format")
		return
	}

	var req returnsapp.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.unitService.Delete(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// StatusSummary reports unit counts per canonical status
func (h *UnitHandler) StatusSummary(c *gin.Context) {
	summary, err := h.unitService.StatusSummary(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}
