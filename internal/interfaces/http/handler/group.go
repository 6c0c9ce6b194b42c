package handler

import (
	"github.com/gin-gonic/gin"

	returnsapp "github.com/returnhub/backend/internal/application/returns"
)

// GroupHandler handles the grouped view of return units
type GroupHandler struct {
	BaseHandler
	unitService *returnsapp.UnitService
}

// NewGroupHandler creates a new GroupHandler
func NewGroupHandler(unitService *returnsapp.UnitService) *GroupHandler {
	return &GroupHandler{unitService: unitService}
}

// GroupListQuery extends the unit query with the include_units switch
type GroupListQuery struct {
	UnitListQuery
	IncludeUnits bool `form:"include_units"`
}

// List returns the grouped view of units, newest representative first
func (h *GroupHandler) List(c *gin.Context) {
	var query GroupListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	groups, err := h.unitService.ListGroups(c.Request.Context(), query.toFilter(), query.IncludeUnits)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, groups)
}

// Delete removes every unit sharing the group key under supervisor
// authorization
func (h *GroupHandler) Delete(c *gin.Context) {
	key := c.Param("key")
	if key == "" {
		h.BadRequest(c, "Missing group key")
		return
	}

	var req returnsapp.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deleted, err := h.unitService.DeleteGroup(c.Request.Context(), key, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, CountData{Count: deleted})
}
