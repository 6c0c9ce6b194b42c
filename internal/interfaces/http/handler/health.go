package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing dependency is reachable
type Pinger interface {
	Ping() error
}

// HealthHandler handles health and readiness probes
type HealthHandler struct {
	BaseHandler
	db Pinger
}

// NewHealthHandler creates a new HealthHandler. The db pinger may be nil when
// no database is wired, in which case readiness reports healthy.
func NewHealthHandler(db Pinger) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthResponse is the health probe payload
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp string            `json:"timestamp"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// Health is the liveness probe
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
	})
}

// Ready is the readiness probe. It checks the database connection and
// reports 503 until every dependency answers.
func (h *HealthHandler) Ready(c *gin.Context) {
	response := HealthResponse{
		Status:    "ok",
		Timestamp: time.Now().Format(time.RFC3339),
		Checks:    make(map[string]string),
	}
	status := http.StatusOK

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			response.Status = "degraded"
			response.Checks["database"] = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			response.Checks["database"] = "ok"
		}
	}

	c.JSON(status, response)
}
