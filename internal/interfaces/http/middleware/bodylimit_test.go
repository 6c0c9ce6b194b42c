package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func bodyLimitRouter(maxBytes int64, handler gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(BodyLimit(maxBytes))
	if handler == nil {
		handler = func(c *gin.Context) { c.Status(http.StatusOK) }
	}
	r.POST("/units", handler)
	r.GET("/units", handler)
	return r
}

func TestBodyLimitAllowsSmallBody(t *testing.T) {
	r := bodyLimitRouter(1024, nil)

	req := httptest.NewRequest(http.MethodPost, "/units", strings.NewReader(`{"refNo":"RU-1"}`))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBodyLimitRejectsDeclaredOversize(t *testing.T) {
	r := bodyLimitRouter(64, nil)

	req := httptest.NewRequest(http.MethodPost, "/units", strings.NewReader(strings.Repeat("x", 200)))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Contains(t, w.Body.String(), "REQUEST_TOO_LARGE")
}

func TestBodyLimitIgnoresBodylessRequests(t *testing.T) {
	r := bodyLimitRouter(8, nil)

	req := httptest.NewRequest(http.MethodGet, "/units", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBodyLimitCapsStreamingBody(t *testing.T) {
	r := bodyLimitRouter(32, func(c *gin.Context) {
		buf := make([]byte, 256)
		if _, err := c.Request.Body.Read(buf); err != nil {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusOK)
	})

	// ContentLength -1 bypasses the declared-size check, MaxBytesReader
	// must still stop the read.
	req := httptest.NewRequest(http.MethodPost, "/units", strings.NewReader(strings.Repeat("x", 100)))
	req.ContentLength = -1
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
