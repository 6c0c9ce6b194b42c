package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func corsRouter(cfg CORSConfig) *gin.Engine {
	r := gin.New()
	r.Use(CORSWithConfig(cfg))
	r.GET("/units", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func doRequest(r *gin.Engine, method, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCORSAllowedOrigin(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://hub.example.co.th"}
	r := corsRouter(cfg)

	w := doRequest(r, http.MethodGet, "/units", map[string]string{"Origin": "https://hub.example.co.th"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://hub.example.co.th", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Request-ID")
}

func TestCORSDisallowedOrigin(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://hub.example.co.th"}
	r := corsRouter(cfg)

	w := doRequest(r, http.MethodGet, "/units", map[string]string{"Origin": "https://evil.example.com"})

	// Request still succeeds, the browser enforces the missing header.
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWildcardOrigin(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"*"}
	r := corsRouter(cfg)

	w := doRequest(r, http.MethodGet, "/units", map[string]string{"Origin": "https://anywhere.example.com"})

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"),
		"credentials must not be combined with a wildcard origin")
}

func TestCORSPreflight(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://hub.example.co.th"}
	cfg.MaxAge = time.Hour
	r := corsRouter(cfg)

	w := doRequest(r, http.MethodOptions, "/units", map[string]string{
		"Origin":                        "https://hub.example.co.th",
		"Access-Control-Request-Method": "POST",
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Equal(t, "3600", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORSPreflightUnknownOrigin(t *testing.T) {
	cfg := DefaultCORSConfig()
	cfg.AllowOrigins = []string{"https://hub.example.co.th"}
	r := corsRouter(cfg)

	w := doRequest(r, http.MethodOptions, "/units", map[string]string{"Origin": "https://evil.example.com"})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSDefaultDeniesEverything(t *testing.T) {
	r := corsRouter(DefaultCORSConfig())

	w := doRequest(r, http.MethodGet, "/units", map[string]string{"Origin": "https://hub.example.co.th"})

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestRequestIDGenerated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())

	var fromKey, fromHeaderKey string
	r.GET("/units", func(c *gin.Context) {
		fromKey = c.GetString("request_id")
		fromHeaderKey = c.GetString("X-Request-ID")
		c.Status(http.StatusOK)
	})

	w := doRequest(r, http.MethodGet, "/units", nil)

	echoed := w.Header().Get("X-Request-ID")
	require.NotEmpty(t, echoed)
	_, err := uuid.Parse(echoed)
	assert.NoError(t, err)
	assert.Equal(t, echoed, fromKey)
	assert.Equal(t, echoed, fromHeaderKey)
}

func TestRequestIDPropagated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/units", func(c *gin.Context) {
		assert.Equal(t, "collector-trace-17", c.GetString("request_id"))
		c.Status(http.StatusOK)
	})

	w := doRequest(r, http.MethodGet, "/units", map[string]string{"X-Request-ID": "collector-trace-17"})

	assert.Equal(t, "collector-trace-17", w.Header().Get("X-Request-ID"))
}

func TestSecureDefaultHeaders(t *testing.T) {
	r := gin.New()
	r.Use(Secure())
	r.GET("/units", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doRequest(r, http.MethodGet, "/units", nil)

	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "strict-origin-when-cross-origin", w.Header().Get("Referrer-Policy"))
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "default-src 'self'")
	assert.NotEmpty(t, w.Header().Get("Permissions-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"), "HSTS is off by default")
}

func TestSecureHSTS(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.HSTSEnabled = true
	cfg.HSTSPreload = true

	r := gin.New()
	r.Use(SecureWithConfig(cfg))
	r.GET("/units", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doRequest(r, http.MethodGet, "/units", nil)

	hsts := w.Header().Get("Strict-Transport-Security")
	assert.Contains(t, hsts, "max-age=31536000")
	assert.Contains(t, hsts, "includeSubDomains")
	assert.Contains(t, hsts, "preload")
}

func TestSecureDisabledDirectives(t *testing.T) {
	cfg := DefaultSecurityConfig()
	cfg.CSPEnabled = false
	cfg.PermissionsPolicyEnabled = false

	r := gin.New()
	r.Use(SecureWithConfig(cfg))
	r.GET("/units", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := doRequest(r, http.MethodGet, "/units", nil)

	assert.Empty(t, w.Header().Get("Content-Security-Policy"))
	assert.Empty(t, w.Header().Get("Permissions-Policy"))
}
