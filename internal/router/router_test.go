package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"

	promHandler "github.com/jwalitptl/email-api/internal/handler/prometheus"
	"github.com/jwalitptl/email-api/internal/middleware"
	"github.com/jwalitptl/email-api/pkg/logger"
	"github.com/jwalitptl/email-api/pkg/metrics"
)

type routeFunc func(*gin.RouterGroup)

func (f routeFunc) RegisterRoutes(r *gin.RouterGroup) { f(r) }

func testRouter(cfg RouterConfig) *gin.Engine {
	health := routeFunc(func(r *gin.RouterGroup) {
		r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "healthy"}) })
	})
	emails := routeFunc(func(r *gin.RouterGroup) {
		r.POST("/send-welcome", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"success": true}) })
		r.POST("/panic", func(c *gin.Context) { panic("boom") })
	})

	cfg.Logger = logger.Nop()
	cfg.CORSConfig = middleware.DefaultCORSConfig()
	return NewRouter(health, emails, cfg).Setup().Engine()
}

func TestRouter_Routes(t *testing.T) {
	r := testRouter(RouterConfig{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderXRequestID))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/send-welcome", strings.NewReader(`{}`)))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Route not found"}`, w.Body.String())
}

func TestRouter_RecoversPanics(t *testing.T) {
	r := testRouter(RouterConfig{})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
}

func TestRouter_BodyLimit(t *testing.T) {
	r := testRouter(RouterConfig{MaxBodyBytes: 8})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/send-welcome", strings.NewReader(`{"email":"a@b.c"}`)))

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestRouter_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New("email_api", reg)
	r := testRouter(RouterConfig{Metrics: promHandler.New(reg, m), MetricsPath: "/internal/metrics"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/internal/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `email_api_http_requests_total{method="GET",path="/health",status="200"} 1`)
}
