package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ServiceName is reported by the health check.
const ServiceName = "email-api"

// ConfigChecker reports whether the mail provider is usable.
type ConfigChecker interface {
	IsConfigured() bool
}

// Handler serves the process-level endpoints.
type Handler struct {
	checker ConfigChecker
}

// NewHandler creates a new handler instance
func NewHandler(checker ConfigChecker) *Handler {
	return &Handler{checker: checker}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/health", h.HealthCheck)
}

// HealthCheck always answers 200; ses_configured reflects the provider state
// at call time.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"service":        ServiceName,
		"ses_configured": h.checker != nil && h.checker.IsConfigured(),
	})
}
