package router

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/jwalitptl/email-api/internal/middleware"
	apperrors "github.com/jwalitptl/email-api/pkg/errors"
	"github.com/jwalitptl/email-api/pkg/httputil"
)

type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// MetricsHandler exposes request instrumentation and the scrape endpoint.
type MetricsHandler interface {
	Middleware() gin.HandlerFunc
	Handler() gin.HandlerFunc
}

type Router struct {
	engine *gin.Engine
	health Handler
	emailH Handler
	config RouterConfig
}

type RouterConfig struct {
	Logger       zerolog.Logger
	CORSConfig   middleware.CORSConfig
	MaxBodyBytes int64
	Metrics      MetricsHandler // nil disables /metrics
	MetricsPath  string
}

func NewRouter(health Handler, emailH Handler, config RouterConfig) *Router {
	// Set production mode
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	if config.MetricsPath == "" {
		config.MetricsPath = "/metrics"
	}

	r := &Router{
		engine: engine,
		health: health,
		emailH: emailH,
		config: config,
	}

	// Add core middlewares
	engine.Use(
		middleware.RequestID(config.Logger),
		middleware.Logger(),
		middleware.Recovery(),
	)
	if config.Metrics != nil {
		engine.Use(config.Metrics.Middleware())
	}
	engine.Use(
		middleware.CORS(config.CORSConfig),
		middleware.SecurityHeaders(middleware.DefaultSecurityConfig()),
		middleware.SizeLimit(config.MaxBodyBytes),
	)

	return r
}

// Setup registers every route on the root group.
func (r *Router) Setup() *Router {
	root := r.engine.Group("")

	r.health.RegisterRoutes(root)
	if r.config.Metrics != nil {
		root.GET(r.config.MetricsPath, r.config.Metrics.Handler())
	}
	r.emailH.RegisterRoutes(root)

	r.engine.NoRoute(func(c *gin.Context) {
		httputil.RespondWithError(c, apperrors.NotFound("Route"))
	})

	return r
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}
