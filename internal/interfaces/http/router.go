package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/molrad/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/molrad/internal/interfaces/http/handlers"
	"github.com/turtacn/molrad/internal/interfaces/http/middleware"
)

// RouterConfig aggregates the handlers and middleware dependencies of the
// route tree.  Nil entries are skipped.
type RouterConfig struct {
	// Handlers
	FilterHandler *handlers.FilterHandler
	HealthHandler *handlers.HealthHandler

	// Middleware
	Logger      logging.Logger
	Logging     middleware.LoggingConfig
	Recorder    middleware.RequestRecorder
	RateLimiter middleware.RateLimiter

	// Metrics exposition
	MetricsHandler http.Handler
	MetricsPath    string
}

// NewRouter builds the gin engine:
//
//	GET  /healthz, /readyz
//	GET  <metrics path>
//	GET  /v1/filters, /v1/filters/levels/:level
//	POST /v1/filters/evaluate, /v1/filters/evaluate/batch   (rate limited)
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())
	if cfg.Logger != nil {
		r.Use(middleware.RequestLogging(cfg.Logger, cfg.Logging))
	}
	if cfg.Recorder != nil {
		r.Use(middleware.Metrics(cfg.Recorder))
	}

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}
	if cfg.MetricsHandler != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		r.GET(path, gin.WrapH(cfg.MetricsHandler))
	}

	v1 := r.Group("/v1")
	if cfg.RateLimiter != nil {
		v1.Use(func(c *gin.Context) {
			if c.Request.Method == http.MethodPost {
				middleware.RateLimit(cfg.RateLimiter)(c)
			}
		})
	}
	if cfg.FilterHandler != nil {
		cfg.FilterHandler.RegisterRoutes(v1)
	}
	return r
}

//Personal.AI order the ending
