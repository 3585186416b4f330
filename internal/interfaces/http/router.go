// Package http wires the gin route tree and the HTTP server lifecycle.
package http

import (
	"github.com/gin-gonic/gin"

	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/MolParse/internal/interfaces/http/handlers"
	"github.com/turtacn/MolParse/internal/interfaces/http/middleware"
)

// RouterConfig aggregates all handler and middleware dependencies required
// to construct the complete HTTP route tree.
type RouterConfig struct {
	Molecules *handlers.MoleculeHandler
	Health    *handlers.HealthHandler

	Logger  logging.Logger
	Metrics *prometheus.AppMetrics

	// Collector exposes the /metrics scrape endpoint. Nil disables it.
	Collector prometheus.MetricsCollector

	// Mode is passed to gin.SetMode: debug, release, or test.
	Mode string

	Logging middleware.LoggingConfig
	CORS    *middleware.CORSConfig
}

// NewRouter builds the gin engine with the full middleware chain and routes.
func NewRouter(cfg RouterConfig) *gin.Engine {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Logger != nil {
		lc := cfg.Logging
		lc.SkipPaths = append(lc.SkipPaths, "/healthz", "/readyz", "/metrics")
		r.Use(middleware.RequestLogging(cfg.Logger, lc))
	}
	r.Use(middleware.Metrics(cfg.Metrics))

	corsCfg := middleware.DefaultCORSConfig()
	if cfg.CORS != nil {
		corsCfg = *cfg.CORS
	}
	r.Use(middleware.CORS(corsCfg))

	if cfg.Health != nil {
		r.GET("/healthz", cfg.Health.Liveness)
		r.GET("/readyz", cfg.Health.Readiness)
	}
	if cfg.Collector != nil {
		r.GET("/metrics", gin.WrapH(cfg.Collector.Handler()))
	}

	v1 := r.Group("/api/v1")
	if cfg.Molecules != nil {
		molecules := v1.Group("/molecules")
		molecules.POST("/parse", cfg.Molecules.Parse)
		molecules.GET("", cfg.Molecules.List)
		molecules.GET("/:id", cfg.Molecules.Get)
		molecules.DELETE("/:id", cfg.Molecules.Delete)
	}

	return r
}
