// Package middleware provides the gin middleware chain of the MolParse API:
// request logging, Prometheus instrumentation, and CORS.
package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/logging"
)

// LoggingConfig tunes the request logging middleware.
type LoggingConfig struct {
	// SkipPaths lists paths excluded from logging, e.g. probes and /metrics.
	SkipPaths []string

	// SlowThreshold promotes requests above this duration to Warn level.
	SlowThreshold time.Duration
}

// RequestLogging logs one line per request: method, path, status, duration,
// and size.  5xx log at Error, 4xx and slow requests at Warn.
func RequestLogging(logger logging.Logger, cfg LoggingConfig) gin.HandlerFunc {
	if cfg.SlowThreshold == 0 {
		cfg.SlowThreshold = time.Second
	}
	skip := make(map[string]bool, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = true
	}

	return func(c *gin.Context) {
		if skip[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		duration := time.Since(start)

		status := c.Writer.Status()
		fields := []logging.Field{
			logging.String("method", c.Request.Method),
			logging.String("path", c.Request.URL.Path),
			logging.Int("status", status),
			logging.Duration("duration", duration),
			logging.Int("bytes", c.Writer.Size()),
			logging.String("client_ip", c.ClientIP()),
		}
		if len(c.Errors) > 0 {
			fields = append(fields, logging.String("errors", c.Errors.String()))
		}

		switch {
		case status >= 500:
			logger.Error("request failed", fields...)
		case status >= 400:
			logger.Warn("request rejected", fields...)
		case duration > cfg.SlowThreshold:
			logger.Warn("slow request", fields...)
		default:
			logger.Info("request served", fields...)
		}
	}
}
