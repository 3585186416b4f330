package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/turtacn/MolParse/internal/infrastructure/monitoring/prometheus"
)

// Metrics instruments every request with the shared HTTP counters and the
// in-flight gauge.  The route label uses gin's route template so that
// /molecules/abc and /molecules/def share a series.
func Metrics(m *prometheus.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}

		inFlight := m.InFlight.WithLabelValues("http")
		inFlight.Inc()
		start := time.Now()

		c.Next()

		inFlight.Dec()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := c.Request.Method

		m.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(c.Writer.Status())).Inc()
		m.HTTPDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}
