// internal/middleware/metrics_middleware.go
package middleware

import (
	"strconv"
	"time"

	"worklink-service/internal/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware records request latency per route and status.
func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			path,
			strconv.Itoa(c.Writer.Status()),
		).Observe(time.Since(start).Seconds())
	}
}
