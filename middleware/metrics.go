package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	metrics "github.com/alvsuut-buddy/Smart-Charity/metrics"
)

// Metrics records request counts and latency labelled by route template,
// so /api/stats/:period stays one series.
func Metrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveHTTP(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
