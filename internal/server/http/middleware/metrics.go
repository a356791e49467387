package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
)

// RequestObserver records request latency per route.
type RequestObserver interface {
	ObserveRequest(route, method string, code int, seconds float64)
}

// RequestMetrics reports every request to observer labelled by its route template.
func RequestMetrics(observer RequestObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		observer.ObserveRequest(route, c.Request.Method, c.Writer.Status(), time.Since(start).Seconds())
	}
}
