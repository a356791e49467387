package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/polkiloo/letterdesk/internal/domain/model"
)

const (
	// RequestIDHeader carries the request correlation id in both directions.
	RequestIDHeader = "X-Request-ID"
	// RequestIDContextKey stores the correlation id in gin context.
	RequestIDContextKey = "request_id"

	maxRequestIDLength = 128
)

// RequestLogger logs one record per request using slog.
// A caller supplied X-Request-ID is kept, otherwise a new one is generated and echoed back.
// 5xx responses and errors attached with c.Error are logged at error level, 4xx at warn.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}
		c.Set(RequestIDContextKey, requestID)
		c.Header(RequestIDHeader, requestID)

		start := time.Now()
		c.Next()
		status := c.Writer.Status()

		attrs := []any{
			slog.String("request_id", requestID),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", status),
			slog.Duration("latency", time.Since(start)),
		}
		if actor, ok := c.Get(ActorContextKey); ok {
			if a, ok := actor.(model.Actor); ok {
				attrs = append(attrs, slog.Int64("user_id", a.UserID), slog.String("role", string(a.Role)))
			}
		}

		switch {
		case len(c.Errors) > 0:
			logger.Error("http request", append(attrs, slog.String("error", c.Errors.String()))...)
		case status >= 500:
			logger.Error("http request", attrs...)
		case status >= 400:
			logger.Warn("http request", attrs...)
		default:
			logger.Info("http request", attrs...)
		}
	}
}
