package middleware

import (
	"time"

	"foodorder/mylogger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Logger writes one access log line per request.
func Logger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}

		ctx := c.Request.Context()
		switch {
		case status >= 500:
			mylogger.Error(ctx, logger, "Request failed", fields...)
		case status >= 400:
			mylogger.Warn(ctx, logger, "Request rejected", fields...)
		default:
			mylogger.Info(ctx, logger, "Request handled", fields...)
		}
	}
}
