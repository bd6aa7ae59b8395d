package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/thorfin/insights-backend/internal/logger"
)

// RequestLogger logs one line per completed request.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	reqLog := log.With("Middleware", "RequestLogger")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		fields := []interface{}{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString("request_id"),
		}
		if c.Writer.Status() >= 500 {
			reqLog.Error("Request failed", fields...)
			return
		}
		reqLog.Info("Request completed", fields...)
	}
}
