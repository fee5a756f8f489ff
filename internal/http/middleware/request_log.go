package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/workstation-backend/internal/platform/ctxutil"
	"github.com/yungbote/workstation-backend/internal/platform/logger"
)

// RequestLogger writes one line per request once the handler chain is done.
// The level follows the status class.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		fields := append([]any{
			"method", c.Request.Method,
			"route", route,
			"path", c.Request.URL.Path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}, ctxutil.LogFields(c.Request.Context())...)
		if last := c.Errors.Last(); last != nil {
			fields = append(fields, "error", last.Error())
		}

		level := log.Info
		switch {
		case status >= 500:
			level = log.Error
		case status >= 400:
			level = log.Warn
		}
		level("HTTP request", fields...)
	}
}
