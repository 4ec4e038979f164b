package middleware

import (
	"time"

	"github.com/avergnaud/patrimonia/api/internal/logger"
	"github.com/gin-gonic/gin"
)

const loggerKey = "logger"

// Logger seeds the context with a request-scoped child logger and writes one
// structured line per request after the handler chain finishes. The line
// level follows the response status: 5xx logs as error, 4xx as warn.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		reqLog := log.WithRequestID(GetRequestID(c))
		c.Set(loggerKey, reqLog)

		c.Next()

		fields := map[string]interface{}{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status":      c.Writer.Status(),
			"duration_ms": time.Since(start).Milliseconds(),
			"ip":          c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		if q := c.Request.URL.RawQuery; q != "" {
			fields["query"] = q
		}

		status := c.Writer.Status()
		if status >= 400 && len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}

		switch {
		case status >= 500:
			reqLog.Error("Request completed with server error", nil, fields)
		case status >= 400:
			reqLog.Warn("Request completed with client error", fields)
		default:
			reqLog.Info("Request completed", fields)
		}
	}
}

// GetLogger returns the request-scoped logger set by Logger, or nil when the
// middleware has not run.
func GetLogger(c *gin.Context) *logger.Logger {
	v, ok := c.Get(loggerKey)
	if !ok {
		return nil
	}
	l, _ := v.(*logger.Logger)
	return l
}
