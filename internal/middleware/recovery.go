package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/avergnaud/patrimonia/api/internal/logger"
	"github.com/gin-gonic/gin"
)

// Recovery converts handler panics into 500 responses. The panic value and
// stack trace go to the log; the client only sees a generic message plus the
// request ID for correlation.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}

			requestID := GetRequestID(c)

			reqLog := GetLogger(c)
			if reqLog == nil {
				reqLog = log
			}
			reqLog.Error("Panic recovered", fmt.Errorf("panic: %v", r), map[string]interface{}{
				"request_id": requestID,
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
				"stack":      string(debug.Stack()),
			})

			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{
					"code":       "INTERNAL_SERVER_ERROR",
					"message":    "An unexpected error occurred",
					"request_id": requestID,
				},
			})
		}()

		c.Next()
	}
}
