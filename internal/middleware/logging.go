package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"todomon/internal/logging"
)

// RequestLogger is a middleware that logs HTTP requests with timing and
// status information
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		logEntry := logging.Logger.WithFields(logrus.Fields{
			"client_ip": c.ClientIP(),
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"query":     c.Request.URL.RawQuery,
		})

		c.Next()

		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		logEntry = logEntry.WithFields(logrus.Fields{
			"status":        statusCode,
			"latency_ms":    latency.Milliseconds(),
			"response_size": c.Writer.Size(),
		})

		if len(c.Errors) > 0 {
			logEntry = logEntry.WithField("errors", c.Errors.String())
		}

		switch {
		case statusCode >= 500:
			logEntry.Error("Server error")
		case statusCode >= 400:
			logEntry.Warn("Client error")
		default:
			logEntry.Info("Request completed")
		}
	}
}
