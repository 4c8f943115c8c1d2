package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"todomon/internal/logging"
)

// SecurityConfig holds security middleware configuration
type SecurityConfig struct {
	MaxRequestBodySize int64 // Maximum request body size in bytes
}

// NewSecurityConfigFromEnv creates security config from environment variables
func NewSecurityConfigFromEnv() *SecurityConfig {
	return &SecurityConfig{
		MaxRequestBodySize: int64(getEnvInt("MAX_REQUEST_BODY_SIZE", 1048576)), // 1MB
	}
}

// SecurityHeaders adds security-related HTTP headers
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}

// RequestSizeLimit limits the size of incoming request bodies
func RequestSizeLimit(maxSize int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxSize {
			logging.Logger.WithFields(map[string]interface{}{
				"client_ip":      c.ClientIP(),
				"content_length": c.Request.ContentLength,
				"max_size":       maxSize,
			}).Warn("Request body too large")

			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"code":    "REQUEST_TOO_LARGE",
				"message": "Request body too large",
			})
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxSize)
		c.Next()
	}
}
