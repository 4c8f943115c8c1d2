package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"todomon/internal/logging"
)

// CORSConfig holds CORS configuration
type CORSConfig struct {
	Enabled        bool
	AllowedOrigins []string // List of allowed origins, or ["*"] for all
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int // Preflight cache duration in seconds
}

// NewCORSConfigFromEnv creates CORS config from environment variables
func NewCORSConfigFromEnv() *CORSConfig {
	originsStr := getEnv("CORS_ALLOWED_ORIGINS", "*")
	var origins []string
	if originsStr == "*" {
		origins = []string{"*"}
	} else {
		origins = parseCommaSeparated(originsStr)
	}

	return &CORSConfig{
		Enabled:        getEnvBool("CORS_ENABLED", true),
		AllowedOrigins: origins,
		AllowedMethods: parseCommaSeparated(getEnv("CORS_ALLOWED_METHODS", "GET,POST,PUT,DELETE,OPTIONS")),
		AllowedHeaders: parseCommaSeparated(getEnv("CORS_ALLOWED_HEADERS", "Origin,Content-Type,Accept")),
		MaxAge:         getEnvInt("CORS_MAX_AGE", 3600),
	}
}

// CORS middleware handles Cross-Origin Resource Sharing
func CORS(config *CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !config.Enabled {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		if origin != "" && isOriginAllowed(origin, config.AllowedOrigins) {
			c.Header("Access-Control-Allow-Origin", origin)

			if c.Request.Method == http.MethodOptions {
				c.Header("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
				c.Header("Access-Control-Allow-Headers", strings.Join(config.AllowedHeaders, ", "))
				c.Header("Access-Control-Max-Age", strconv.Itoa(config.MaxAge))
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
		} else if origin != "" {
			logging.Logger.WithFields(map[string]interface{}{
				"client_ip": c.ClientIP(),
				"origin":    origin,
				"path":      c.Request.URL.Path,
			}).Warn("CORS request from disallowed origin")
		}

		c.Next()
	}
}

// isOriginAllowed checks if an origin is in the allowed list
func isOriginAllowed(origin string, allowed []string) bool {
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
		// Support wildcard subdomains like *.example.com
		if strings.HasPrefix(a, "*.") {
			if strings.HasSuffix(origin, strings.TrimPrefix(a, "*.")) {
				return true
			}
		}
	}
	return false
}
