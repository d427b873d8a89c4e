// Package middleware provides the gin middleware chain for the API server.
package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	app_errors "lingo-gate/internal/errors"
	"lingo-gate/internal/response"
	"lingo-gate/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Recovery catches panics and converts them to a 500 envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logrus.Errorf("Panic recovered: %v", err)
				response.Error(c, app_errors.ErrInternalServer)
				c.Abort()
			}
		}()
		c.Next()
	}
}

// ErrorHandler converts errors attached to the context into the error
// envelope after the handler chain runs.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		if apiErr, ok := err.(*app_errors.APIError); ok {
			response.Error(c, apiErr)
			return
		}
		logrus.WithError(err).Error("Unhandled request error")
		response.Error(c, app_errors.ErrInternalServer)
	}
}

// Logger logs every request with method, path, status, and latency.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		entry := logrus.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
			"client":  c.ClientIP(),
		})
		switch {
		case c.Writer.Status() >= 500:
			entry.Error("Request failed")
		case c.Writer.Status() >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Debug("Request completed")
		}
	}
}

// CORS applies the configured cross-origin policy.
func CORS(config types.CORSConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !config.Enabled {
			c.Next()
			return
		}

		origin := c.GetHeader("Origin")
		allowed := ""
		for _, candidate := range config.AllowedOrigins {
			if candidate == "*" || candidate == origin {
				allowed = candidate
				break
			}
		}
		if allowed != "" {
			c.Header("Access-Control-Allow-Origin", allowed)
			c.Header("Access-Control-Allow-Methods", strings.Join(config.AllowedMethods, ", "))
			c.Header("Access-Control-Allow-Headers", strings.Join(config.AllowedHeaders, ", "))
			if config.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// RateLimiter bounds concurrent in-flight requests with a semaphore.
func RateLimiter(config types.PerformanceConfig) gin.HandlerFunc {
	semaphore := make(chan struct{}, config.MaxConcurrentRequests)

	return func(c *gin.Context) {
		select {
		case semaphore <- struct{}{}:
			defer func() { <-semaphore }()
			c.Next()
		default:
			response.Error(c, &app_errors.APIError{
				HTTPStatus: http.StatusTooManyRequests,
				Code:       "TOO_MANY_REQUESTS",
				Message:    "Too many concurrent requests",
			})
			c.Abort()
		}
	}
}

// Auth validates the bearer key when AUTH_KEY is configured. An empty key
// leaves the API open.
func Auth(config types.AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if config.Key == "" {
			c.Next()
			return
		}

		key := c.GetHeader("Authorization")
		key = strings.TrimPrefix(key, "Bearer ")
		if key == "" {
			key = c.Query("key")
		}

		if subtle.ConstantTimeCompare([]byte(key), []byte(config.Key)) != 1 {
			response.Error(c, app_errors.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Next()
	}
}
