// Package middleware provides shared gin middleware for the HTTP layer.
package middleware

import (
	"net/http"
	"time"

	"recruiting_portal_backend/platform/httpkit"
	"recruiting_portal_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// RequestLogger logs every request with method, path, status and latency.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := float64(time.Since(start).Microseconds()) / 1000.0
		log.HTTPRequest(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), latency, c.ClientIP())
	}
}

// RequestID attaches a request id header to every response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// RateLimit applies a global token-bucket limit to protect the API from
// bursty clients. The screening endpoints in particular fan out to the
// LLM backend, so unbounded request rates are not acceptable.
func RateLimit(log *logger.Logger, rps float64, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			log.RateLimitExceeded(c.ClientIP(), c.Request.URL.Path)
			httpkit.Error(c, http.StatusTooManyRequests, "Too many requests", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
