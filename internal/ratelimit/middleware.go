package ratelimit

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// Middleware enforces the per-IP limit and injects the standard rate limit
// headers.
func (l *Limiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		result := l.AllowIP(c.Request.Context(), c.ClientIP())

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))

		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(result.RetryAfter.Seconds()),
			})
			return
		}
		c.Next()
	}
}
