package middleware

import (
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"spinlink/internal/ratelimit"
)

// RateLimit applies the class limiter keyed by client IP. Rejected requests
// get 429 with a Retry-After header. The limit gate runs before body parsing
// so malformed requests are accounted the same as well-formed ones.
func RateLimit(class string, limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()
		if !limiter.Allow(key) {
			retry := limiter.RetryAfter(key)
			secs := int(math.Ceil(retry.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
				"class": class,
			})
			return
		}
		c.Next()
	}
}
