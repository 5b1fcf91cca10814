package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"quantwp/pkg/response"
)

// NewLimiter allows perMinute requests per minute with an equal burst.
// Zero means unlimited.
func NewLimiter(perMinute int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), perMinute)
}

// RateLimit rejects requests with 429 once limiter has no tokens left
func RateLimit(limiter *rate.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow() {
			response.WriteError(c, response.NewTooManyRequestsError("Rate limit exceeded, try again later"))
			c.Abort()
			return
		}
		c.Next()
	}
}
