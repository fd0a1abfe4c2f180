package middleware

import (
	"fmt"
	"time"

	"partshub-backend/internal/shared"
	"partshub-backend/internal/shared/ratelimit"
	"partshub-backend/internal/shared/response"

	"github.com/gin-gonic/gin"
)

// RateLimit enforces the fixed-window limiter ahead of route dispatch,
// keyed by resolved identity: user:<id> when authenticated, else ip:<addr>.
// Must run after AuthMiddleware and ClientIPMiddleware.
func RateLimit(limiter *ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		identifier := "ip:" + c.GetString(shared.ContextClientIP)
		if userID := c.GetString(shared.ContextUserID); userID != "" {
			identifier = "user:" + userID
		}

		result := limiter.Check(identifier)
		if !result.Allowed {
			retryAfter := int(time.Until(result.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfter))
			response.TooManyRequests(c, "rate limit exceeded, retry later")
			c.Abort()
			return
		}

		c.Next()
	}
}
