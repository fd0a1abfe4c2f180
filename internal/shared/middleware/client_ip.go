package middleware

import (
	"context"

	"partshub-backend/internal/shared"
	"partshub-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

// ClientIPMiddleware extracts the client IP and injects it into both the
// gin context and the request context for downstream services. Register it
// early in the chain.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.ExtractClientIP(c)

		c.Set(shared.ContextClientIP, clientIP)

		ctx := context.WithValue(c.Request.Context(), shared.ContextClientIP, clientIP)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetClientIPFromContext retrieves the client IP from a request context.
func GetClientIPFromContext(ctx context.Context) string {
	if ip := ctx.Value(shared.ContextClientIP); ip != nil {
		if ipStr, ok := ip.(string); ok {
			return ipStr
		}
	}
	return ""
}
