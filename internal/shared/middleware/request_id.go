package middleware

import (
	"partshub-backend/internal/shared"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID assigns a request id, honoring one supplied by an upstream proxy.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		c.Set(shared.ContextRequestID, requestID)
		c.Header("X-Request-ID", requestID)

		c.Next()
	}
}
