package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/adi-os/plugin-registry/internal/shared/id"
)

// RequestIDHeader carries the request ID on responses and, when a
// client supplies one, on requests.
const RequestIDHeader = "X-Request-ID"

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "requestID"

// RequestID assigns each request a ULID-based ID for log correlation.
// A client-provided X-Request-ID is kept as-is.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = id.NewRequestID().String()
		}
		c.Set(RequestIDKey, rid)
		c.Writer.Header().Set(RequestIDHeader, rid)
		c.Next()
	}
}

// GetRequestID returns the request ID stored on the context, if any.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
