package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourorg/storefront/internal/client"
)

// RequestIDKey is the gin context key holding the request id
const RequestIDKey = "request_id"

// RequestID assigns every request a correlation id, reusing an incoming
// X-Request-ID header when present. The id is forwarded to the catalog API.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(client.RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}

		c.Set(RequestIDKey, id)
		c.Header(client.RequestIDHeader, id)
		c.Request = c.Request.WithContext(client.WithRequestID(c.Request.Context(), id))

		c.Next()
	}
}
