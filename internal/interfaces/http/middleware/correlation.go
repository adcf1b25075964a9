// Package middleware holds the gin middleware chain of the portal:
// correlation id propagation, session authentication, account context,
// security headers and body limiting.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/selfservice/portal/internal/infrastructure/clients"
)

// CorrelationIDKey is the gin context key holding the request's
// correlation id
const CorrelationIDKey = "correlation_id"

// CorrelationID reuses an inbound X-Request-ID or mints a fresh id, sets
// it on the response and stores it for downstream calls. Every outbound
// backend request carries the same id.
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := c.GetHeader(clients.CorrelationHeader)
		if correlationID == "" {
			correlationID = uuid.NewString()
		}
		c.Set(CorrelationIDKey, correlationID)
		c.Writer.Header().Set(clients.CorrelationHeader, correlationID)
		c.Next()
	}
}

// GetCorrelationID returns the request's correlation id, if set
func GetCorrelationID(c *gin.Context) string {
	return c.GetString(CorrelationIDKey)
}
