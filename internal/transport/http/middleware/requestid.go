package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/ErlanBelekov/voltforge-storefront/internal/reqctx"
)

const RequestIDHeader = "X-Request-ID"

// RequestID puts a request id on the context and the response. An incoming
// X-Request-ID is kept, otherwise a new UUID v4 is generated.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = reqctx.NewID()
		}

		c.Request = c.Request.WithContext(reqctx.WithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}
