package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotedeck/internal/platform/logging"
)

const (
	// HeaderRequestID is the HTTP header carrying the request ID.
	HeaderRequestID = "X-Request-ID"

	// ContextKeyRequestID is the gin context key for the request ID.
	ContextKeyRequestID = "request_id"
)

// RequestID returns middleware that ensures every request has a request ID.
// Incoming X-Request-ID headers are honored; otherwise a UUID is generated.
// The ID is echoed in the response header and attached to both the request
// context and the context logger.
func RequestID() gin.HandlerFunc {
	return createIDMiddleware(idMiddlewareConfig{
		headerName: HeaderRequestID,
		contextKey: ContextKeyRequestID,
		contextEnricher: func(ctx context.Context, id string) context.Context {
			ctx = ContextWithRequestID(ctx, id)
			return logging.WithRequestID(ctx, id)
		},
	})
}

// GetRequestID retrieves the request ID from the gin context.
func GetRequestID(c *gin.Context) (string, bool) {
	id, ok := c.Get(ContextKeyRequestID)
	if !ok {
		return "", false
	}
	s, ok := id.(string)
	return s, ok
}

// MustGetRequestID retrieves the request ID or returns an empty string.
func MustGetRequestID(c *gin.Context) string {
	id, _ := GetRequestID(c)
	return id
}
