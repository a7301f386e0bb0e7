package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotedeck/internal/platform/logging"
)

const (
	// HeaderCorrelationID is the HTTP header carrying the correlation ID.
	HeaderCorrelationID = "X-Correlation-ID"

	// ContextKeyCorrelationID is the gin context key for the correlation ID.
	ContextKeyCorrelationID = "correlation_id"
)

// CorrelationID returns middleware that propagates a correlation ID across
// service boundaries. Unlike the request ID, which identifies a single
// request, the correlation ID follows a logical operation through every
// service it touches.
func CorrelationID() gin.HandlerFunc {
	return createIDMiddleware(idMiddlewareConfig{
		headerName: HeaderCorrelationID,
		contextKey: ContextKeyCorrelationID,
		contextEnricher: func(ctx context.Context, id string) context.Context {
			ctx = ContextWithCorrelationID(ctx, id)
			return logging.WithCorrelationID(ctx, id)
		},
	})
}

// GetCorrelationID retrieves the correlation ID from the gin context.
func GetCorrelationID(c *gin.Context) (string, bool) {
	id, ok := c.Get(ContextKeyCorrelationID)
	if !ok {
		return "", false
	}
	s, ok := id.(string)
	return s, ok
}
