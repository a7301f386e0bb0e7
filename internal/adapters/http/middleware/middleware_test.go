package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	t.Run("generates when absent", func(t *testing.T) {
		engine := gin.New()
		engine.Use(RequestID())

		var seen string
		engine.GET("/", func(c *gin.Context) {
			seen = MustGetRequestID(c)
			c.Status(http.StatusOK)
		})

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		require.NotEmpty(t, seen)
		_, err := uuid.Parse(seen)
		assert.NoError(t, err)
		assert.Equal(t, seen, w.Header().Get(HeaderRequestID))
	})

	t.Run("honors incoming header", func(t *testing.T) {
		engine := gin.New()
		engine.Use(RequestID())

		var fromCtx string
		engine.GET("/", func(c *gin.Context) {
			fromCtx = RequestIDFromContext(c.Request.Context())
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, "req-7")

		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "req-7", fromCtx)
		assert.Equal(t, "req-7", w.Header().Get(HeaderRequestID))
	})
}

func TestCorrelationID(t *testing.T) {
	engine := gin.New()
	engine.Use(CorrelationID())

	var fromCtx string
	engine.GET("/", func(c *gin.Context) {
		fromCtx = CorrelationIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderCorrelationID, "corr-9")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "corr-9", fromCtx)
	assert.Equal(t, "corr-9", w.Header().Get(HeaderCorrelationID))

	id, ok := GetCorrelationID(&gin.Context{})
	assert.False(t, ok)
	assert.Empty(t, id)
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()

	assert.Empty(t, RequestIDFromContext(ctx))
	assert.Empty(t, CorrelationIDFromContext(ctx))

	ctx = ContextWithRequestID(ctx, "r1")
	ctx = ContextWithCorrelationID(ctx, "c1")

	assert.Equal(t, "r1", RequestIDFromContext(ctx))
	assert.Equal(t, "c1", CorrelationIDFromContext(ctx))
}

func TestSimpleTimeout(t *testing.T) {
	engine := gin.New()
	engine.Use(SimpleTimeout(50 * time.Millisecond))

	engine.GET("/", func(c *gin.Context) {
		deadline, ok := c.Request.Context().Deadline()
		require.True(t, ok)
		assert.WithinDuration(t, time.Now().Add(50*time.Millisecond), deadline, 25*time.Millisecond)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
}
