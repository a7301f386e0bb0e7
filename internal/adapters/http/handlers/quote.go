package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotedeck/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotedeck/internal/app"
)

// QuoteHandler handles quote acquisition and cache endpoints.
type QuoteHandler struct {
	acquirer   *app.Acquirer
	maxEntries int
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(acquirer *app.Acquirer, maxEntries int) *QuoteHandler {
	return &QuoteHandler{
		acquirer:   acquirer,
		maxEntries: maxEntries,
	}
}

// GetQuote handles GET /api/v1/quote
// Runs the full acquisition pipeline: live fetch, then cache, then the
// embedded dataset, with translation applied to whatever was produced.
// A concurrent acquisition already in flight yields 409; total failure
// of every source yields 503.
func (h *QuoteHandler) GetQuote(c *gin.Context) {
	quote, source, err := h.acquirer.Acquire(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(quote, source))
}

// GetCacheStats handles GET /api/v1/cache
func (h *QuoteHandler) GetCacheStats(c *gin.Context) {
	size, err := h.acquirer.CacheSize(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CacheStatsResponse{
		Entries:    size,
		MaxEntries: h.maxEntries,
	})
}

// ClearCache handles DELETE /api/v1/cache
func (h *QuoteHandler) ClearCache(c *gin.Context) {
	err := h.acquirer.ClearCache(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterQuoteRoutes registers quote and cache routes on the given router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	rg.GET("/quote", h.GetQuote)

	cache := rg.Group("/cache")
	cache.GET("", h.GetCacheStats)
	cache.DELETE("", h.ClearCache)
}
