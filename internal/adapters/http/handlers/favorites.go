package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotedeck/internal/adapters/http/dto"
	"github.com/jsamuelsen/quotedeck/internal/app"
)

// FavoritesHandler handles favorite quote endpoints.
type FavoritesHandler struct {
	service *app.FavoritesService
}

// NewFavoritesHandler creates a new favorites handler.
func NewFavoritesHandler(service *app.FavoritesService) *FavoritesHandler {
	return &FavoritesHandler{
		service: service,
	}
}

// SaveFavorite handles POST /api/v1/favorites
// Saving the same text twice is idempotent and returns the stored favorite.
func (h *FavoritesHandler) SaveFavorite(c *gin.Context) {
	var req dto.SaveFavoriteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	fav, err := h.service.Save(c.Request.Context(), req.Text, req.Author)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewFavoriteResponse(*fav))
}

// RemoveFavorite handles DELETE /api/v1/favorites
func (h *FavoritesHandler) RemoveFavorite(c *gin.Context) {
	var req dto.RemoveFavoriteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	err := h.service.Remove(c.Request.Context(), req.Text)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// ListFavorites handles GET /api/v1/favorites
// Results are ordered newest first and paginated by offset and limit.
func (h *FavoritesHandler) ListFavorites(c *gin.Context) {
	var req dto.PaginationRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleBindingError(c, err)
		return
	}

	offset := req.GetOffset()
	limit := req.GetLimit()

	favorites, total, err := h.service.List(c.Request.Context(), offset, limit)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	items := make([]dto.FavoriteResponse, 0, len(favorites))
	for _, fav := range favorites {
		items = append(items, dto.NewFavoriteResponse(fav))
	}

	c.JSON(http.StatusOK, dto.NewPaginatedResponse(items, total, offset, limit))
}

// RegisterFavoriteRoutes registers favorite routes on the given router group.
func (h *FavoritesHandler) RegisterFavoriteRoutes(rg *gin.RouterGroup) {
	favorites := rg.Group("/favorites")
	favorites.GET("", h.ListFavorites)
	favorites.POST("", h.SaveFavorite)
	favorites.DELETE("", h.RemoveFavorite)
}
