package app

import (
	"context"
	"log/slog"

	"github.com/jsamuelsen/quotedeck/internal/domain"
	"github.com/jsamuelsen/quotedeck/internal/platform/logging"
	"github.com/jsamuelsen/quotedeck/internal/ports"
)

const (
	defaultFavoritesPageSize = 20
	maxFavoritesPageSize     = 100
)

// FavoritesService manages the user's kept quotes.
type FavoritesService struct {
	store  ports.FavoriteStore
	logger *slog.Logger
}

// NewFavoritesService creates the favorites service.
// Panics if the store is nil.
func NewFavoritesService(store ports.FavoriteStore, logger *slog.Logger) *FavoritesService {
	if store == nil {
		panic("FavoritesService: store is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &FavoritesService{store: store, logger: logger}
}

// Save keeps a quote. Saving an already-kept quote is a no-op that returns
// the existing favorite.
func (s *FavoritesService) Save(ctx context.Context, text, author string) (*domain.Favorite, error) {
	quote := domain.NewQuote(text, author)
	if !quote.Valid() {
		return nil, &domain.ValidationError{Field: "text", Reason: "must not be empty"}
	}

	fav, err := s.store.Add(ctx, quote)
	if err != nil {
		return nil, err
	}

	logging.FromContext(ctx).DebugContext(ctx, "favorite saved",
		slog.String("author", fav.Author))

	return fav, nil
}

// Remove drops a favorite by its text. Returns a not-found error when the
// quote was never kept.
func (s *FavoritesService) Remove(ctx context.Context, text string) error {
	if text == "" {
		return &domain.ValidationError{Field: "text", Reason: "must not be empty"}
	}

	return s.store.Remove(ctx, text)
}

// List returns a page of favorites, newest first, along with the total
// count. Offset and limit are clamped to sane bounds.
func (s *FavoritesService) List(ctx context.Context, offset, limit int) ([]domain.Favorite, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = defaultFavoritesPageSize
	}
	if limit > maxFavoritesPageSize {
		limit = maxFavoritesPageSize
	}

	return s.store.List(ctx, offset, limit)
}
