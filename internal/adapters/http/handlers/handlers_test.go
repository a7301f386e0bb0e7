package handlers

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/quotedeck/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeSource is a scriptable quote source.
type fakeSource struct {
	name  string
	quote *domain.Quote
	err   error
}

func (f *fakeSource) Name() string { return f.name }

func (f *fakeSource) TryAcquire(ctx context.Context) (*domain.Quote, error) {
	if f.err != nil {
		return nil, f.err
	}

	return f.quote, nil
}

// fakeCache is an in-memory stand-in for the persistent cache.
type fakeCache struct {
	mu      sync.Mutex
	quotes  []domain.Quote
	sizeErr error
}

func (f *fakeCache) Record(ctx context.Context, q domain.Quote) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.quotes = append(f.quotes, q)

	return nil
}

func (f *fakeCache) SampleOne(ctx context.Context) (*domain.Quote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.quotes) == 0 {
		return nil, domain.ErrNoQuote
	}

	q := f.quotes[0]

	return &q, nil
}

func (f *fakeCache) Size(ctx context.Context) (int, error) {
	if f.sizeErr != nil {
		return 0, f.sizeErr
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.quotes), nil
}

func (f *fakeCache) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.quotes = nil

	return nil
}

// fakeFavoriteStore is an in-memory favorite store keyed by text.
type fakeFavoriteStore struct {
	mu        sync.Mutex
	favorites []domain.Favorite
}

func (f *fakeFavoriteStore) Add(ctx context.Context, q domain.Quote) (*domain.Favorite, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, fav := range f.favorites {
		if fav.Text == q.Text {
			existing := fav
			return &existing, nil
		}
	}

	fav := domain.Favorite{Quote: q, AddedAt: time.Now().UTC()}
	f.favorites = append(f.favorites, fav)

	return &fav, nil
}

func (f *fakeFavoriteStore) Remove(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for i, fav := range f.favorites {
		if fav.Text == text {
			f.favorites = append(f.favorites[:i], f.favorites[i+1:]...)
			return nil
		}
	}

	return &domain.NotFoundError{Resource: "favorite", ID: text}
}

func (f *fakeFavoriteStore) List(ctx context.Context, offset, limit int) ([]domain.Favorite, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	total := len(f.favorites)
	if offset >= total {
		return nil, total, nil
	}

	end := offset + limit
	if end > total {
		end = total
	}

	page := make([]domain.Favorite, end-offset)
	copy(page, f.favorites[offset:end])

	return page, total, nil
}

var errSourceDown = errors.New("source down")
