// Package ports defines the interfaces between the application core and its
// adapters. Application code depends on these interfaces; adapters implement
// them.
package ports

import (
	"context"

	"github.com/jsamuelsen/quotedeck/internal/domain"
)

// QuoteSource is a single step in the acquisition fallback chain. TryAcquire
// returns a quote or an error; it never returns a nil quote with a nil error.
type QuoteSource interface {
	// Name identifies the source in logs and metrics ("fetch", "cache",
	// "dataset").
	Name() string

	// TryAcquire attempts to produce one quote from this source.
	TryAcquire(ctx context.Context) (*domain.Quote, error)
}

// QuoteCache is the persistent, bounded, deduplicated store of previously
// fetched quotes.
type QuoteCache interface {
	// Record stores a quote, skipping duplicates by text and evicting the
	// oldest entry when the cache is full.
	Record(ctx context.Context, quote domain.Quote) error

	// SampleOne returns a uniformly random cached quote, or
	// domain.ErrNoQuote when the cache is empty.
	SampleOne(ctx context.Context) (*domain.Quote, error)

	// Size returns the number of cached quotes.
	Size(ctx context.Context) (int, error)

	// Clear removes every cached quote.
	Clear(ctx context.Context) error
}

// Translator converts quote text into a target language. Implementations are
// best-effort: a failed translation must surface as an error so the caller can
// fall back to the original text.
type Translator interface {
	Translate(ctx context.Context, text, targetLang string) (string, error)
}

// FavoriteStore persists the user's kept quotes.
type FavoriteStore interface {
	Add(ctx context.Context, quote domain.Quote) (*domain.Favorite, error)
	Remove(ctx context.Context, text string) error
	List(ctx context.Context, offset, limit int) ([]domain.Favorite, int, error)
}
