package ports

import (
	"context"
	"errors"

	"github.com/jsamuelsen/quotedeck/internal/domain"
)

// SourceChain tries a fixed sequence of quote sources in order and stops at
// the first success. Source order is decided at construction and never
// reshuffled.
type SourceChain struct {
	sources []QuoteSource
}

// NewSourceChain builds a chain over the given sources. The chain consults
// them strictly in the order given.
func NewSourceChain(sources ...QuoteSource) *SourceChain {
	return &SourceChain{sources: sources}
}

// Acquire walks the chain and returns the first quote produced, along with
// the name of the source that produced it. When every source fails it returns
// domain.ErrNoQuote joined with the individual failures.
func (c *SourceChain) Acquire(ctx context.Context) (*domain.Quote, string, error) {
	var failures []error
	for _, src := range c.sources {
		if err := ctx.Err(); err != nil {
			return nil, "", err
		}

		quote, err := src.TryAcquire(ctx)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		return quote, src.Name(), nil
	}
	return nil, "", errors.Join(domain.ErrNoQuote, errors.Join(failures...))
}

// Name implements QuoteSource so chains can nest.
func (c *SourceChain) Name() string { return "chain" }

// TryAcquire implements QuoteSource, discarding the winning source name.
func (c *SourceChain) TryAcquire(ctx context.Context) (*domain.Quote, error) {
	quote, _, err := c.Acquire(ctx)
	return quote, err
}
