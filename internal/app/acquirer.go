// Package app contains the application services that orchestrate domain
// logic across ports. Services depend only on interfaces from ports.
package app

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/jsamuelsen/quotedeck/internal/domain"
	"github.com/jsamuelsen/quotedeck/internal/platform/logging"
	"github.com/jsamuelsen/quotedeck/internal/platform/telemetry"
	"github.com/jsamuelsen/quotedeck/internal/ports"
)

// cacheSource adapts a QuoteCache to the QuoteSource interface so the cache
// can sit in the fallback chain.
type cacheSource struct {
	cache ports.QuoteCache
}

func (s cacheSource) Name() string { return "cache" }

func (s cacheSource) TryAcquire(ctx context.Context) (*domain.Quote, error) {
	return s.cache.SampleOne(ctx)
}

// AcquirerConfig contains the dependencies for the acquisition service.
type AcquirerConfig struct {
	// Fetcher produces fresh quotes from upstream. Required.
	Fetcher ports.QuoteSource

	// Cache is the persistent quote cache. Required.
	Cache ports.QuoteCache

	// Dataset is the static last-resort source. Required.
	Dataset ports.QuoteSource

	// Translator is optional; nil disables translation.
	Translator ports.Translator

	// TargetLang is the translation target. Ignored when Translator is nil.
	TargetLang string

	// Metrics records acquisition outcomes. Optional.
	Metrics *telemetry.AcquisitionMetrics

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// Acquirer runs the quote acquisition pipeline: try a fresh fetch, fall back
// to the cache, then to the static dataset, and translate whatever came out.
// At most one acquisition runs at a time; overlapping triggers are dropped.
type Acquirer struct {
	fetcher    ports.QuoteSource
	cache      ports.QuoteCache
	fallback   *ports.SourceChain
	translator ports.Translator
	targetLang string
	metrics    *telemetry.AcquisitionMetrics
	logger     *slog.Logger

	inFlight atomic.Bool
}

// NewAcquirer creates the acquisition service.
// Panics on missing required dependencies, mirroring construction-time wiring
// bugs rather than hiding them until the first request.
func NewAcquirer(cfg AcquirerConfig) *Acquirer {
	if cfg.Fetcher == nil {
		panic("Acquirer: Fetcher is required")
	}
	if cfg.Cache == nil {
		panic("Acquirer: Cache is required")
	}
	if cfg.Dataset == nil {
		panic("Acquirer: Dataset is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Acquirer{
		fetcher:    cfg.Fetcher,
		cache:      cfg.Cache,
		fallback:   ports.NewSourceChain(cacheSource{cache: cfg.Cache}, cfg.Dataset),
		translator: cfg.Translator,
		targetLang: cfg.TargetLang,
		metrics:    cfg.Metrics,
		logger:     logger,
	}
}

// Acquire runs one acquisition and returns the quote plus the name of the
// source that produced it ("fetch", "cache", or "dataset").
//
// A trigger arriving while another acquisition is running is dropped, not
// queued: the caller gets domain.ErrAcquisitionInFlight immediately. Only a
// successful fresh fetch is recorded to the cache; fallback reads never
// rewrite what is already stored. Translation happens last and is
// best-effort: a failed translation leaves the text untouched.
func (a *Acquirer) Acquire(ctx context.Context) (*domain.Quote, string, error) {
	if !a.inFlight.CompareAndSwap(false, true) {
		a.metrics.RecordDropped(ctx)
		logging.FromContext(ctx).DebugContext(ctx, "acquisition trigger dropped, one already running")
		return nil, "", domain.ErrAcquisitionInFlight
	}
	defer a.inFlight.Store(false)

	start := time.Now()
	logger := logging.FromContext(ctx)

	quote, source, err := a.acquireFromSources(ctx, logger)
	if err != nil {
		a.metrics.RecordAcquisition(ctx, "none", time.Since(start), err)
		logger.WarnContext(ctx, "acquisition failed on every source", slog.Any("error", err))
		return nil, "", err
	}

	quote = a.translate(ctx, quote, logger)

	a.metrics.RecordAcquisition(ctx, source, time.Since(start), nil)
	logger.InfoContext(ctx, "quote acquired",
		slog.String("source", source),
		slog.String("author", quote.Author),
		slog.Duration("elapsed", time.Since(start)))

	return quote, source, nil
}

// acquireFromSources tries the fresh fetch first, then walks the fallback
// chain. The fetch stays outside the chain because only its results are
// recorded to the cache.
func (a *Acquirer) acquireFromSources(ctx context.Context, logger *slog.Logger) (*domain.Quote, string, error) {
	quote, err := a.fetcher.TryAcquire(ctx)
	if err == nil {
		if recordErr := a.cache.Record(ctx, *quote); recordErr != nil {
			// Persistence trouble must not cost the user the quote.
			logger.WarnContext(ctx, "failed to record fresh quote",
				slog.Any("error", recordErr))
		}
		return quote, a.fetcher.Name(), nil
	}

	logger.DebugContext(ctx, "fresh fetch failed, falling back",
		slog.Any("error", err))

	return a.fallback.Acquire(ctx)
}

// translate applies best-effort translation. The original quote is returned
// whenever translation is disabled or fails.
func (a *Acquirer) translate(ctx context.Context, quote *domain.Quote, logger *slog.Logger) *domain.Quote {
	if a.translator == nil {
		return quote
	}

	translated, err := a.translator.Translate(ctx, quote.Text, a.targetLang)
	if err != nil {
		logger.WarnContext(ctx, "translation failed, keeping original text",
			slog.Any("error", err))
		return quote
	}

	result := *quote
	result.Text = translated
	return &result
}

// CacheSize reports the number of cached quotes.
func (a *Acquirer) CacheSize(ctx context.Context) (int, error) {
	return a.cache.Size(ctx)
}

// ClearCache removes every cached quote.
func (a *Acquirer) ClearCache(ctx context.Context) error {
	logging.FromContext(ctx).InfoContext(ctx, "clearing quote cache")
	return a.cache.Clear(ctx)
}
