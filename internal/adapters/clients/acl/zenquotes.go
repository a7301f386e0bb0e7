// Package acl implements the Anti-Corruption Layer pattern for external
// services. ACL adapters translate between external API payloads and domain
// models, protecting the domain from upstream format changes.
package acl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jsamuelsen/quotedeck/internal/adapters/clients"
	"github.com/jsamuelsen/quotedeck/internal/domain"
	"github.com/jsamuelsen/quotedeck/internal/platform/logging"
	"github.com/jsamuelsen/quotedeck/internal/platform/telemetry"
)

// maxFetchBody caps how much of an upstream response is read. Quote payloads
// are tiny; anything larger is a misbehaving relay.
const maxFetchBody = 1 << 20

// FetcherConfig contains configuration for the relay-chained quote fetcher.
type FetcherConfig struct {
	// Client is the HTTP client used for all relay requests.
	Client *clients.Client

	// Target is the upstream quote API URL. It is percent-encoded and
	// appended to each relay prefix.
	Target string

	// Relays are tried strictly in order until one yields a usable quote.
	Relays []string

	// AttemptTimeout bounds each individual relay attempt.
	AttemptTimeout time.Duration

	// Metrics records per-relay attempt outcomes. Optional.
	Metrics *telemetry.AcquisitionMetrics

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// Fetcher retrieves a fresh quote from the upstream API through a chain of
// forwarding relays. Implements ports.QuoteSource.
type Fetcher struct {
	client         *clients.Client
	target         string
	relays         []string
	attemptTimeout time.Duration
	metrics        *telemetry.AcquisitionMetrics
	logger         *slog.Logger
}

// NewFetcher creates the relay-chained fetcher.
// Panics if Client is nil or no relays are configured.
func NewFetcher(cfg FetcherConfig) *Fetcher {
	if cfg.Client == nil {
		panic("Fetcher: Client is required")
	}
	if len(cfg.Relays) == 0 {
		panic("Fetcher: at least one relay is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	timeout := cfg.AttemptTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Fetcher{
		client:         cfg.Client,
		target:         cfg.Target,
		relays:         cfg.Relays,
		attemptTimeout: timeout,
		metrics:        cfg.Metrics,
		logger:         logger,
	}
}

// zenQuoteResponse is the external DTO from the zenquotes.io API: an array
// of objects with "q" (text) and "a" (author). Never exposed outside the ACL.
type zenQuoteResponse struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// Name implements ports.QuoteSource.
func (f *Fetcher) Name() string { return "fetch" }

// TryAcquire fetches one quote, trying each relay in order. Every attempt
// gets its own timeout; one relay stalling or failing just hands the target
// to the next. The returned error aggregates all attempt failures when the
// chain is exhausted.
func (f *Fetcher) TryAcquire(ctx context.Context) (*domain.Quote, error) {
	logger := logging.FromContext(ctx)
	encoded := url.QueryEscape(f.target)

	var failures []error
	for i, relay := range f.relays {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		quote, err := f.fetchViaRelay(ctx, relay+encoded)
		f.metrics.RecordRelayAttempt(ctx, relay, err == nil)

		if err != nil {
			logger.Log(ctx, logging.LevelTrace, "relay attempt failed",
				slog.Int("relay_index", i),
				slog.String("relay", relay),
				slog.Any("error", err))
			failures = append(failures, fmt.Errorf("relay %d: %w", i, err))
			continue
		}

		logger.DebugContext(ctx, "fetched fresh quote",
			slog.Int("relay_index", i),
			slog.String("author", quote.Author))
		return quote, nil
	}

	return nil, fmt.Errorf("all %d relays failed: %w", len(f.relays), errors.Join(failures...))
}

// fetchViaRelay performs a single bounded fetch attempt.
func (f *Fetcher) fetchViaRelay(ctx context.Context, fullURL string) (*domain.Quote, error) {
	attemptCtx, cancel := context.WithTimeout(ctx, f.attemptTimeout)
	defer cancel()

	resp, err := f.client.GetURL(attemptCtx, fullURL)
	if err != nil {
		return nil, MapHTTPError(nil, err, "zenquotes", "fetch quote")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, MapHTTPError(resp, nil, "zenquotes", "fetch quote")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBody))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return parseQuotePayload(body)
}

// parseQuotePayload translates the raw upstream body into a domain Quote.
// The upstream signals throttling with a plain-text body rather than a 429,
// so the content itself is checked before JSON decoding.
func parseQuotePayload(body []byte) (*domain.Quote, error) {
	if strings.Contains(strings.ToLower(string(body)), "too many requests") {
		return nil, domain.ErrRateLimited
	}

	var external []zenQuoteResponse
	if err := json.Unmarshal(body, &external); err != nil {
		return nil, fmt.Errorf("decoding quote response: %w", err)
	}

	if len(external) == 0 {
		return nil, errors.New("empty quote response")
	}

	quote := domain.NewQuote(external[0].Q, external[0].A)
	if !quote.Valid() {
		return nil, errors.New("quote response carried no text")
	}

	return &quote, nil
}
