// Package dataset provides the last-resort quote source: a static collection
// compiled into the binary. It needs no network and no disk, so it is the one
// source that can only fail by being empty.
package dataset

import (
	"context"
	"embed"
	"encoding/json"
	"log/slog"
	"math/rand/v2"

	"github.com/jsamuelsen/quotedeck/internal/domain"
	"github.com/jsamuelsen/quotedeck/internal/ports"
)

//go:embed quotes.json
var embedded embed.FS

// datasetEntry mirrors the upstream wire shape so the same file can be
// refreshed from a real API dump.
type datasetEntry struct {
	Q string `json:"q"`
	A string `json:"a"`
}

// Dataset is an in-memory quote source. Implements ports.QuoteSource.
type Dataset struct {
	quotes []domain.Quote
	logger *slog.Logger
}

// New loads the embedded dataset. A corrupt or missing file degrades to an
// empty dataset rather than failing startup; the chain then reports the
// emptiness per acquisition.
func New(logger *slog.Logger) *Dataset {
	if logger == nil {
		logger = slog.Default()
	}

	d := &Dataset{logger: logger}

	raw, err := embedded.ReadFile("quotes.json")
	if err != nil {
		logger.Error("embedded dataset unreadable", slog.Any("error", err))
		return d
	}

	var entries []datasetEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		logger.Error("embedded dataset corrupt", slog.Any("error", err))
		return d
	}

	d.quotes = make([]domain.Quote, 0, len(entries))
	for _, entry := range entries {
		quote := domain.NewQuote(entry.Q, entry.A)
		if quote.Valid() {
			d.quotes = append(d.quotes, quote)
		}
	}

	logger.Debug("dataset loaded", slog.Int("quotes", len(d.quotes)))

	return d
}

// Name implements ports.QuoteSource.
func (d *Dataset) Name() string { return "dataset" }

// TryAcquire implements ports.QuoteSource with a uniformly random pick.
func (d *Dataset) TryAcquire(_ context.Context) (*domain.Quote, error) {
	if len(d.quotes) == 0 {
		return nil, domain.ErrNoQuote
	}

	quote := d.quotes[rand.IntN(len(d.quotes))] //nolint:gosec // Sampling, not security
	return &quote, nil
}

// Len returns the number of usable quotes.
func (d *Dataset) Len() int { return len(d.quotes) }

// CheckHealth implements ports.HealthChecker. An empty dataset is reported
// unhealthy so operators notice a bad build.
func (d *Dataset) CheckHealth(_ context.Context) ports.HealthStatus {
	status := ports.HealthStatus{Name: "dataset", Healthy: len(d.quotes) > 0}
	if !status.Healthy {
		status.Detail = "no quotes loaded"
	}

	return status
}
