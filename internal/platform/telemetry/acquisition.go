package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// AcquisitionMetrics records the outcome of quote acquisitions: which source
// in the fallback chain produced the quote, how long the whole pipeline took,
// and how often overlapping triggers were dropped.
type AcquisitionMetrics struct {
	acquisitions metric.Int64Counter
	duration     metric.Float64Histogram
	dropped      metric.Int64Counter
	relayAttempt metric.Int64Counter
}

// NewAcquisitionMetrics creates the acquisition instrument set.
func NewAcquisitionMetrics() (*AcquisitionMetrics, error) {
	meter := otel.Meter(instrumentationName)

	acquisitions, err := meter.Int64Counter(
		"quote.acquisition.total",
		metric.WithDescription("Quote acquisitions by winning source and outcome"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"quote.acquisition.duration",
		metric.WithDescription("End-to-end quote acquisition duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	dropped, err := meter.Int64Counter(
		"quote.acquisition.dropped",
		metric.WithDescription("Acquisition triggers dropped because one was already running"),
	)
	if err != nil {
		return nil, err
	}

	relayAttempt, err := meter.Int64Counter(
		"quote.fetch.relay_attempts",
		metric.WithDescription("Individual relay fetch attempts by outcome"),
	)
	if err != nil {
		return nil, err
	}

	return &AcquisitionMetrics{
		acquisitions: acquisitions,
		duration:     duration,
		dropped:      dropped,
		relayAttempt: relayAttempt,
	}, nil
}

// RecordAcquisition records one completed acquisition. Source is the winning
// chain step ("fetch", "cache", "dataset") or "none" for total failure.
func (m *AcquisitionMetrics) RecordAcquisition(ctx context.Context, source string, elapsed time.Duration, err error) {
	if m == nil {
		return
	}

	outcome := "success"
	if err != nil {
		outcome = "failure"
	}

	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("outcome", outcome),
	)
	m.acquisitions.Add(ctx, 1, attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}

// RecordDropped records one dropped overlapping trigger.
func (m *AcquisitionMetrics) RecordDropped(ctx context.Context) {
	if m == nil {
		return
	}
	m.dropped.Add(ctx, 1)
}

// RecordRelayAttempt records one relay fetch attempt.
func (m *AcquisitionMetrics) RecordRelayAttempt(ctx context.Context, relay string, success bool) {
	if m == nil {
		return
	}

	outcome := "failure"
	if success {
		outcome = "success"
	}
	m.relayAttempt.Add(ctx, 1, metric.WithAttributes(
		attribute.String("relay", relay),
		attribute.String("outcome", outcome),
	))
}
