package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metric instrument names.
const (
	MetricNameMessagesStored = "neron.messages.stored"
	MetricNameSearches       = "neron.searches"
	MetricNameEmbedderErrors = "neron.embedder.errors"
)

// BotMetrics records message-store and search metrics.
// Callers hold a nil BotMetrics when metrics are disabled and must guard with
// a nil check before recording.
type BotMetrics interface {
	RecordMessageStored(ctx context.Context, kind string)
	RecordSearch(ctx context.Context, resultCount int)
	RecordEmbedderError(ctx context.Context, inputType string)
}

type botMetrics struct {
	messagesStored metric.Int64Counter
	searches       metric.Int64Counter
	embedderErrors metric.Int64Counter
}

// NewBotMetrics creates BotMetrics. Returns (nil, nil) when meter is nil
// (metrics disabled).
func NewBotMetrics(meter metric.Meter) (BotMetrics, error) {
	if meter == nil {
		//nolint:nilnil // intentional: callers use "if metrics != nil" when metrics disabled
		return nil, nil
	}

	messagesStored, err := meter.Int64Counter(
		MetricNameMessagesStored,
		metric.WithDescription("Total messages stored, by kind (text, voice)"),
	)
	if err != nil {
		return nil, fmt.Errorf("create messages stored counter: %w", err)
	}

	searches, err := meter.Int64Counter(
		MetricNameSearches,
		metric.WithDescription("Total similarity searches executed"),
	)
	if err != nil {
		return nil, fmt.Errorf("create searches counter: %w", err)
	}

	embedderErrors, err := meter.Int64Counter(
		MetricNameEmbedderErrors,
		metric.WithDescription("Total embedder failures, by input type"),
	)
	if err != nil {
		return nil, fmt.Errorf("create embedder errors counter: %w", err)
	}

	return &botMetrics{
		messagesStored: messagesStored,
		searches:       searches,
		embedderErrors: embedderErrors,
	}, nil
}

func (m *botMetrics) RecordMessageStored(ctx context.Context, kind string) {
	m.messagesStored.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}

func (m *botMetrics) RecordSearch(ctx context.Context, resultCount int) {
	m.searches.Add(ctx, 1, metric.WithAttributes(attribute.Int("results", resultCount)))
}

func (m *botMetrics) RecordEmbedderError(ctx context.Context, inputType string) {
	m.embedderErrors.Add(ctx, 1, metric.WithAttributes(attribute.String("input_type", inputType)))
}
