// Package service implements the application core: message intake and
// similarity search with per-user paginated sessions.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/neronlabs/neron/internal/embeddings"
	"github.com/neronlabs/neron/internal/observability"
	"github.com/neronlabs/neron/internal/transcribe"
)

// MessagesStore is the subset of the messages repository the intake path needs.
type MessagesStore interface {
	Insert(ctx context.Context, text string, embedding []float32, timestamp *time.Time) (int64, error)
	Count(ctx context.Context) (int64, error)
}

// MessageService turns inbound notes into stored rows: embed the text in
// document mode, then insert. Embedding happens first, so an embedder failure
// leaves no partial write behind.
type MessageService struct {
	store       MessagesStore
	embedder    embeddings.Client
	transcriber transcribe.Transcriber
	metrics     observability.BotMetrics
	logger      *slog.Logger
}

// MessageServiceParams configures MessageService. Transcriber may be nil
// (voice notes rejected); Metrics and Logger may be nil.
type MessageServiceParams struct {
	Store       MessagesStore
	Embedder    embeddings.Client
	Transcriber transcribe.Transcriber
	Metrics     observability.BotMetrics
	Logger      *slog.Logger
}

// NewMessageService creates a MessageService.
func NewMessageService(p MessageServiceParams) *MessageService {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &MessageService{
		store:       p.Store,
		embedder:    p.Embedder,
		transcriber: p.Transcriber,
		metrics:     p.Metrics,
		logger:      logger,
	}
}

// LogText embeds the text in document mode and stores it. When timestamp is
// nil the store assigns the current time. Returns the new row's id.
func (s *MessageService) LogText(ctx context.Context, text string, timestamp *time.Time) (int64, error) {
	return s.logEmbedded(ctx, text, timestamp, "text")
}

func (s *MessageService) logEmbedded(ctx context.Context, text string, timestamp *time.Time, kind string) (int64, error) {
	embedding, err := s.embedder.Embed(ctx, text, embeddings.InputTypeDocument)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordEmbedderError(ctx, string(embeddings.InputTypeDocument))
		}

		s.logger.Error("log message: embed failed", "error", err)

		return 0, fmt.Errorf("embed message: %w", err)
	}

	id, err := s.store.Insert(ctx, text, embedding, timestamp)
	if err != nil {
		s.logger.Error("log message: insert failed", "error", err)

		return 0, fmt.Errorf("store message: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordMessageStored(ctx, kind)
	}

	s.logger.Info("message stored", "id", id, "kind", kind)

	return id, nil
}

// ErrTranscriptionUnavailable is returned when no transcriber is configured.
var ErrTranscriptionUnavailable = fmt.Errorf("transcription is not configured")

// LogVoice transcribes the audio file at path, then stores the transcription
// through the LogText path. Returns the new row's id and the transcribed text.
func (s *MessageService) LogVoice(ctx context.Context, path string, timestamp *time.Time) (int64, string, error) {
	if s.transcriber == nil {
		return 0, "", ErrTranscriptionUnavailable
	}

	text, err := s.transcriber.Transcribe(ctx, path)
	if err != nil {
		s.logger.Error("log voice: transcription failed", "error", err)

		return 0, "", fmt.Errorf("transcribe voice note: %w", err)
	}

	id, err := s.logEmbedded(ctx, text, timestamp, "voice")
	if err != nil {
		return 0, "", err
	}

	return id, text, nil
}

// Count returns the total number of stored messages.
func (s *MessageService) Count(ctx context.Context) (int64, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		s.logger.Error("count messages failed", "error", err)

		return 0, fmt.Errorf("count messages: %w", err)
	}

	return count, nil
}
