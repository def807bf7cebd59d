package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/singleflight"

	"github.com/neronlabs/neron/internal/boterrors"
	"github.com/neronlabs/neron/internal/embeddings"
	"github.com/neronlabs/neron/internal/models"
	"github.com/neronlabs/neron/internal/observability"
)

// Sentinel errors for search (used by the transport for reply mapping).
var (
	// ErrEmptyQuery rejects blank search queries before any work happens.
	ErrEmptyQuery = errors.New("query is required and must be non-empty")

	// ErrNoSession means the user has no cached results: either they never
	// searched or a restart wiped in-memory state. An expected outcome, not a
	// fault.
	ErrNoSession = boterrors.NewNotFoundError("search session", "no active search session")

	// ErrResultNotFound means the requested index is past the cached results.
	ErrResultNotFound = boterrors.NewNotFoundError("search result", "no result at that position")
)

// SimilaritySearcher is the subset of the messages repository the search path needs.
type SimilaritySearcher interface {
	QuerySimilar(ctx context.Context, queryEmbedding []float32, limit int, threshold *float64) ([]models.RankedResult, error)
}

// SearchService bridges one-shot ranked retrieval into multi-step paginated
// conversations. One store query over-fetches enough results for several
// pages; pagination then slices the cached session without touching the store.
type SearchService struct {
	store          SimilaritySearcher
	embedder       embeddings.Client
	overfetch      int
	threshold      *float64
	sessions       *sessionRegistry
	queryCache     *lru.Cache[string, []float32]
	queryLoadGroup singleflight.Group
	metrics        observability.BotMetrics
	logger         *slog.Logger
}

// SearchServiceParams configures SearchService. QueryCache may be nil (no
// caching of query embeddings); Metrics and Logger may be nil.
type SearchServiceParams struct {
	Store      SimilaritySearcher
	Embedder   embeddings.Client
	Overfetch  int
	Threshold  *float64
	QueryCache *lru.Cache[string, []float32]
	Metrics    observability.BotMetrics
	Logger     *slog.Logger
}

// NewSearchService creates a SearchService.
func NewSearchService(p SearchServiceParams) *SearchService {
	logger := p.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &SearchService{
		store:      p.Store,
		embedder:   p.Embedder,
		overfetch:  p.Overfetch,
		threshold:  p.Threshold,
		sessions:   newSessionRegistry(),
		queryCache: p.QueryCache,
		metrics:    p.Metrics,
		logger:     logger,
	}
}

// Search embeds the query in query mode, runs one over-fetched similarity
// query against the store, and caches the ranked results as the user's
// session, replacing any previous one. An empty result set is a valid,
// non-error outcome.
func (s *SearchService) Search(ctx context.Context, userID int64, query string) ([]models.RankedResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	embedding, err := s.queryEmbedding(ctx, query)
	if err != nil {
		if s.metrics != nil {
			s.metrics.RecordEmbedderError(ctx, string(embeddings.InputTypeQuery))
		}

		s.logger.Error("search: embed query failed", "error", err)

		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := s.store.QuerySimilar(ctx, embedding, s.overfetch, s.threshold)
	if err != nil {
		s.logger.Error("search: similarity query failed", "error", err)

		return nil, fmt.Errorf("query similar messages: %w", err)
	}

	s.sessions.put(userID, &SearchSession{Query: query, Results: results})

	if s.metrics != nil {
		s.metrics.RecordSearch(ctx, len(results))
	}

	s.logger.Info("search executed", "user_id", userID, "results", len(results))

	return results, nil
}

// Batch returns batchSize cached results starting at offset, plus whether
// more remain past the slice. Pure slicing over the session; the store is not
// touched. A missing session returns ErrNoSession; an offset at or past the
// end returns an empty batch with hasMore=false.
func (s *SearchService) Batch(userID int64, offset, batchSize int) ([]models.RankedResult, bool, error) {
	session := s.sessions.get(userID)
	if session == nil {
		return nil, false, ErrNoSession
	}

	total := len(session.Results)
	hasMore := total > offset+batchSize

	if offset < 0 || offset >= total {
		return nil, false, nil
	}

	end := offset + batchSize
	if end > total {
		end = total
	}

	return session.Results[offset:end], hasMore, nil
}

// Result returns the cached result at the given absolute index, used to
// expand one truncated entry to its full text.
func (s *SearchService) Result(userID int64, index int) (models.RankedResult, error) {
	session := s.sessions.get(userID)
	if session == nil {
		return models.RankedResult{}, ErrNoSession
	}

	if index < 0 || index >= len(session.Results) {
		return models.RankedResult{}, ErrResultNotFound
	}

	return session.Results[index], nil
}

// queryEmbedding returns the embedding for a search query, using the LRU
// cache when configured. singleflight collapses concurrent embedder calls for
// the same query.
func (s *SearchService) queryEmbedding(ctx context.Context, query string) ([]float32, error) {
	if s.queryCache == nil {
		return s.embedder.Embed(ctx, query, embeddings.InputTypeQuery)
	}

	if vec, ok := s.queryCache.Get(query); ok {
		return vec, nil
	}

	val, err, _ := s.queryLoadGroup.Do(query, func() (any, error) {
		vec, loadErr := s.embedder.Embed(ctx, query, embeddings.InputTypeQuery)
		if loadErr != nil {
			return nil, loadErr
		}

		s.queryCache.Add(query, vec)

		return vec, nil
	})
	if err != nil {
		return nil, err
	}

	return val.([]float32), nil
}
