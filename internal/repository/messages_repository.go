package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/neronlabs/neron/internal/boterrors"
	"github.com/neronlabs/neron/internal/models"
)

// MessagesRepository handles data access for the messages table.
// Rows are append-only: Insert and similarity reads only, no updates or deletes.
type MessagesRepository struct {
	db        *pgxpool.Pool
	dimension int
}

// NewMessagesRepository creates a messages repository. dimension is the
// embedding dimension every stored and query vector must have; it matches the
// vector(N) column created by Setup.
func NewMessagesRepository(db *pgxpool.Pool, dimension int) *MessagesRepository {
	return &MessagesRepository{db: db, dimension: dimension}
}

// Setup idempotently ensures the pgvector extension, the messages table, and
// the cosine ivfflat index exist. Safe to call on every process start; a
// failure here is fatal to the caller since nothing works without storage.
func (r *MessagesRepository) Setup(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return fmt.Errorf("enable pgvector extension: %w", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS messages (
			id BIGSERIAL PRIMARY KEY,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			text TEXT NOT NULL,
			embedding vector(%d) NOT NULL
		)`, r.dimension)
	if _, err := r.db.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("create messages table: %w", err)
	}

	_, err := r.db.Exec(ctx, `
		CREATE INDEX IF NOT EXISTS messages_embedding_idx
		ON messages USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`)
	if err != nil {
		return fmt.Errorf("create embedding index: %w", err)
	}

	return nil
}

// validateDimension rejects vectors whose length does not match the configured
// embedding dimension. Runs before any SQL so a bad vector never reaches the
// backend.
func (r *MessagesRepository) validateDimension(embedding []float32) error {
	if len(embedding) != r.dimension {
		return boterrors.NewValidationError("embedding", fmt.Sprintf(
			"embedding dimension mismatch: expected %d, got %d", r.dimension, len(embedding)))
	}

	return nil
}

// Insert stores a message with its embedding and returns the new row's id.
// When timestamp is nil the database assigns NOW(). The insert is a single
// statement, so it is atomic; nothing is written when validation fails.
func (r *MessagesRepository) Insert(
	ctx context.Context, text string, embedding []float32, timestamp *time.Time,
) (int64, error) {
	if err := r.validateDimension(embedding); err != nil {
		return 0, err
	}

	vec := pgvector.NewVector(embedding)

	var id int64

	var err error
	if timestamp == nil {
		err = r.db.QueryRow(ctx,
			`INSERT INTO messages (text, embedding) VALUES ($1, $2) RETURNING id`,
			text, vec,
		).Scan(&id)
	} else {
		err = r.db.QueryRow(ctx,
			`INSERT INTO messages (timestamp, text, embedding) VALUES ($1, $2, $3) RETURNING id`,
			*timestamp, text, vec,
		).Scan(&id)
	}

	if err != nil {
		return 0, fmt.Errorf("insert message: %w", err)
	}

	return id, nil
}

// QuerySimilar returns up to limit stored messages ranked by cosine similarity
// to queryEmbedding, most similar first. similarity = 1 - (embedding <=> query).
// When threshold is non-nil, rows with similarity below it are excluded.
// The ORDER BY on the <=> operator lets the ivfflat index drive the scan.
func (r *MessagesRepository) QuerySimilar(
	ctx context.Context, queryEmbedding []float32, limit int, threshold *float64,
) ([]models.RankedResult, error) {
	if err := r.validateDimension(queryEmbedding); err != nil {
		return nil, err
	}

	queryVec := pgvector.NewVector(queryEmbedding)

	var (
		rows pgx.Rows
		err  error
	)

	if threshold == nil {
		rows, err = r.db.Query(ctx, `
			SELECT id, text, timestamp, 1 - (embedding <=> $1) AS similarity
			FROM messages
			ORDER BY embedding <=> $1
			LIMIT $2`, queryVec, limit)
	} else {
		rows, err = r.db.Query(ctx, `
			SELECT id, text, timestamp, 1 - (embedding <=> $1) AS similarity
			FROM messages
			WHERE 1 - (embedding <=> $1) >= $2
			ORDER BY embedding <=> $1
			LIMIT $3`, queryVec, *threshold, limit)
	}

	if err != nil {
		return nil, fmt.Errorf("query similar messages: %w", err)
	}

	defer rows.Close()

	var results []models.RankedResult

	for rows.Next() {
		var row models.RankedResult
		if err := rows.Scan(&row.ID, &row.Text, &row.Timestamp, &row.Similarity); err != nil {
			return nil, fmt.Errorf("scan ranked result: %w", err)
		}

		results = append(results, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating similar messages: %w", err)
	}

	return results, nil
}

// Count returns the total number of stored messages.
func (r *MessagesRepository) Count(ctx context.Context) (int64, error) {
	var count int64

	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM messages`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}

	return count, nil
}
