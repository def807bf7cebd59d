// Package models defines the core data types shared across layers.
package models

import "time"

// StoredMessage represents one persisted note: the text a user sent (or the
// transcription of their voice note) together with its embedding vector.
// Rows are append-only; none of the fields change after insert.
type StoredMessage struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Text      string    `json:"text"`
	Embedding []float32 `json:"embedding"`
}

// RankedResult is one row of a similarity query: the stored message's id,
// text and timestamp plus its cosine similarity to the query vector.
// Similarity is in [-1, 1]; higher means more relevant.
type RankedResult struct {
	ID         int64     `json:"id"`
	Text       string    `json:"text"`
	Timestamp  time.Time `json:"timestamp"`
	Similarity float64   `json:"similarity"`
}
