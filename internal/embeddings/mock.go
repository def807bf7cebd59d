package embeddings

import (
	"context"
	"crypto/sha256"
	"fmt"
	"math"
)

// MockClient implements the Client interface for testing purposes.
// It generates deterministic embeddings based on the input text hash, so the
// same text always maps to the same unit vector.
type MockClient struct {
	dimensions int
}

// NewMockClient creates a new mock embedding client.
// Default dimensions is 1024 to match voyage-3-large.
func NewMockClient() *MockClient {
	return &MockClient{dimensions: 1024}
}

// NewMockClientWithDimensions creates a mock client with custom dimensions.
func NewMockClientWithDimensions(dimensions int) *MockClient {
	return &MockClient{dimensions: dimensions}
}

// Embed generates a deterministic embedding based on the text hash. The input
// type is folded into the hash so document and query vectors for the same
// text differ, as they may with real providers.
func (c *MockClient) Embed(_ context.Context, text string, inputType InputType) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	return c.generateDeterministicEmbedding(string(inputType) + ":" + text), nil
}

// generateDeterministicEmbedding creates a normalized embedding vector from text hash.
func (c *MockClient) generateDeterministicEmbedding(text string) []float32 {
	hash := sha256.Sum256([]byte(text))
	embedding := make([]float32, c.dimensions)

	for i := 0; i < c.dimensions; i++ {
		byteIdx := i % len(hash)
		// Convert to float in range [-1, 1]
		embedding[i] = (float32(hash[byteIdx]) / 127.5) - 1.0
	}

	return normalize(embedding)
}

// normalize normalizes a vector to unit length.
func normalize(v []float32) []float32 {
	var sum float64
	for _, val := range v {
		sum += float64(val * val)
	}

	magnitude := float32(math.Sqrt(sum))
	if magnitude == 0 {
		return v
	}

	normalized := make([]float32, len(v))
	for i, val := range v {
		normalized[i] = val / magnitude
	}

	return normalized
}

// Ensure MockClient implements Client interface
var _ Client = (*MockClient)(nil)
