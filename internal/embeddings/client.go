// Package embeddings provides clients for generating text embeddings.
package embeddings

import "context"

// InputType tells the provider whether the text is a stored document or a
// search query. Some models use different internal representations for the
// two, so the distinction matters even for identical text.
type InputType string

const (
	// InputTypeDocument marks text that will be stored and searched over.
	InputTypeDocument InputType = "document"
	// InputTypeQuery marks text used to search stored documents.
	InputTypeQuery InputType = "query"
)

// Client defines the interface for generating text embeddings.
// Implementations must fail observably on backend errors and never pad or
// truncate vectors to a different dimension.
type Client interface {
	// Embed generates an embedding vector for the given text.
	Embed(ctx context.Context, text string, inputType InputType) ([]float32, error)
}
