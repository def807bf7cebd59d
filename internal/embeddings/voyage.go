package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	voyageEndpoint = "https://api.voyageai.com/v1/embeddings"

	// DefaultVoyageModel produces 1024-dimension vectors.
	DefaultVoyageModel = "voyage-3-large"
)

// VoyageClient implements the Client interface against the Voyage AI REST API.
// Voyage has no official Go SDK, so this is a thin JSON-over-HTTP wrapper.
type VoyageClient struct {
	apiKey     string
	model      string
	endpoint   string
	httpClient *http.Client
}

// Ensure VoyageClient implements Client interface
var _ Client = (*VoyageClient)(nil)

// NewVoyageClient creates a Voyage embedding client.
// Panics if apiKey is empty.
func NewVoyageClient(apiKey string) *VoyageClient {
	if apiKey == "" {
		panic("embeddings: Voyage API key cannot be empty")
	}

	return &VoyageClient{
		apiKey:     apiKey,
		model:      DefaultVoyageModel,
		endpoint:   voyageEndpoint,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewVoyageClientWithModel creates a Voyage embedding client with a custom model.
func NewVoyageClientWithModel(apiKey, model string) *VoyageClient {
	c := NewVoyageClient(apiKey)
	c.model = model

	return c
}

type voyageRequest struct {
	Input     []string `json:"input"`
	Model     string   `json:"model"`
	InputType string   `json:"input_type,omitempty"`
}

type voyageResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Detail string `json:"detail,omitempty"`
}

// Embed generates an embedding vector for the given text. The input type maps
// directly onto Voyage's document/query representations.
func (c *VoyageClient) Embed(ctx context.Context, text string, inputType InputType) ([]float32, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	body, err := json.Marshal(voyageRequest{
		Input:     []string{text},
		Model:     c.model,
		InputType: string(inputType),
	})
	if err != nil {
		return nil, fmt.Errorf("marshal voyage request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build voyage request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("voyage embeddings request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read voyage response: %w", err)
	}

	var parsed voyageResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("decode voyage response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("voyage embeddings failed with status %d: %s", resp.StatusCode, parsed.Detail)
	}

	if len(parsed.Data) == 0 {
		return nil, fmt.Errorf("no embedding returned from API")
	}

	return parsed.Data[0].Embedding, nil
}
