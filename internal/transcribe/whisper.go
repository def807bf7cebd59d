// Package transcribe provides speech-to-text clients for voice notes.
package transcribe

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
)

// Transcriber converts recorded audio into text.
type Transcriber interface {
	// Transcribe returns the text spoken in the audio file at path.
	Transcribe(ctx context.Context, path string) (string, error)
}

// WhisperClient implements Transcriber using OpenAI's Whisper API.
type WhisperClient struct {
	client *openai.Client
	model  string
}

// Ensure WhisperClient implements Transcriber interface
var _ Transcriber = (*WhisperClient)(nil)

// NewWhisperClient creates a Whisper transcription client.
// Panics if apiKey is empty.
func NewWhisperClient(apiKey string) *WhisperClient {
	if apiKey == "" {
		panic("transcribe: OpenAI API key cannot be empty")
	}

	return &WhisperClient{
		client: openai.NewClient(apiKey),
		model:  openai.Whisper1,
	}
}

// Transcribe sends the audio file to Whisper and returns the transcription.
func (c *WhisperClient) Transcribe(ctx context.Context, path string) (string, error) {
	resp, err := c.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    c.model,
		FilePath: path,
	})
	if err != nil {
		return "", fmt.Errorf("whisper transcription: %w", err)
	}

	return resp.Text, nil
}
