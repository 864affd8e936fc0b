package openai

import (
	"context"
	"fmt"
	"time"

	"github.com/sashabaranov/go-openai"

	"folio/internal/domain"
	"folio/internal/openaicompat"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "text-embedding-3-small"

// Client is an OpenAI-compatible embeddings client implementing domain.Embedder.
type Client struct {
	client *openai.Client
	model  string
}

var _ domain.Embedder = (*Client)(nil)

// Config configures the OpenAI-compatible embeddings client.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Headers map[string]string
}

// NewClient creates a new embeddings client using the provided configuration.
func NewClient(cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w: API key is required", domain.ErrConfiguration)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		client: openaicompat.NewClient(openaicompat.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
			Headers: cfg.Headers,
		}),
		model: cfg.Model,
	}, nil
}

// Embed returns an embedding vector for the given text. It makes exactly one
// request and never retries.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	rsp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: []string{text},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, openaicompat.ProviderError("openai", err)
	}
	if len(rsp.Data) == 0 || len(rsp.Data[0].Embedding) == 0 {
		return nil, &domain.ProviderError{Provider: "openai", Message: "no embedding returned"}
	}
	src := rsp.Data[0].Embedding
	vec := make([]float64, len(src))
	for i, v := range src {
		vec[i] = float64(v)
	}
	return vec, nil
}
