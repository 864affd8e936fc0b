package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/googleapi"
	genaiopt "google.golang.org/api/option"

	"folio/internal/domain"
)

// DefaultModel is the embedding model the offline builder historically used.
const DefaultModel = "text-embedding-004"

// Client embeds text with the Gemini embedding API.
type Client struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

var _ domain.Embedder = (*Client)(nil)

// Config configures the Gemini embeddings client.
type Config struct {
	APIKey string
	Model  string
	// Endpoint overrides the API host, mostly for tests and proxies.
	Endpoint string
	// Timeout bounds each request. Zero means no limit.
	Timeout time.Duration
}

// NewClient creates a Gemini embedding client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini: %w: API key is required", domain.ErrConfiguration)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	opts := []genaiopt.ClientOption{genaiopt.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		opts = append(opts, genaiopt.WithEndpoint(cfg.Endpoint))
	}
	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return &Client{client: client, model: cfg.Model, timeout: cfg.Timeout}, nil
}

// Embed returns the embedding of text. One request, no retries.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	ctx, cancel := RequestContext(ctx, c.timeout)
	defer cancel()
	rsp, err := c.client.EmbeddingModel(c.model).EmbedContent(ctx, genai.Text(text))
	if err != nil {
		return nil, ProviderError(err)
	}
	if rsp == nil || rsp.Embedding == nil || len(rsp.Embedding.Values) == 0 {
		return nil, &domain.ProviderError{Provider: "gemini", Message: "no embedding returned"}
	}
	vec := make([]float64, len(rsp.Embedding.Values))
	for i, v := range rsp.Embedding.Values {
		vec[i] = float64(v)
	}
	return vec, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.client.Close()
}

// RequestContext derives the context of one SDK call, bounded by timeout
// when it is positive.
func RequestContext(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

// ProviderError wraps a Gemini SDK failure, keeping the HTTP status when the
// SDK exposes one.
func ProviderError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return &domain.ProviderError{Provider: "gemini", StatusCode: gerr.Code, Message: gerr.Message, Err: err}
	}
	return &domain.ProviderError{Provider: "gemini", Err: err}
}
