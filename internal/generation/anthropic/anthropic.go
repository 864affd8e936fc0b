package anthropic

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicopt "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/anthropics/anthropic-sdk-go/packages/ssestream"

	"folio/internal/domain"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "claude-3-5-haiku-latest"

// Config configures the Anthropic Messages API generator.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

// Generator streams answers from the Anthropic Messages API.
type Generator struct {
	client *anthropic.Client
	model  string
}

var _ domain.Generator = (*Generator)(nil)

// NewGenerator creates an Anthropic generator. The SDK's own retries are
// disabled so a failing call surfaces once.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("anthropic: %w: API key is required", domain.ErrConfiguration)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	opts := []anthropicopt.RequestOption{
		anthropicopt.WithAPIKey(cfg.APIKey),
		anthropicopt.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, anthropicopt.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Timeout > 0 {
		opts = append(opts, anthropicopt.WithRequestTimeout(cfg.Timeout))
	}
	client := anthropic.NewClient(opts...)
	return &Generator{client: &client, model: cfg.Model}, nil
}

// Stream starts a streaming message. Upstream errors surface from the first Recv.
func (g *Generator) Stream(ctx context.Context, req domain.GenerateRequest) (domain.TokenStream, error) {
	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
		Temperature: anthropic.Float(req.Temperature),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	return &tokenStream{stream: g.client.Messages.NewStreaming(ctx, params)}, nil
}

type tokenStream struct {
	stream *ssestream.Stream[anthropic.MessageStreamEventUnion]
}

func (s *tokenStream) Recv() (string, error) {
	for s.stream.Next() {
		event := s.stream.Current()
		delta, ok := event.AsAny().(anthropic.ContentBlockDeltaEvent)
		if !ok {
			continue
		}
		if text, ok := delta.Delta.AsAny().(anthropic.TextDelta); ok && text.Text != "" {
			return text.Text, nil
		}
	}
	if err := s.stream.Err(); err != nil {
		return "", providerError(err)
	}
	return "", io.EOF
}

func (s *tokenStream) Close() error {
	return s.stream.Close()
}

func providerError(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &domain.ProviderError{Provider: "anthropic", StatusCode: apiErr.StatusCode, Message: apiErr.Error(), Err: err}
	}
	return &domain.ProviderError{Provider: "anthropic", Err: err}
}
