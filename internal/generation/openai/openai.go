package openai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/sashabaranov/go-openai"

	"folio/internal/domain"
	"folio/internal/openaicompat"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gpt-4o-mini"

// Config configures a chat completion generator against an OpenAI-compatible API.
type Config struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
	Headers map[string]string
}

// Generator streams chat completions.
type Generator struct {
	client *openai.Client
	model  string
}

var _ domain.Generator = (*Generator)(nil)

// NewGenerator creates a streaming chat completion generator.
func NewGenerator(cfg Config) (*Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: %w: API key is required", domain.ErrConfiguration)
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Generator{
		client: openaicompat.NewClient(openaicompat.Config{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Timeout: cfg.Timeout,
			Headers: cfg.Headers,
		}),
		model: cfg.Model,
	}, nil
}

// Stream starts a streaming completion with a system and a user message.
func (g *Generator) Stream(ctx context.Context, req domain.GenerateRequest) (domain.TokenStream, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	messages = append(messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser, Content: req.Prompt})

	stream, err := g.client.CreateChatCompletionStream(ctx, openai.ChatCompletionRequest{
		Model:       g.model,
		Messages:    messages,
		Temperature: float32(req.Temperature),
		MaxTokens:   req.MaxTokens,
		Stream:      true,
	})
	if err != nil {
		return nil, openaicompat.ProviderError("openai", err)
	}
	return &tokenStream{stream: stream}, nil
}

type tokenStream struct {
	stream *openai.ChatCompletionStream
}

func (s *tokenStream) Recv() (string, error) {
	for {
		rsp, err := s.stream.Recv()
		if errors.Is(err, io.EOF) {
			return "", io.EOF
		}
		if err != nil {
			return "", openaicompat.ProviderError("openai", err)
		}
		if len(rsp.Choices) == 0 || rsp.Choices[0].Delta.Content == "" {
			continue
		}
		return rsp.Choices[0].Delta.Content, nil
	}
}

func (s *tokenStream) Close() error {
	return s.stream.Close()
}
