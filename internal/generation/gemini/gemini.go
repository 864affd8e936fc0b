package gemini

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/iterator"
	genaiopt "google.golang.org/api/option"

	"folio/internal/domain"
	embedgemini "folio/internal/embedding/gemini"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-1.5-flash"

// Config configures the Gemini generator.
type Config struct {
	APIKey   string
	Model    string
	Endpoint string
	// Timeout bounds a whole answer stream. Zero means no limit.
	Timeout time.Duration
}

// Generator streams answers from a Gemini model.
type Generator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

var _ domain.Generator = (*Generator)(nil)

// NewGenerator creates a Gemini generator.
func NewGenerator(ctx context.Context, cfg Config) (*Generator, error) {
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
	return &Generator{client: client, model: cfg.Model, timeout: cfg.Timeout}, nil
}

func (g *Generator) Stream(ctx context.Context, req domain.GenerateRequest) (domain.TokenStream, error) {
	model := g.client.GenerativeModel(g.model)
	if req.System != "" {
		model.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(req.System)}}
	}
	model.SetTemperature(float32(req.Temperature))
	if req.MaxTokens > 0 {
		model.SetMaxOutputTokens(int32(req.MaxTokens))
	}
	ctx, cancel := embedgemini.RequestContext(ctx, g.timeout)
	return &tokenStream{iter: model.GenerateContentStream(ctx, genai.Text(req.Prompt)), cancel: cancel}, nil
}

// Close releases the underlying client.
func (g *Generator) Close() error {
	return g.client.Close()
}

type tokenStream struct {
	iter    *genai.GenerateContentResponseIterator
	cancel  context.CancelFunc
	pending []string
}

func (s *tokenStream) Recv() (string, error) {
	for len(s.pending) == 0 {
		rsp, err := s.iter.Next()
		if errors.Is(err, iterator.Done) {
			return "", io.EOF
		}
		if err != nil {
			return "", embedgemini.ProviderError(err)
		}
		s.pending = textParts(rsp)
	}
	tok := s.pending[0]
	s.pending = s.pending[1:]
	return tok, nil
}

func (s *tokenStream) Close() error {
	s.cancel()
	return nil
}

func textParts(rsp *genai.GenerateContentResponse) []string {
	if rsp == nil || len(rsp.Candidates) == 0 || rsp.Candidates[0].Content == nil {
		return nil
	}
	var out []string
	for _, part := range rsp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok && text != "" {
			out = append(out, string(text))
		}
	}
	return out
}
