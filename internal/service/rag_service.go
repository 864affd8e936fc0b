package service

import (
	"context"
	"fmt"
	"strings"

	"folio/internal/domain"
	"folio/internal/logger"
)

// Retrieval and generation parameters.
const (
	DefaultTopK        = 5
	DefaultTemperature = 0.7
	DefaultMaxTokens   = 1000
)

// QueryConfig wires a QueryService. Embedder or Generator may be nil when
// their credential is not configured; Answer then fails with
// domain.ErrConfiguration.
type QueryConfig struct {
	Embedder    domain.Embedder
	Generator   domain.Generator
	Loader      *StoreLoader
	Owner       string
	TopK        int
	Temperature float64
	MaxTokens   int
	Logger      *logger.Logger
}

// QueryService answers questions from the embedded site content.
type QueryService struct {
	embedder    domain.Embedder
	generator   domain.Generator
	loader      *StoreLoader
	owner       string
	topK        int
	temperature float64
	maxTokens   int
	log         *logger.Logger
}

func NewQueryService(cfg QueryConfig) *QueryService {
	if cfg.TopK <= 0 {
		cfg.TopK = DefaultTopK
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	return &QueryService{
		embedder:    cfg.Embedder,
		generator:   cfg.Generator,
		loader:      cfg.Loader,
		owner:       cfg.Owner,
		topK:        cfg.TopK,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		log:         cfg.Logger,
	}
}

// Answer retrieves the documents closest to question and opens a generation
// stream grounded on them. Every failure up to opening the stream is
// returned synchronously; later failures come out of TokenStream.Recv.
func (s *QueryService) Answer(ctx context.Context, question string) (domain.TokenStream, error) {
	if strings.TrimSpace(question) == "" {
		return nil, fmt.Errorf("%w: message must be a non-empty string", domain.ErrInvalidInput)
	}
	if s.generator == nil || s.embedder == nil {
		return nil, fmt.Errorf("%w: generation provider credential is not configured", domain.ErrConfiguration)
	}
	if s.loader == nil {
		return nil, fmt.Errorf("%w: no vector store configured", domain.ErrStoreUnavailable)
	}
	store, err := s.loader.Store(ctx)
	if err != nil {
		return nil, err
	}

	results, err := s.Retrieve(ctx, store, question)
	if err != nil {
		return nil, err
	}
	s.log.Debug("retrieved context", "question", question, "results", len(results))

	stream, err := s.generator.Stream(ctx, domain.GenerateRequest{
		System:      SystemPrompt(s.owner, BuildContext(results)),
		Prompt:      question,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
	})
	if err != nil {
		return nil, fmt.Errorf("open generation stream: %w", err)
	}
	return stream, nil
}

// Retrieve embeds question and returns the top matches from store.
func (s *QueryService) Retrieve(ctx context.Context, store domain.VectorStore, question string) ([]domain.SearchResult, error) {
	vec, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}
	results, err := store.Search(ctx, vec, s.topK)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return results, nil
}
