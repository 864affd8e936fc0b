package cli

import (
	"context"
	"fmt"
	"time"

	"folio/internal/config"
	"folio/internal/content"
	"folio/internal/domain"
	embedgemini "folio/internal/embedding/gemini"
	embedopenai "folio/internal/embedding/openai"
	genanthropic "folio/internal/generation/anthropic"
	gengemini "folio/internal/generation/gemini"
	genopenai "folio/internal/generation/openai"
	"folio/internal/summarizer"
	"folio/internal/vectorstore/memory"
	"folio/internal/vectorstore/qdrant"
)

func seconds(n int) time.Duration { return time.Duration(n) * time.Second }

// newEmbedder builds the configured embedding client. A missing credential
// yields domain.ErrConfiguration before any network call.
func newEmbedder(ctx context.Context, cfg config.EmbedderConfig) (domain.Embedder, error) {
	p, err := cfg.Provider()
	if err != nil {
		return nil, err
	}
	key, err := p.RequireAPIKey()
	if err != nil {
		return nil, err
	}
	switch cfg.Type {
	case "gemini":
		return embedgemini.NewClient(ctx, embedgemini.Config{
			APIKey:   key,
			Model:    p.Model,
			Endpoint: p.BaseURL,
			Timeout:  seconds(p.TimeoutSecs),
		})
	default:
		return embedopenai.NewClient(embedopenai.Config{
			APIKey:  key,
			BaseURL: p.BaseURL,
			Model:   p.Model,
			Timeout: seconds(p.TimeoutSecs),
			Headers: p.Headers,
		})
	}
}

func newGenerator(ctx context.Context, cfg config.GeneratorConfig) (domain.Generator, error) {
	p, err := cfg.Provider()
	if err != nil {
		return nil, err
	}
	key, err := p.RequireAPIKey()
	if err != nil {
		return nil, err
	}
	switch cfg.Type {
	case "anthropic":
		return genanthropic.NewGenerator(genanthropic.Config{
			APIKey:  key,
			BaseURL: p.BaseURL,
			Model:   p.Model,
			Timeout: seconds(p.TimeoutSecs),
		})
	case "gemini":
		return gengemini.NewGenerator(ctx, gengemini.Config{
			APIKey:   key,
			Model:    p.Model,
			Endpoint: p.BaseURL,
			Timeout:  seconds(p.TimeoutSecs),
		})
	default:
		return genopenai.NewGenerator(genopenai.Config{
			APIKey:  key,
			BaseURL: p.BaseURL,
			Model:   p.Model,
			Timeout: seconds(p.TimeoutSecs),
			Headers: p.Headers,
		})
	}
}

func newVectorStore(cfg config.VectorStoreConfig) (domain.VectorStore, error) {
	switch cfg.Type {
	case "memory", "":
		return memory.NewStorage(), nil
	case "qdrant":
		if cfg.Qdrant == nil {
			return nil, fmt.Errorf("qdrant config missing")
		}
		return qdrant.NewStorage(qdrant.Config{
			URL:        cfg.Qdrant.URL,
			APIKey:     cfg.Qdrant.APIKey,
			Collection: cfg.Qdrant.Collection,
			Timeout:    seconds(cfg.Qdrant.TimeoutSecs),
		}), nil
	default:
		return nil, fmt.Errorf("unknown vector store: %s", cfg.Type)
	}
}

func newSources(cfg config.ContentConfig) []domain.Source {
	return []domain.Source{
		&content.BlogSource{Dir: cfg.BlogDir, Summarizer: summarizer.NewFrequency()},
		&content.ProjectSource{Path: cfg.ProjectsFile},
		&content.ExperienceSource{Path: cfg.ExperiencesFile},
	}
}
