package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"folio/internal/artifact"
	"folio/internal/domain"
	"folio/internal/logger"
	"folio/internal/normalizer"
)

// DefaultEmbedDelay spaces consecutive embedding calls during a build.
const DefaultEmbedDelay = 300 * time.Millisecond

// BuilderConfig wires a Builder.
type BuilderConfig struct {
	Sources      []domain.Source
	Embedder     domain.Embedder
	ArtifactPath string
	MaxLength    int
	// Delay between embedding calls. Negative disables the wait.
	Delay  time.Duration
	Logger *logger.Logger
}

// Builder embeds every content item and writes the embeddings artifact.
type Builder struct {
	sources   []domain.Source
	embedder  domain.Embedder
	path      string
	maxLength int
	limiter   *rate.Limiter
	log       *logger.Logger
}

// Report summarizes one build run.
type Report struct {
	Total     int
	Succeeded int
	// Failed holds the titles of documents left out of the artifact.
	Failed []string
}

func NewBuilder(cfg BuilderConfig) *Builder {
	if cfg.MaxLength <= 0 {
		cfg.MaxLength = normalizer.DefaultMaxLength
	}
	if cfg.Delay == 0 {
		cfg.Delay = DefaultEmbedDelay
	}
	limit := rate.Inf
	if cfg.Delay > 0 {
		limit = rate.Every(cfg.Delay)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}
	return &Builder{
		sources:   cfg.Sources,
		embedder:  cfg.Embedder,
		path:      cfg.ArtifactPath,
		maxLength: cfg.MaxLength,
		limiter:   rate.NewLimiter(limit, 1),
		log:       cfg.Logger,
	}
}

// Gather loads and normalizes the documents of every source. A source that
// fails to load aborts the gather. Documents with a duplicate id or no text
// left after normalization are skipped with a warning.
func (b *Builder) Gather(ctx context.Context) ([]domain.SourceDocument, []string, error) {
	var docs []domain.SourceDocument
	var skipped []string
	seen := make(map[string]bool)
	for _, src := range b.sources {
		loaded, err := src.Load(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("load %s content: %w", src.Name(), err)
		}
		b.log.Debug("loaded content", "source", src.Name(), "documents", len(loaded))
		for _, d := range loaded {
			if seen[d.ID] {
				b.log.Warn("skipping duplicate document id", "id", d.ID, "title", d.Metadata.Title)
				skipped = append(skipped, d.Metadata.Title)
				continue
			}
			seen[d.ID] = true
			d.Content = normalizer.Normalize(d.Content, b.maxLength)
			if d.Content == "" {
				b.log.Warn("skipping empty document", "id", d.ID, "title", d.Metadata.Title)
				skipped = append(skipped, d.Metadata.Title)
				continue
			}
			docs = append(docs, d)
		}
	}
	return docs, skipped, nil
}

// Build embeds every gathered document one at a time and writes the
// successes to the artifact. A failed embedding is logged and skipped; only
// source errors, cancellation and artifact write errors fail the run.
func (b *Builder) Build(ctx context.Context) (Report, error) {
	docs, skipped, err := b.Gather(ctx)
	if err != nil {
		return Report{}, err
	}
	report := Report{Total: len(docs) + len(skipped), Failed: skipped}
	b.log.Info("embedding documents", "documents", len(docs), "artifact", b.path)

	embedded := make([]domain.EmbeddedDocument, 0, len(docs))
	for i, d := range docs {
		if err := b.limiter.Wait(ctx); err != nil {
			return report, fmt.Errorf("build interrupted: %w", err)
		}
		vec, err := b.embedder.Embed(ctx, d.Content)
		if err != nil {
			if ctx.Err() != nil {
				return report, fmt.Errorf("build interrupted: %w", ctx.Err())
			}
			b.log.Error("failed to embed document", "id", d.ID, "title", d.Metadata.Title, "error", err)
			report.Failed = append(report.Failed, d.Metadata.Title)
			continue
		}
		embedded = append(embedded, domain.EmbeddedDocument{SourceDocument: d, Embedding: vec})
		b.log.Debug("embedded document", "n", i+1, "of", len(docs), "title", d.Metadata.Title)
	}
	report.Succeeded = len(embedded)

	if err := artifact.Write(b.path, embedded); err != nil {
		return report, err
	}
	b.log.Info("embeddings written", "path", b.path, "succeeded", report.Succeeded, "total", report.Total)
	return report, nil
}
