package embedding

import (
	"context"

	"golang.org/x/sync/errgroup"

	"folio/internal/domain"
)

// EmbedBatch embeds every text with an independent, concurrent Embed call.
// The result at index i belongs to texts[i]. The first failing call fails the
// whole batch and its error is returned as is; no vector is dropped or reordered.
func EmbedBatch(ctx context.Context, e domain.Embedder, texts []string) ([][]float64, error) {
	vectors := make([][]float64, len(texts))
	g, gctx := errgroup.WithContext(ctx)
	for i, text := range texts {
		g.Go(func() error {
			vec, err := e.Embed(gctx, text)
			if err != nil {
				return err
			}
			vectors[i] = vec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return vectors, nil
}
