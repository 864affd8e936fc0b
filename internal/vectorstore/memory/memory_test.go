package memory

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/domain"
)

func doc(id string, vec ...float64) domain.EmbeddedDocument {
	return domain.EmbeddedDocument{
		SourceDocument: domain.SourceDocument{ID: id, Content: id, Metadata: domain.Metadata{Title: id}},
		Embedding:      vec,
	}
}

func ids(results []domain.SearchResult) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Document.ID
	}
	return out
}

func TestSearch_RanksBySimilarity(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Load(context.Background(), []domain.EmbeddedDocument{
		doc("a", 1, 0),
		doc("b", 0, 1),
		doc("c", 0.7071, 0.7071),
	}))

	results, err := s.Search(context.Background(), []float64{1, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, ids(results))
	assert.InDelta(t, 1.0, results[0].Similarity, 1e-9)
	assert.InDelta(t, 0.7071, results[1].Similarity, 1e-3)
}

func TestSearch_EmptyStore(t *testing.T) {
	results, err := NewStorage().Search(context.Background(), []float64{1, 2, 3}, 5)
	require.NoError(t, err)
	assert.NotNil(t, results)
	assert.Empty(t, results)
}

func TestSearch_DimensionMismatch(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Load(context.Background(), []domain.EmbeddedDocument{doc("a", 1, 0, 0)}))

	_, err := s.Search(context.Background(), []float64{1, 0}, 5)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrDimensionMismatch))

	var dm *domain.DimensionMismatchError
	require.True(t, errors.As(err, &dm))
	assert.Equal(t, "a", dm.DocumentID)
	assert.Equal(t, 2, dm.Want)
	assert.Equal(t, 3, dm.Got)
}

func TestSearch_TopKBoundAndOrdering(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var docs []domain.EmbeddedDocument
	for i := 0; i < 20; i++ {
		docs = append(docs, doc(string(rune('a'+i)), rng.NormFloat64(), rng.NormFloat64(), rng.NormFloat64()))
	}
	s := NewStorage()
	require.NoError(t, s.Load(context.Background(), docs))
	assert.Equal(t, 20, s.Size())

	for _, k := range []int{1, 5, 20, 50} {
		results, err := s.Search(context.Background(), []float64{0.3, -1, 2}, k)
		require.NoError(t, err)
		assert.Len(t, results, min(k, 20))
		for i := 1; i < len(results); i++ {
			assert.GreaterOrEqual(t, results[i-1].Similarity, results[i].Similarity)
		}
		for _, r := range results {
			assert.GreaterOrEqual(t, r.Similarity, -1.0)
			assert.LessOrEqual(t, r.Similarity, 1.0)
		}
	}
}

func TestSearch_DefaultTopK(t *testing.T) {
	s := NewStorage()
	var docs []domain.EmbeddedDocument
	for i := 0; i < 8; i++ {
		docs = append(docs, doc(string(rune('a'+i)), 1, float64(i)))
	}
	require.NoError(t, s.Load(context.Background(), docs))

	results, err := s.Search(context.Background(), []float64{1, 1}, 0)
	require.NoError(t, err)
	assert.Len(t, results, DefaultTopK)
}

func TestSearch_TiesKeepLoadOrder(t *testing.T) {
	s := NewStorage()
	require.NoError(t, s.Load(context.Background(), []domain.EmbeddedDocument{
		doc("first", 2, 0), doc("second", 1, 0), doc("third", 3, 0),
	}))

	results, err := s.Search(context.Background(), []float64{1, 0}, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, ids(results))
}

func TestLoad_CopiesInputAndReplaces(t *testing.T) {
	s := NewStorage()
	docs := []domain.EmbeddedDocument{doc("a", 1, 0)}
	require.NoError(t, s.Load(context.Background(), docs))
	docs[0] = doc("mutated", 0, 1)

	results, err := s.Search(context.Background(), []float64{1, 0}, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, ids(results))

	require.NoError(t, s.Load(context.Background(), nil))
	assert.Equal(t, 0, s.Size())
}

func TestCosine(t *testing.T) {
	v := []float64{0.2, -3, 7.5}
	assert.InDelta(t, 1.0, Cosine(v, v), 1e-12)
	assert.InDelta(t, -1.0, Cosine([]float64{1, 0}, []float64{-2, 0}), 1e-12)
	assert.Equal(t, 0.0, Cosine([]float64{0, 0}, []float64{1, 1}))
	assert.Equal(t, 0.0, Cosine([]float64{1, 0}, []float64{0, 1}))
}
