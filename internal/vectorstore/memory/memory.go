package memory

import (
	"context"
	"math"
	"sort"
	"sync"

	"folio/internal/domain"
)

// DefaultTopK is used when Search is called with a non-positive topK.
const DefaultTopK = 5

// Storage is an in-memory vector store using brute-force cosine similarity.
type Storage struct {
	mu   sync.RWMutex
	docs []domain.EmbeddedDocument
}

var _ domain.VectorStore = (*Storage)(nil)

func NewStorage() *Storage { return &Storage{} }

// Load replaces the store contents with a copy of docs.
func (s *Storage) Load(_ context.Context, docs []domain.EmbeddedDocument) error {
	cp := make([]domain.EmbeddedDocument, len(docs))
	copy(cp, docs)
	s.mu.Lock()
	s.docs = cp
	s.mu.Unlock()
	return nil
}

// Size returns the number of stored documents.
func (s *Storage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs)
}

// Search returns at most topK documents ordered by descending cosine
// similarity to vector. Documents with equal scores keep load order.
func (s *Storage) Search(_ context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	docs := s.docs
	s.mu.RUnlock()

	if topK <= 0 {
		topK = DefaultTopK
	}
	results := make([]domain.SearchResult, 0, len(docs))
	for _, d := range docs {
		if len(d.Embedding) != len(vector) {
			return nil, &domain.DimensionMismatchError{DocumentID: d.ID, Want: len(vector), Got: len(d.Embedding)}
		}
		results = append(results, domain.SearchResult{Document: d.SourceDocument, Similarity: Cosine(vector, d.Embedding)})
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if topK < len(results) {
		results = results[:topK]
	}
	return results, nil
}

// Cosine returns dot(a, b) / (|a| |b|), or 0 when either vector has zero
// norm. a and b must have the same length.
func Cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(na) * math.Sqrt(nb))
	// rounding can push parallel vectors just past 1
	return math.Max(-1, math.Min(1, sim))
}
