package qdrant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"folio/internal/domain"
)

// DefaultTopK is used when Search is called with a non-positive topK.
const DefaultTopK = 5

// Storage is a minimal REST client to Qdrant.
// Load recreates the collection with cosine distance on every call.
type Storage struct {
	url        string
	apiKey     string
	collection string
	client     *http.Client

	mu        sync.RWMutex
	dimension int
	firstID   string
	count     int
}

var _ domain.VectorStore = (*Storage)(nil)

type Config struct {
	URL        string
	APIKey     string
	Collection string
	Timeout    time.Duration
}

func NewStorage(cfg Config) *Storage {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &Storage{
		url:        strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}
}

// PointID maps a document id to the UUID used as Qdrant point id.
func PointID(documentID string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(documentID)).String()
}

// Load checks that docs share one embedding dimension, then drops the
// collection, recreates it for that dimension and upserts every document
// with its source fields as payload. Docs with mixed dimensions are rejected
// before any request is sent.
func (s *Storage) Load(ctx context.Context, docs []domain.EmbeddedDocument) error {
	dimension, firstID := 0, ""
	if len(docs) > 0 {
		dimension, firstID = len(docs[0].Embedding), docs[0].ID
		for _, d := range docs[1:] {
			if len(d.Embedding) != dimension {
				return &domain.DimensionMismatchError{DocumentID: d.ID, Want: dimension, Got: len(d.Embedding)}
			}
		}
	}

	if err := s.do(ctx, http.MethodDelete, s.collectionURL(""), nil, nil, http.StatusNotFound); err != nil {
		return err
	}
	// the old collection is gone, whatever happens next
	s.mu.Lock()
	s.dimension, s.firstID, s.count = 0, "", 0
	s.mu.Unlock()

	if len(docs) > 0 {
		body := map[string]any{
			"vectors": map[string]any{
				"size":     dimension,
				"distance": "Cosine",
			},
		}
		if err := s.do(ctx, http.MethodPut, s.collectionURL(""), body, nil); err != nil {
			return err
		}
		points := make([]map[string]any, len(docs))
		for i, d := range docs {
			points[i] = map[string]any{
				"id":      PointID(d.ID),
				"vector":  d.Embedding,
				"payload": d.SourceDocument,
			}
		}
		if err := s.do(ctx, http.MethodPut, s.collectionURL("/points?wait=true"), map[string]any{"points": points}, nil); err != nil {
			return err
		}
	}
	s.mu.Lock()
	s.dimension, s.firstID, s.count = dimension, firstID, len(docs)
	s.mu.Unlock()
	return nil
}

// Size returns the number of documents loaded by the last Load.
func (s *Storage) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.count
}

func (s *Storage) Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	dimension, firstID, count := s.dimension, s.firstID, s.count
	s.mu.RUnlock()

	if count == 0 {
		return []domain.SearchResult{}, nil
	}
	if len(vector) != dimension {
		return nil, &domain.DimensionMismatchError{DocumentID: firstID, Want: len(vector), Got: dimension}
	}
	if topK <= 0 {
		topK = DefaultTopK
	}
	req := map[string]any{
		"vector":       vector,
		"limit":        topK,
		"with_payload": true,
	}
	var resp struct {
		Result []struct {
			Score   float64               `json:"score"`
			Payload domain.SourceDocument `json:"payload"`
		} `json:"result"`
	}
	if err := s.do(ctx, http.MethodPost, s.collectionURL("/points/search"), req, &resp); err != nil {
		return nil, err
	}
	results := make([]domain.SearchResult, 0, len(resp.Result))
	for _, r := range resp.Result {
		results = append(results, domain.SearchResult{Document: r.Payload, Similarity: r.Score})
	}
	return results, nil
}

func (s *Storage) collectionURL(suffix string) string {
	return fmt.Sprintf("%s/collections/%s%s", s.url, s.collection, suffix)
}

// do sends body as JSON and decodes the response into out. Statuses listed
// in tolerate are treated as success.
func (s *Storage) do(ctx context.Context, method, url string, body, out any, tolerate ...int) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("qdrant: encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("qdrant: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s.apiKey != "" {
		req.Header.Set("api-key", s.apiKey)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("qdrant %s %s: %w", method, url, err)
	}
	defer resp.Body.Close()
	for _, code := range tolerate {
		if resp.StatusCode == code {
			return nil
		}
	}
	if resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("qdrant %s %s failed: %s: %s", method, url, resp.Status, strings.TrimSpace(string(msg)))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
