package service

import (
	"context"
	"io"
	"sync"

	"folio/internal/domain"
)

type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float64
	fail    map[string]error
	calls   []string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, text)
	if err, ok := f.fail[text]; ok {
		return nil, err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float64{1, 0}, nil
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeGenerator struct {
	mu       sync.Mutex
	requests []domain.GenerateRequest
	tokens   []string
	err      error
}

func (f *fakeGenerator) Stream(_ context.Context, req domain.GenerateRequest) (domain.TokenStream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	return &sliceStream{tokens: f.tokens}, nil
}

func (f *fakeGenerator) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

type sliceStream struct {
	tokens []string
	closed bool
}

func (s *sliceStream) Recv() (string, error) {
	if len(s.tokens) == 0 {
		return "", io.EOF
	}
	tok := s.tokens[0]
	s.tokens = s.tokens[1:]
	return tok, nil
}

func (s *sliceStream) Close() error {
	s.closed = true
	return nil
}

type staticSource struct {
	name string
	docs []domain.SourceDocument
	err  error
}

func (s staticSource) Name() string { return s.name }

func (s staticSource) Load(context.Context) ([]domain.SourceDocument, error) {
	return s.docs, s.err
}

func sourceDoc(id, title, content string) domain.SourceDocument {
	return domain.SourceDocument{ID: id, Content: content, Metadata: domain.Metadata{Type: domain.ContentBlog, Title: title}}
}
