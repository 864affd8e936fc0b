package service

import (
	"context"
	"fmt"
	"sync"

	"folio/internal/artifact"
	"folio/internal/domain"
	"folio/internal/logger"
)

// StoreLoader fills a vector store from the embeddings artifact on first use.
// A failed load is retried by the next caller; a successful one is kept for
// the lifetime of the loader.
type StoreLoader struct {
	mu     sync.Mutex
	path   string
	store  domain.VectorStore
	log    *logger.Logger
	loaded bool
}

func NewStoreLoader(store domain.VectorStore, artifactPath string, log *logger.Logger) *StoreLoader {
	if log == nil {
		log = logger.NewNop()
	}
	return &StoreLoader{path: artifactPath, store: store, log: log}
}

// Store returns the loaded store, reading the artifact if needed. Missing or
// unparsable artifacts yield domain.ErrStoreUnavailable.
func (l *StoreLoader) Store(ctx context.Context) (domain.VectorStore, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.loaded {
		return l.store, nil
	}
	docs, err := artifact.Read(l.path)
	if err != nil {
		l.log.Warn("vector store unavailable", "path", l.path, "error", err)
		return nil, err
	}
	if err := l.store.Load(ctx, docs); err != nil {
		l.log.Error("failed to load vector store", "path", l.path, "error", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	l.loaded = true
	l.log.Info("vector store loaded", "path", l.path, "documents", l.store.Size())
	return l.store, nil
}
