// Package artifact reads and writes the embeddings file produced by the
// offline builder and consumed by the query service.
package artifact

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"folio/internal/domain"
)

// Write stores docs as a JSON array at path. The file is written to a
// temporary sibling and renamed into place, so readers never see a partial
// artifact.
func Write(path string, docs []domain.EmbeddedDocument) error {
	if docs == nil {
		docs = []domain.EmbeddedDocument{}
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".embeddings-*.json")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(docs); err != nil {
		tmp.Close()
		return fmt.Errorf("encode artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace artifact: %w", err)
	}
	return nil
}

// Read loads the artifact at path. A missing or unparsable file is reported
// as domain.ErrStoreUnavailable.
func Read(path string) ([]domain.EmbeddedDocument, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: embeddings file %s not found", domain.ErrStoreUnavailable, path)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", domain.ErrStoreUnavailable, path, err)
	}
	var docs []domain.EmbeddedDocument
	if err := json.Unmarshal(data, &docs); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", domain.ErrStoreUnavailable, path, err)
	}
	return docs, nil
}
