package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput indicates a malformed caller request, such as an empty question.
	ErrInvalidInput = errors.New("invalid input")

	// ErrConfiguration indicates a required provider credential is missing.
	ErrConfiguration = errors.New("configuration error")

	// ErrStoreUnavailable indicates the embeddings artifact is missing or unreadable.
	// It is distinct from a search that simply matched nothing.
	ErrStoreUnavailable = errors.New("vector store unavailable")

	// ErrProvider indicates an upstream embedding or generation call failed.
	ErrProvider = errors.New("provider error")

	// ErrDimensionMismatch indicates a stored vector and the query vector differ in length.
	ErrDimensionMismatch = errors.New("dimension mismatch")
)

// ProviderError carries the upstream status and message of a failed provider call.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Provider, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Provider, e.Err)
	default:
		return e.Provider + ": request failed"
	}
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrProvider }

// DimensionMismatchError reports the first stored document whose vector
// length disagrees with the query.
type DimensionMismatchError struct {
	DocumentID string
	Want       int
	Got        int
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("dimension mismatch: query has %d dimensions, document %q has %d", e.Want, e.DocumentID, e.Got)
}

func (e *DimensionMismatchError) Is(target error) bool { return target == ErrDimensionMismatch }
