package domain

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProviderError_Is(t *testing.T) {
	err := fmt.Errorf("embed question: %w", &ProviderError{Provider: "openai", StatusCode: 429, Message: "rate limited"})

	assert.True(t, errors.Is(err, ErrProvider))
	assert.False(t, errors.Is(err, ErrConfiguration))

	var pe *ProviderError
	assert.True(t, errors.As(err, &pe))
	assert.Equal(t, 429, pe.StatusCode)
	assert.Equal(t, "rate limited", pe.Message)
}

func TestProviderError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *ProviderError
		want string
	}{
		{"status", &ProviderError{Provider: "openai", StatusCode: 500, Message: "boom"}, "openai: status 500: boom"},
		{"message only", &ProviderError{Provider: "gemini", Message: "empty embedding"}, "gemini: empty embedding"},
		{"wrapped", &ProviderError{Provider: "anthropic", Err: io.ErrUnexpectedEOF}, "anthropic: unexpected EOF"},
		{"bare", &ProviderError{Provider: "openai"}, "openai: request failed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestProviderError_Unwrap(t *testing.T) {
	err := &ProviderError{Provider: "openai", Err: io.ErrUnexpectedEOF}
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
}

func TestDimensionMismatchError_Is(t *testing.T) {
	err := error(&DimensionMismatchError{DocumentID: "blog-x", Want: 4, Got: 3})

	assert.True(t, errors.Is(err, ErrDimensionMismatch))
	assert.Contains(t, err.Error(), "blog-x")
	assert.Contains(t, err.Error(), "4")
}
