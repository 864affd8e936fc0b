package embedding

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/domain"
)

// lengthEmbedder returns [len(text)] after a delay that shrinks with the
// text length, so later inputs tend to finish first.
type lengthEmbedder struct {
	calls atomic.Int32
	fail  string
}

func (e *lengthEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	e.calls.Add(1)
	if text == e.fail {
		return nil, &domain.ProviderError{Provider: "fake", StatusCode: 500, Message: "upstream exploded"}
	}
	select {
	case <-time.After(time.Duration(10-len(text)) * time.Millisecond):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return []float64{float64(len(text))}, nil
}

func TestEmbedBatch_PreservesOrder(t *testing.T) {
	e := &lengthEmbedder{}
	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}

	vectors, err := EmbedBatch(context.Background(), e, texts)
	require.NoError(t, err)
	require.Len(t, vectors, len(texts))
	for i, text := range texts {
		assert.Equal(t, []float64{float64(len(text))}, vectors[i])
	}
	assert.EqualValues(t, len(texts), e.calls.Load())
}

func TestEmbedBatch_FailsWhenAnyCallFails(t *testing.T) {
	e := &lengthEmbedder{fail: "bad"}

	vectors, err := EmbedBatch(context.Background(), e, []string{"ok", "bad", "fine"})
	require.Error(t, err)
	assert.Nil(t, vectors)

	var pe *domain.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, 500, pe.StatusCode)
	assert.Equal(t, "upstream exploded", pe.Message)
}

func TestEmbedBatch_Empty(t *testing.T) {
	vectors, err := EmbedBatch(context.Background(), &lengthEmbedder{}, nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestEmbedBatch_RunsConcurrently(t *testing.T) {
	var inFlight, peak atomic.Int32
	e := embedFunc(func(ctx context.Context, text string) ([]float64, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		inFlight.Add(-1)
		return []float64{1}, nil
	})

	_, err := EmbedBatch(context.Background(), e, strings.Split("a b c d", " "))
	require.NoError(t, err)
	assert.Greater(t, peak.Load(), int32(1))
}

type embedFunc func(ctx context.Context, text string) ([]float64, error)

func (f embedFunc) Embed(ctx context.Context, text string) ([]float64, error) { return f(ctx, text) }
