package anthropic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/domain"
)

func writeEvent(w io.Writer, name, data string) {
	_, _ = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
}

func TestStream_TextDeltas(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, true, body["stream"])
		assert.EqualValues(t, 1000, body["max_tokens"])

		w.Header().Set("Content-Type", "text/event-stream")
		writeEvent(w, "message_start", `{"type":"message_start","message":{"id":"msg_1","type":"message","role":"assistant","content":[],"model":"claude","stop_reason":null,"stop_sequence":null,"usage":{"input_tokens":1,"output_tokens":1}}}`)
		writeEvent(w, "content_block_start", `{"type":"content_block_start","index":0,"content_block":{"type":"text","text":""}}`)
		writeEvent(w, "content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"Bon"}}`)
		writeEvent(w, "content_block_delta", `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"jour"}}`)
		writeEvent(w, "content_block_stop", `{"type":"content_block_stop","index":0}`)
		writeEvent(w, "message_stop", `{"type":"message_stop"}`)
	}))
	defer srv.Close()

	g, err := NewGenerator(Config{APIKey: "k", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	s, err := g.Stream(context.Background(), domain.GenerateRequest{System: "sys", Prompt: "salut", Temperature: 0.7, MaxTokens: 1000})
	require.NoError(t, err)
	defer s.Close()

	var b strings.Builder
	for {
		tok, err := s.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		b.WriteString(tok)
	}
	assert.Equal(t, "Bonjour", b.String())
}

func TestStream_UpstreamError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	g, err := NewGenerator(Config{APIKey: "k", BaseURL: srv.URL + "/"})
	require.NoError(t, err)

	s, err := g.Stream(context.Background(), domain.GenerateRequest{Prompt: "hi"})
	require.NoError(t, err)

	_, err = s.Recv()
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var pe *domain.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "anthropic", pe.Provider)
	assert.Equal(t, http.StatusTooManyRequests, pe.StatusCode)
}

func TestNewGenerator_RequiresAPIKey(t *testing.T) {
	_, err := NewGenerator(Config{})
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}
