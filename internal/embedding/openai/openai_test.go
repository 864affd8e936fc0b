package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/domain"
)

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(Config{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfiguration))
}

func TestEmbed_Success(t *testing.T) {
	var gotModel, gotAuth, gotTitle string
	var gotInput []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		gotTitle = r.Header.Get("X-Title")

		var body struct {
			Input []string `json:"input"`
			Model string   `json:"model"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		gotModel, gotInput = body.Model, body.Input

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"object":"embedding","index":0,"embedding":[0.5,-0.25,1]}],"model":"m"}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{
		APIKey:  "secret",
		BaseURL: srv.URL + "/v1",
		Model:   "text-embedding-3-small",
		Headers: map[string]string{"X-Title": "folio"},
	})
	require.NoError(t, err)

	vec, err := c.Embed(context.Background(), "hello world")
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, -0.25, 1}, vec)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "folio", gotTitle)
	assert.Equal(t, "text-embedding-3-small", gotModel)
	assert.Equal(t, []string{"hello world"}, gotInput)
}

func TestEmbed_ProviderErrorIsNotRetried(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"Rate limit reached","type":"requests","code":"rate_limit_exceeded"}}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "secret", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Embed(context.Background(), "hello")
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var pe *domain.ProviderError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, http.StatusTooManyRequests, pe.StatusCode)
	assert.Equal(t, "Rate limit reached", pe.Message)
	assert.True(t, errors.Is(err, domain.ErrProvider))
}

func TestEmbed_EmptyData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer srv.Close()

	c, err := NewClient(Config{APIKey: "secret", BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = c.Embed(context.Background(), "hello")
	assert.True(t, errors.Is(err, domain.ErrProvider))
}
