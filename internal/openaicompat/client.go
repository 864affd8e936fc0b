// Package openaicompat builds go-openai clients for OpenAI-compatible APIs
// (OpenAI itself, OpenRouter, local gateways) and maps their failures onto
// domain.ProviderError.
package openaicompat

import (
	"errors"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"folio/internal/domain"
)

// DefaultBaseURL is the public OpenAI endpoint.
const DefaultBaseURL = "https://api.openai.com/v1"

// Config holds connection settings for an OpenAI-compatible API.
type Config struct {
	// APIKey is the bearer credential (required by the caller, not checked here).
	APIKey string

	// BaseURL is the API root including the version segment.
	BaseURL string

	// Timeout bounds a whole request, body included. Zero means no limit.
	Timeout time.Duration

	// Headers are added to every request, e.g. OpenRouter's HTTP-Referer and X-Title.
	Headers map[string]string
}

// NewClient returns a go-openai client for cfg.
func NewClient(cfg Config) *openai.Client {
	c := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		c.BaseURL = cfg.BaseURL
	}
	var transport http.RoundTripper = http.DefaultTransport
	if len(cfg.Headers) > 0 {
		transport = &headerTransport{base: transport, headers: cfg.Headers}
	}
	c.HTTPClient = &http.Client{Timeout: cfg.Timeout, Transport: transport}
	return openai.NewClientWithConfig(c)
}

// ProviderError converts a go-openai error into a *domain.ProviderError,
// keeping the upstream status code and message untouched.
func ProviderError(provider string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &domain.ProviderError{Provider: provider, StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		msg := http.StatusText(reqErr.HTTPStatusCode)
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &domain.ProviderError{Provider: provider, StatusCode: reqErr.HTTPStatusCode, Message: msg, Err: err}
	}
	return &domain.ProviderError{Provider: provider, Err: err}
}

type headerTransport struct {
	base    http.RoundTripper
	headers map[string]string
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, v := range t.headers {
		req.Header.Set(k, v)
	}
	return t.base.RoundTrip(req)
}
