package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"folio/internal/stream"
)

// StatusError is a non-200 reply from the chat endpoint.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("chat endpoint returned %d", e.StatusCode)
	}
	return fmt.Sprintf("chat endpoint returned %d: %s", e.StatusCode, e.Body)
}

// Client posts questions to the chat endpoint and decodes the streamed answer.
type Client struct {
	endpoint string
	http     *http.Client
	decoder  stream.Decoder
}

// NewClient creates a client for endpoint. A nil httpClient uses http.DefaultClient.
func NewClient(endpoint string, framing stream.Framing, httpClient *http.Client) (*Client, error) {
	dec, err := stream.NewDecoder(framing)
	if err != nil {
		return nil, err
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{endpoint: endpoint, http: httpClient, decoder: dec}, nil
}

// Ask sends question, calls onOpen once the answer stream is accepted and
// onDelta for each piece of the answer. onOpen may be nil.
func (c *Client) Ask(ctx context.Context, question string, onOpen func(), onDelta func(string)) error {
	body, err := json.Marshal(map[string]string{"message": question})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	rsp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post question: %w", err)
	}
	defer rsp.Body.Close()
	if rsp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(rsp.Body, 4096))
		return &StatusError{StatusCode: rsp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if onOpen != nil {
		onOpen()
	}
	return c.decoder.Decode(rsp.Body, onDelta)
}
