// Package stream encodes answer tokens onto an HTTP body and decodes them
// back into text deltas. Two framings are supported: the line-prefixed
// "data-stream" protocol and server-sent events.
package stream

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Framing names a wire format for streamed answers.
type Framing string

const (
	DataStream Framing = "data-stream"
	SSE        Framing = "sse"
)

var (
	// ErrUnknownFraming is returned for unsupported framing names.
	ErrUnknownFraming = errors.New("unknown stream framing")

	// ErrTruncated is returned when a body ends before its finish frame.
	ErrTruncated = errors.New("stream ended without a finish frame")
)

// ParseFraming validates a framing name; empty selects DataStream.
func ParseFraming(name string) (Framing, error) {
	switch Framing(strings.ToLower(strings.TrimSpace(name))) {
	case "", DataStream:
		return DataStream, nil
	case SSE:
		return SSE, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFraming, name)
	}
}

// ContentType returns the response content type for the framing.
func (f Framing) ContentType() string {
	if f == SSE {
		return "text/event-stream"
	}
	return "text/plain; charset=utf-8"
}

// RemoteError is an error frame received from the other side of the stream.
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "stream error: " + e.Message
}

// Encoder writes frames. Each frame is flushed as soon as it is written.
type Encoder interface {
	Delta(text string) error
	Error(message string) error
	Finish() error
}

// Decoder reads frames from r and calls onDelta for every text delta. It
// returns nil on the finish frame, a *RemoteError on an error frame,
// ErrTruncated when the body ends first, or the read error.
type Decoder interface {
	Decode(r io.Reader, onDelta func(string)) error
}

// NewEncoder returns an encoder for framing writing to w.
func NewEncoder(framing Framing, w io.Writer) (Encoder, error) {
	fw := frameWriter{w: w}
	if f, ok := w.(http.Flusher); ok {
		fw.flusher = f
	}
	switch framing {
	case DataStream:
		return &dataStreamEncoder{fw}, nil
	case SSE:
		return &sseEncoder{fw}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFraming, framing)
	}
}

// NewDecoder returns a decoder for framing.
func NewDecoder(framing Framing) (Decoder, error) {
	switch framing {
	case DataStream:
		return dataStreamDecoder{}, nil
	case SSE:
		return sseDecoder{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFraming, framing)
	}
}

// endOfBody is the result of a body that ran out before its finish frame.
func endOfBody(sc *bufio.Scanner) error {
	if err := sc.Err(); err != nil {
		return err
	}
	return ErrTruncated
}

type frameWriter struct {
	w       io.Writer
	flusher http.Flusher
}

func (fw frameWriter) write(frame string) error {
	if _, err := io.WriteString(fw.w, frame); err != nil {
		return err
	}
	if fw.flusher != nil {
		fw.flusher.Flush()
	}
	return nil
}
