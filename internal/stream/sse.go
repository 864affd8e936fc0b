package stream

import (
	"encoding/json"
	"io"
	"strings"
)

const doneMarker = "[DONE]"

type ssePayload struct {
	Content string `json:"content,omitempty"`
	Error   string `json:"error,omitempty"`
}

type sseEncoder struct {
	frameWriter
}

func (e *sseEncoder) Delta(text string) error {
	data, err := json.Marshal(ssePayload{Content: text})
	if err != nil {
		return err
	}
	return e.write("data: " + string(data) + "\n\n")
}

func (e *sseEncoder) Error(message string) error {
	data, err := json.Marshal(ssePayload{Error: message})
	if err != nil {
		return err
	}
	return e.write("event: error\ndata: " + string(data) + "\n\n")
}

func (e *sseEncoder) Finish() error {
	return e.write("data: " + doneMarker + "\n\n")
}

type sseDecoder struct{}

func (sseDecoder) Decode(r io.Reader, onDelta func(string)) error {
	sc := newScanner(r)
	event := ""
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			event = ""
		case strings.HasPrefix(line, "event:"):
			event = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == doneMarker {
				return nil
			}
			var p ssePayload
			parseErr := json.Unmarshal([]byte(data), &p)
			if event == "error" {
				msg := p.Error
				if parseErr != nil || msg == "" {
					msg = data
				}
				return &RemoteError{Message: msg}
			}
			if parseErr != nil || p.Content == "" {
				continue
			}
			onDelta(p.Content)
		}
	}
	return endOfBody(sc)
}
