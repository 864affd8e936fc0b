package stream

import (
	"bufio"
	"encoding/json"
	"io"
	"strings"
)

// data-stream frame prefixes
const (
	textPrefix   = "0:"
	errorPrefix  = "3:"
	finishPrefix = "d:"
)

type dataStreamEncoder struct {
	frameWriter
}

func (e *dataStreamEncoder) Delta(text string) error {
	return e.writeJSON(textPrefix, text)
}

func (e *dataStreamEncoder) Error(message string) error {
	return e.writeJSON(errorPrefix, message)
}

func (e *dataStreamEncoder) Finish() error {
	return e.writeJSON(finishPrefix, map[string]string{"finishReason": "stop"})
}

func (e *dataStreamEncoder) writeJSON(prefix string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return e.write(prefix + string(data) + "\n")
}

type dataStreamDecoder struct{}

func (dataStreamDecoder) Decode(r io.Reader, onDelta func(string)) error {
	sc := newScanner(r)
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, textPrefix):
			var text string
			if json.Unmarshal([]byte(line[len(textPrefix):]), &text) != nil {
				continue
			}
			onDelta(text)
		case strings.HasPrefix(line, errorPrefix):
			var msg string
			if json.Unmarshal([]byte(line[len(errorPrefix):]), &msg) != nil {
				msg = strings.TrimSpace(line[len(errorPrefix):])
			}
			return &RemoteError{Message: msg}
		case strings.HasPrefix(line, finishPrefix):
			return nil
		}
	}
	return endOfBody(sc)
}

func newScanner(r io.Reader) *bufio.Scanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	return sc
}
