package normalizer

import (
	"strings"
	"unicode/utf8"
)

// DefaultMaxLength is the character budget of a document sent for embedding.
const DefaultMaxLength = 8000

// Normalize collapses every whitespace run (newlines included) into a single
// space, trims both ends and cuts the result to at most maxLength characters.
// The cut is blind to word boundaries; a space left dangling by it is dropped
// so that normalizing twice gives the same text.
func Normalize(text string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	cleaned := strings.Join(strings.Fields(text), " ")
	if utf8.RuneCountInString(cleaned) <= maxLength {
		return cleaned
	}
	n := 0
	for i := range cleaned {
		if n == maxLength {
			cleaned = cleaned[:i]
			break
		}
		n++
	}
	return strings.TrimRight(cleaned, " ")
}
