package summarizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_PicksFrequentTopicInOrder(t *testing.T) {
	text := "Retrieval finds documents. The weather was nice. Retrieval ranks documents by similarity. Lunch was late."
	got := NewFrequency().Summarize(text, 2)
	assert.Equal(t, "Retrieval finds documents. Retrieval ranks documents by similarity.", got)
}

func TestSummarize_NoPunctuation(t *testing.T) {
	assert.Equal(t, "just a fragment", NewFrequency().Summarize("  just a fragment ", 2))
}

func TestSummarize_FewerSentencesThanRequested(t *testing.T) {
	assert.Equal(t, "Only one.", NewFrequency().Summarize("Only one.", 3))
}
