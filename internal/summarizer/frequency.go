// Package summarizer derives short extractive summaries for posts whose
// front matter has none.
package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

var (
	tokenRe    = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// Frequency ranks sentences by the normalized frequency of their
// non-stopword tokens.
type Frequency struct {
	stopwords map[string]struct{}
}

// NewFrequency returns a summarizer with English and French stopwords.
func NewFrequency() *Frequency {
	return &Frequency{stopwords: defaultStopwords()}
}

// Summarize returns up to maxSentences of the highest scoring sentences of
// text, in their original order. Text without sentence punctuation is
// returned trimmed.
func (s *Frequency) Summarize(text string, maxSentences int) string {
	if maxSentences <= 0 {
		maxSentences = 2
	}
	sentences := sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text)
	}

	freq := map[string]float64{}
	maxF := 0.0
	for _, sent := range sentences {
		for _, tok := range tokens(sent) {
			if _, ok := s.stopwords[tok]; ok {
				continue
			}
			freq[tok]++
			maxF = math.Max(maxF, freq[tok])
		}
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(sentences))
	for i, sent := range sentences {
		toks := tokens(sent)
		total := 0.0
		for _, tok := range toks {
			total += freq[tok] / math.Max(maxF, 1)
		}
		// long sentences should not win on length alone
		if len(toks) > 0 {
			total /= math.Sqrt(float64(len(toks)))
		}
		ranked[i] = scored{i, total}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	n := min(maxSentences, len(ranked))
	selected := make([]int, n)
	for i := range selected {
		selected[i] = ranked[i].idx
	}
	sort.Ints(selected)
	out := make([]string, n)
	for i, idx := range selected {
		out[i] = strings.TrimSpace(sentences[idx])
	}
	return strings.Join(out, " ")
}

func tokens(text string) []string {
	return tokenRe.FindAllString(strings.ToLower(text), -1)
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with",
		"as", "is", "are", "was", "were", "be", "been", "it", "this", "that", "these", "those", "from", "into", "about",
		"so", "than", "too", "very", "can", "will", "just", "i", "my", "we", "our", "you",
		"le", "la", "les", "un", "une", "des", "du", "de", "et", "ou", "mais", "en", "dans", "sur", "pour", "par",
		"avec", "est", "sont", "ce", "cette", "ces", "qui", "que", "je", "nous", "vous", "il", "elle", "au", "aux",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
