package tui

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true)
	unicodeWordRe  = regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`)
	sentenceRe     = regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`)
)

// highlightBestSentence emphasizes the sentence of text sharing the most
// words with query. Text without a sentence sharing any word is unchanged.
func highlightBestSentence(text, query string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}
	qTokens := toTokenSet(query)
	if len(qTokens) == 0 {
		return text
	}
	sentences := sentenceRe.FindAllStringIndex(text, -1)
	if len(sentences) == 0 {
		sentences = [][]int{{0, len(text)}}
	}
	bestIdx, bestScore := -1, 0
	for i, loc := range sentences {
		if score := tokenOverlapScore(qTokens, text[loc[0]:loc[1]]); score > bestScore {
			bestIdx, bestScore = i, score
		}
	}
	if bestIdx < 0 {
		return text
	}
	loc := sentences[bestIdx]
	sentence := text[loc[0]:loc[1]]
	trimmed := strings.TrimSpace(sentence)
	lead := sentence[:strings.Index(sentence, trimmed)]
	return text[:loc[0]] + lead + highlightStyle.Render(trimmed) + text[loc[0]+len(lead)+len(trimmed):]
}

func toTokenSet(s string) map[string]struct{} {
	tokens := unicodeWordRe.FindAllString(strings.ToLower(s), -1)
	m := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		m[t] = struct{}{}
	}
	return m
}

func tokenOverlapScore(queryTokens map[string]struct{}, sentence string) int {
	score := 0
	tokens := unicodeWordRe.FindAllString(strings.ToLower(sentence), -1)
	seen := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := queryTokens[t]; ok {
			score++
		}
	}
	return score
}
