package service

import (
	"fmt"
	"strings"

	"folio/internal/domain"
)

const contextSeparator = "\n\n---\n\n"

// BuildContext renders search results as numbered blocks in the order given.
func BuildContext(results []domain.SearchResult) string {
	blocks := make([]string, len(results))
	for i, r := range results {
		var b strings.Builder
		md := r.Document.Metadata
		fmt.Fprintf(&b, "Document %d (%s - similarity: %.3f):\n", i+1, md.Type, r.Similarity)
		fmt.Fprintf(&b, "Title: %s\n", md.Title)
		if md.URL != "" {
			fmt.Fprintf(&b, "URL: %s\n", md.URL)
		}
		if len(md.Tags) > 0 {
			fmt.Fprintf(&b, "Tags: %s\n", strings.Join(md.Tags, ", "))
		}
		b.WriteString("\nContent:\n")
		b.WriteString(r.Document.Content)
		blocks[i] = b.String()
	}
	return strings.Join(blocks, contextSeparator)
}

// SystemPrompt returns the generation instructions for the given site owner,
// with the retrieved context embedded.
func SystemPrompt(owner, context string) string {
	if owner == "" {
		owner = "the site owner"
	}
	if strings.TrimSpace(context) == "" {
		context = "(no matching documents)"
	}
	return fmt.Sprintf(`You are an assistant that answers questions about the portfolio, projects, experience and blog of %s.

Use ONLY the information in the context below to answer the user's question.

If the context does not answer the question, say so politely and suggest topics you can help with.

Context:
%s

Rules:
- Reply in French if the question is in French, in English if it is in English
- Be concise and precise
- Cite your sources (article or project titles) when relevant
- When you mention an article or project, include its URL if available
- Stay professional and informative`, owner, context)
}
