package domain

import (
	"context"
	"time"
)

// ContentType identifies which part of the site a document came from.
type ContentType string

const (
	ContentBlog       ContentType = "blog"
	ContentProject    ContentType = "project"
	ContentExperience ContentType = "experience"
)

// Metadata describes a content item independently of its text.
type Metadata struct {
	Type  ContentType `json:"type"`
	Title string      `json:"title"`
	Date  string      `json:"date,omitempty"`
	Tags  []string    `json:"tags,omitempty"`
	URL   string      `json:"url,omitempty"`
}

// SourceDocument is a normalized content item ready to be embedded.
type SourceDocument struct {
	ID       string   `json:"id"`
	Content  string   `json:"content"`
	Metadata Metadata `json:"metadata"`
}

// EmbeddedDocument is a SourceDocument with its embedding vector.
// It is the element type of the persisted embeddings artifact.
type EmbeddedDocument struct {
	SourceDocument
	Embedding []float64 `json:"embedding"`
}

// SearchResult represents a matching document with its cosine similarity.
type SearchResult struct {
	Document   SourceDocument
	Similarity float64
}

// Role is the author of a chat message.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one entry of a chat session transcript.
type ChatMessage struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
}

// Source yields the documents of one kind of site content.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]SourceDocument, error)
}

// Embedder converts free text into a numeric vector representation.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// VectorStore holds embedded documents and supports similarity search.
type VectorStore interface {
	Load(ctx context.Context, docs []EmbeddedDocument) error
	Search(ctx context.Context, vector []float64, topK int) ([]SearchResult, error)
	Size() int
}

// GenerateRequest is a single-turn generation call.
type GenerateRequest struct {
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// TokenStream yields generated text deltas. Recv returns io.EOF once the
// provider has finished; any other error means the stream failed midway.
type TokenStream interface {
	Recv() (string, error)
	Close() error
}

// Generator opens a streaming completion against a language-model provider.
type Generator interface {
	Stream(ctx context.Context, req GenerateRequest) (TokenStream, error)
}
