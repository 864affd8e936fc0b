package content

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"folio/internal/domain"
)

// frontMatter is the YAML header of a blog post.
type frontMatter struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Tags    []string `yaml:"tags"`
	Summary string   `yaml:"summary"`
	Draft   bool     `yaml:"draft"`
}

// Summarizer condenses a post body into a few sentences.
type Summarizer interface {
	Summarize(text string, maxSentences int) string
}

// BlogSource reads Markdown/MDX posts with YAML front matter from a directory.
type BlogSource struct {
	Dir string
	// Summarizer, when set, fills in the summary of posts that have none.
	Summarizer Summarizer
}

var _ domain.Source = (*BlogSource)(nil)

func (s *BlogSource) Name() string { return "blog" }

// Load returns one document per published post, in file-name order.
func (s *BlogSource) Load(ctx context.Context) ([]domain.SourceDocument, error) {
	if s.Dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		return nil, fmt.Errorf("read blog dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".md" || ext == ".mdx" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var docs []domain.SourceDocument
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := os.ReadFile(filepath.Join(s.Dir, name))
		if err != nil {
			return nil, err
		}
		fm, body, err := parseFrontMatter(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if fm.Draft {
			continue
		}
		if strings.TrimSpace(fm.Title) == "" {
			return nil, fmt.Errorf("%s: front matter has no title", name)
		}
		slug := strings.TrimSuffix(name, filepath.Ext(name))
		if fm.Summary == "" && s.Summarizer != nil {
			fm.Summary = s.Summarizer.Summarize(body, 2)
			// a summary that is the whole body would only repeat it
			if strings.Join(strings.Fields(fm.Summary), " ") == strings.Join(strings.Fields(body), " ") {
				fm.Summary = ""
			}
		}
		text := fm.Title + "\n\n" + body
		if fm.Summary != "" {
			text = fm.Title + "\n\n" + fm.Summary + "\n\n" + body
		}
		docs = append(docs, domain.SourceDocument{
			ID:      "blog-" + slug,
			Content: text,
			Metadata: domain.Metadata{
				Type:  domain.ContentBlog,
				Title: fm.Title,
				Date:  fm.Date,
				Tags:  fm.Tags,
				URL:   "/blog/" + slug,
			},
		})
	}
	return docs, nil
}

// parseFrontMatter splits a leading "---" delimited YAML block from the body.
// Files without one are returned with an empty header.
func parseFrontMatter(data []byte) (frontMatter, string, error) {
	var fm frontMatter
	text := string(bytes.TrimPrefix(data, []byte("\ufeff")))
	text = strings.ReplaceAll(text, "\r\n", "\n")
	if !strings.HasPrefix(text, "---\n") {
		return fm, text, nil
	}
	rest := text[len("---"):]
	end := strings.Index(rest, "\n---")
	if end < 0 {
		return fm, "", fmt.Errorf("unterminated front matter")
	}
	header := rest[:end]
	body := rest[end+len("\n---"):]
	body = strings.TrimPrefix(body, "\n")
	if err := yaml.Unmarshal([]byte(header), &fm); err != nil {
		return fm, "", fmt.Errorf("parse front matter: %w", err)
	}
	return fm, body, nil
}
