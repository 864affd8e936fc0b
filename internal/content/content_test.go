package content

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"folio/internal/domain"
	"folio/internal/summarizer"
)

func writeFile(t *testing.T, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

func TestBlogSource_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b-second.mdx", "---\ntitle: Second post\ndate: 2024-03-01\ntags: [go, rag]\nsummary: About retrieval\n---\nBody of the second post.\n")
	writeFile(t, dir, "a-first.md", "---\r\ntitle: \"First: post\"\r\n---\r\nHello.\r\n")
	writeFile(t, dir, "c-draft.md", "---\ntitle: Draft\ndraft: true\n---\nnot yet\n")
	writeFile(t, dir, "notes.txt", "ignored")

	docs, err := (&BlogSource{Dir: dir}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "blog-a-first", docs[0].ID)
	assert.Equal(t, "First: post", docs[0].Metadata.Title)
	assert.Equal(t, "/blog/a-first", docs[0].Metadata.URL)

	second := docs[1]
	assert.Equal(t, "blog-b-second", second.ID)
	assert.Equal(t, domain.ContentBlog, second.Metadata.Type)
	assert.Equal(t, "2024-03-01", second.Metadata.Date)
	assert.Equal(t, []string{"go", "rag"}, second.Metadata.Tags)
	assert.Equal(t, "Second post\n\nAbout retrieval\n\nBody of the second post.\n", second.Content)
}

type firstSentence struct{}

func (firstSentence) Summarize(text string, _ int) string {
	return strings.SplitAfter(text, ".")[0]
}

func TestBlogSource_SummarizesPostsWithoutSummary(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.md", "---\ntitle: A\n---\nOne. Two.")
	writeFile(t, dir, "b.md", "---\ntitle: B\nsummary: Given\n---\nThree. Four.")

	docs, err := (&BlogSource{Dir: dir, Summarizer: firstSentence{}}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "A\n\nOne.\n\nOne. Two.", docs[0].Content)
	assert.Equal(t, "B\n\nGiven\n\nThree. Four.", docs[1].Content)
}

func TestBlogSource_SkipsSummaryRepeatingTheBody(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "notes.md", "---\ntitle: Notes\n---\nshort notes without punctuation\n")

	docs, err := (&BlogSource{Dir: dir, Summarizer: summarizer.NewFrequency()}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "Notes\n\nshort notes without punctuation\n", docs[0].Content)
	assert.Equal(t, 1, strings.Count(docs[0].Content, "short notes"))
}

func TestBlogSource_MissingTitleIsAnError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "untitled.md", "---\ndate: 2024-01-01\n---\nbody")

	_, err := (&BlogSource{Dir: dir}).Load(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "untitled.md")
}

func TestBlogSource_EmptyDirSetting(t *testing.T) {
	docs, err := (&BlogSource{}).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestParseFrontMatter(t *testing.T) {
	fm, body, err := parseFrontMatter([]byte("no header here"))
	require.NoError(t, err)
	assert.Empty(t, fm.Title)
	assert.Equal(t, "no header here", body)

	fm, body, err = parseFrontMatter([]byte("---\n---\nbody"))
	require.NoError(t, err)
	assert.Empty(t, fm.Title)
	assert.Equal(t, "body", body)

	_, _, err = parseFrontMatter([]byte("---\ntitle: x\nbody without end"))
	assert.Error(t, err)
}

func TestProjectSource_Load(t *testing.T) {
	path := writeFile(t, t.TempDir(), "projects.yaml", `
- title: Portfolio chat
  description: "A RAG assistant that quotes \"its sources\""
  href: https://example.com/chat
- title: Speech analysis
  description: Whisper + NLU
`)
	docs, err := (&ProjectSource{Path: path}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 2)

	assert.Equal(t, "project-0", docs[0].ID)
	assert.Equal(t, "Portfolio chat\n\nA RAG assistant that quotes \"its sources\"", docs[0].Content)
	assert.Equal(t, "https://example.com/chat", docs[0].Metadata.URL)
	assert.Equal(t, domain.ContentProject, docs[0].Metadata.Type)
	assert.Equal(t, "project-1", docs[1].ID)
	assert.Empty(t, docs[1].Metadata.URL)
}

func TestProjectSource_AcceptsJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "projects.json", `[{"title": "One", "description": "first"}]`)

	docs, err := (&ProjectSource{Path: path}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "One", docs[0].Metadata.Title)
}

func TestProjectSource_RejectsUntitledRecord(t *testing.T) {
	path := writeFile(t, t.TempDir(), "projects.yaml", "- description: orphan\n")

	_, err := (&ProjectSource{Path: path}).Load(context.Background())
	assert.ErrorContains(t, err, "project 0 has no title")
}

func TestExperienceSource_Load(t *testing.T) {
	path := writeFile(t, t.TempDir(), "experiences.yaml", `
- company: Aimigo
  position: AI for Education Intern
  duration: April 2025 - Present
  location: France
  description: Built extraction pipelines.
  achievements:
    - Fine-tuned YOLO models
    - RAG quiz generation
  technologies: [Python, RAG]
  website: https://aimigo.ai/
`)
	docs, err := (&ExperienceSource{Path: path}).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, docs, 1)

	d := docs[0]
	assert.Equal(t, "experience-0", d.ID)
	assert.Equal(t, "AI for Education Intern at Aimigo", d.Metadata.Title)
	assert.Equal(t, "April 2025 - Present", d.Metadata.Date)
	assert.Equal(t, []string{"Python", "RAG"}, d.Metadata.Tags)
	assert.Equal(t, domain.ContentExperience, d.Metadata.Type)
	assert.Contains(t, d.Content, "Built extraction pipelines.")
	assert.Contains(t, d.Content, "- RAG quiz generation")
}

func TestExperienceSource_RequiresCompanyAndPosition(t *testing.T) {
	path := writeFile(t, t.TempDir(), "experiences.yaml", "- company: Acme\n")

	_, err := (&ExperienceSource{Path: path}).Load(context.Background())
	assert.ErrorContains(t, err, "experience 0")
}

func TestRecordSources_MissingFile(t *testing.T) {
	_, err := (&ProjectSource{Path: filepath.Join(t.TempDir(), "missing.yaml")}).Load(context.Background())
	assert.Error(t, err)

	docs, err := (&ExperienceSource{}).Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
}
