package content

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"folio/internal/domain"
)

// Project is one entry of the projects file.
type Project struct {
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Href        string `yaml:"href" json:"href"`
	ImgSrc      string `yaml:"imgSrc" json:"imgSrc"`
}

// Experience is one entry of the experiences file.
type Experience struct {
	Company      string   `yaml:"company" json:"company"`
	Position     string   `yaml:"position" json:"position"`
	Duration     string   `yaml:"duration" json:"duration"`
	Location     string   `yaml:"location" json:"location"`
	Description  string   `yaml:"description" json:"description"`
	Achievements []string `yaml:"achievements" json:"achievements"`
	Technologies []string `yaml:"technologies" json:"technologies"`
	Website      string   `yaml:"website" json:"website"`
}

// ProjectSource reads a YAML (or JSON) list of projects.
type ProjectSource struct {
	Path string
}

var _ domain.Source = (*ProjectSource)(nil)

func (s *ProjectSource) Name() string { return "projects" }

func (s *ProjectSource) Load(ctx context.Context) ([]domain.SourceDocument, error) {
	var projects []Project
	if err := readList(s.Path, &projects); err != nil || projects == nil {
		return nil, err
	}
	docs := make([]domain.SourceDocument, 0, len(projects))
	for i, p := range projects {
		if strings.TrimSpace(p.Title) == "" {
			return nil, fmt.Errorf("%s: project %d has no title", s.Path, i)
		}
		docs = append(docs, domain.SourceDocument{
			ID:      "project-" + strconv.Itoa(i),
			Content: p.Title + "\n\n" + p.Description,
			Metadata: domain.Metadata{
				Type:  domain.ContentProject,
				Title: p.Title,
				URL:   p.Href,
			},
		})
	}
	return docs, nil
}

// ExperienceSource reads a YAML (or JSON) list of experiences.
type ExperienceSource struct {
	Path string
}

var _ domain.Source = (*ExperienceSource)(nil)

func (s *ExperienceSource) Name() string { return "experiences" }

func (s *ExperienceSource) Load(ctx context.Context) ([]domain.SourceDocument, error) {
	var experiences []Experience
	if err := readList(s.Path, &experiences); err != nil || experiences == nil {
		return nil, err
	}
	docs := make([]domain.SourceDocument, 0, len(experiences))
	for i, e := range experiences {
		if strings.TrimSpace(e.Company) == "" || strings.TrimSpace(e.Position) == "" {
			return nil, fmt.Errorf("%s: experience %d needs both company and position", s.Path, i)
		}
		title := e.Position + " at " + e.Company
		var b strings.Builder
		b.WriteString(title)
		b.WriteString("\n\n")
		b.WriteString(e.Description)
		for _, a := range e.Achievements {
			b.WriteString("\n- ")
			b.WriteString(a)
		}
		docs = append(docs, domain.SourceDocument{
			ID:      "experience-" + strconv.Itoa(i),
			Content: b.String(),
			Metadata: domain.Metadata{
				Type:  domain.ContentExperience,
				Title: title,
				Date:  e.Duration,
				Tags:  e.Technologies,
				URL:   e.Website,
			},
		})
	}
	return docs, nil
}

// readList decodes a YAML or JSON document into out. An empty path is not an error.
func readList(path string, out any) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
