package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"folio/internal/domain"
)

// SiteConfig identifies the site whose content the assistant answers about.
type SiteConfig struct {
	Owner string `yaml:"owner"`
	Name  string `yaml:"name"`
	URL   string `yaml:"url"`
}

// ContentConfig points at the site's content sources. Empty paths are skipped.
type ContentConfig struct {
	BlogDir         string `yaml:"blog_dir"`
	ProjectsFile    string `yaml:"projects_file"`
	ExperiencesFile string `yaml:"experiences_file"`
}

// ArtifactConfig locates the persisted embeddings collection.
type ArtifactConfig struct {
	Path string `yaml:"path"`
}

// NormalizerConfig bounds the text sent for embedding.
type NormalizerConfig struct {
	MaxLength int `yaml:"max_length"`
}

// ProviderConfig holds connection details shared by every provider adapter.
type ProviderConfig struct {
	BaseURL     string            `yaml:"base_url,omitempty"`
	APIKeyEnv   string            `yaml:"api_key_env"`
	Model       string            `yaml:"model"`
	TimeoutSecs int               `yaml:"timeout_secs"`
	Headers     map[string]string `yaml:"headers,omitempty"`
}

// APIKey resolves the credential from the configured environment variable.
func (p ProviderConfig) APIKey() string {
	if p.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(p.APIKeyEnv)
}

// RequireAPIKey is APIKey that fails with domain.ErrConfiguration when unset.
func (p ProviderConfig) RequireAPIKey() (string, error) {
	key := p.APIKey()
	if key == "" {
		return "", fmt.Errorf("%w: environment variable %s is not set", domain.ErrConfiguration, p.APIKeyEnv)
	}
	return key, nil
}

// EmbedderConfig selects and configures the embedding provider.
type EmbedderConfig struct {
	Type   string          `yaml:"type"`
	OpenAI *ProviderConfig `yaml:"openai,omitempty"`
	Gemini *ProviderConfig `yaml:"gemini,omitempty"`
}

// Provider returns the settings of the selected embedding provider.
func (c EmbedderConfig) Provider() (ProviderConfig, error) {
	switch c.Type {
	case "openai":
		if c.OpenAI != nil {
			return *c.OpenAI, nil
		}
	case "gemini":
		if c.Gemini != nil {
			return *c.Gemini, nil
		}
	default:
		return ProviderConfig{}, fmt.Errorf("unknown embedder: %s", c.Type)
	}
	return ProviderConfig{}, fmt.Errorf("%s embedder config missing", c.Type)
}

// GeneratorConfig selects and configures the text-generation provider.
type GeneratorConfig struct {
	Type        string          `yaml:"type"`
	Temperature float64         `yaml:"temperature"`
	MaxTokens   int             `yaml:"max_tokens"`
	OpenAI      *ProviderConfig `yaml:"openai,omitempty"`
	Anthropic   *ProviderConfig `yaml:"anthropic,omitempty"`
	Gemini      *ProviderConfig `yaml:"gemini,omitempty"`
}

// Provider returns the settings of the selected generation provider.
func (c GeneratorConfig) Provider() (ProviderConfig, error) {
	var p *ProviderConfig
	switch c.Type {
	case "openai":
		p = c.OpenAI
	case "anthropic":
		p = c.Anthropic
	case "gemini":
		p = c.Gemini
	default:
		return ProviderConfig{}, fmt.Errorf("unknown generator: %s", c.Type)
	}
	if p == nil {
		return ProviderConfig{}, fmt.Errorf("%s generator config missing", c.Type)
	}
	return *p, nil
}

// VectorStoreConfig selects and configures the vector store implementation.
type VectorStoreConfig struct {
	Type   string        `yaml:"type"`
	Qdrant *QdrantConfig `yaml:"qdrant,omitempty"`
}

// QdrantConfig contains connection details for a Qdrant vector store.
type QdrantConfig struct {
	URL         string `yaml:"url"`
	APIKey      string `yaml:"api_key"`
	Collection  string `yaml:"collection"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// BuilderConfig tunes the offline embedding run.
type BuilderConfig struct {
	DelayMillis int `yaml:"delay_ms"`
}

// ServerConfig configures the chat HTTP endpoint.
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Framing string `yaml:"framing"`
}

// ChatConfig configures the terminal chat client.
type ChatConfig struct {
	Endpoint   string `yaml:"endpoint"`
	Framing    string `yaml:"framing"`
	MaxHistory int    `yaml:"max_history"`
}

// LogConfig selects the logger flavour.
type LogConfig struct {
	Mode string `yaml:"mode"`
}

// AppConfig is the root application configuration structure.
type AppConfig struct {
	Site        SiteConfig        `yaml:"site"`
	Content     ContentConfig     `yaml:"content"`
	Artifact    ArtifactConfig    `yaml:"artifact"`
	Normalizer  NormalizerConfig  `yaml:"normalizer"`
	Embedder    EmbedderConfig    `yaml:"embedder"`
	Generator   GeneratorConfig   `yaml:"generator"`
	VectorStore VectorStoreConfig `yaml:"vector_store"`
	Builder     BuilderConfig     `yaml:"builder"`
	Server      ServerConfig      `yaml:"server"`
	Chat        ChatConfig        `yaml:"chat"`
	Log         LogConfig         `yaml:"log"`
}

// Load reads a config from a specified path. If the file does not exist, returns defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaultConfig(), nil
		}
		return nil, err
	}
	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	applyConfigDefaults(&cfg)
	return &cfg, nil
}

// Save writes the config to the given path, creating directories as needed.
func Save(path string, cfg *AppConfig) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Default returns the configuration used when no file is present.
func Default() *AppConfig {
	return defaultConfig()
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyConfigDefaults(cfg)
	return cfg
}

func applyConfigDefaults(cfg *AppConfig) {
	if cfg.Site.Owner == "" {
		cfg.Site.Owner = "the site owner"
	}
	if cfg.Content.BlogDir == "" && cfg.Content.ProjectsFile == "" && cfg.Content.ExperiencesFile == "" {
		cfg.Content = ContentConfig{
			BlogDir:         "data/blog",
			ProjectsFile:    "data/projects.yaml",
			ExperiencesFile: "data/experiences.yaml",
		}
	}
	if cfg.Artifact.Path == "" {
		cfg.Artifact.Path = "public/embeddings.json"
	}
	if cfg.Normalizer.MaxLength == 0 {
		cfg.Normalizer.MaxLength = 8000
	}

	if cfg.Embedder.Type == "" {
		cfg.Embedder.Type = "openai"
	}
	switch cfg.Embedder.Type {
	case "openai":
		if cfg.Embedder.OpenAI == nil {
			cfg.Embedder.OpenAI = &ProviderConfig{}
		}
		openAIDefaults(cfg.Embedder.OpenAI, "text-embedding-3-small")
	case "gemini":
		if cfg.Embedder.Gemini == nil {
			cfg.Embedder.Gemini = &ProviderConfig{}
		}
		geminiDefaults(cfg.Embedder.Gemini, "text-embedding-004")
	}

	if cfg.Generator.Type == "" {
		cfg.Generator.Type = "openai"
	}
	if cfg.Generator.Temperature == 0 {
		cfg.Generator.Temperature = 0.7
	}
	if cfg.Generator.MaxTokens == 0 {
		cfg.Generator.MaxTokens = 1000
	}
	switch cfg.Generator.Type {
	case "openai":
		if cfg.Generator.OpenAI == nil {
			cfg.Generator.OpenAI = &ProviderConfig{}
		}
		openAIDefaults(cfg.Generator.OpenAI, "gpt-4o-mini")
	case "anthropic":
		if cfg.Generator.Anthropic == nil {
			cfg.Generator.Anthropic = &ProviderConfig{}
		}
		p := cfg.Generator.Anthropic
		if p.APIKeyEnv == "" {
			p.APIKeyEnv = "ANTHROPIC_API_KEY"
		}
		if p.Model == "" {
			p.Model = "claude-3-5-haiku-latest"
		}
		if p.TimeoutSecs == 0 {
			p.TimeoutSecs = 120
		}
	case "gemini":
		if cfg.Generator.Gemini == nil {
			cfg.Generator.Gemini = &ProviderConfig{}
		}
		geminiDefaults(cfg.Generator.Gemini, "gemini-1.5-flash")
	}

	if cfg.VectorStore.Type == "" {
		cfg.VectorStore.Type = "memory"
	}
	if cfg.VectorStore.Type == "qdrant" {
		if cfg.VectorStore.Qdrant == nil {
			cfg.VectorStore.Qdrant = &QdrantConfig{}
		}
		if cfg.VectorStore.Qdrant.URL == "" {
			cfg.VectorStore.Qdrant.URL = "http://localhost:6333"
		}
		if cfg.VectorStore.Qdrant.Collection == "" {
			cfg.VectorStore.Qdrant.Collection = "folio"
		}
		if cfg.VectorStore.Qdrant.TimeoutSecs == 0 {
			cfg.VectorStore.Qdrant.TimeoutSecs = 15
		}
	}

	if cfg.Builder.DelayMillis == 0 {
		cfg.Builder.DelayMillis = 300
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Server.Framing == "" {
		cfg.Server.Framing = "data-stream"
	}
	if cfg.Chat.Endpoint == "" {
		cfg.Chat.Endpoint = "http://localhost:8080/api/rag"
	}
	if cfg.Chat.Framing == "" {
		cfg.Chat.Framing = cfg.Server.Framing
	}
	if cfg.Log.Mode == "" {
		cfg.Log.Mode = "dev"
	}
}

func openAIDefaults(p *ProviderConfig, model string) {
	if p.BaseURL == "" {
		p.BaseURL = "https://api.openai.com/v1"
	}
	if p.APIKeyEnv == "" {
		p.APIKeyEnv = "OPENAI_API_KEY"
	}
	if p.Model == "" {
		p.Model = model
	}
	if p.TimeoutSecs == 0 {
		p.TimeoutSecs = 30
	}
}

func geminiDefaults(p *ProviderConfig, model string) {
	if p.APIKeyEnv == "" {
		p.APIKeyEnv = "GOOGLE_API_KEY"
	}
	if p.Model == "" {
		p.Model = model
	}
	if p.TimeoutSecs == 0 {
		p.TimeoutSecs = 30
	}
}
