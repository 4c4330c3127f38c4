// Package config loads gptifier settings from ~/.gptifier/gptifier.toml,
// .env files and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvAPIKey    = "OPENAI_API_KEY"
	EnvAdminKey  = "OPENAI_ADMIN_KEY"
	EnvOrgID     = "OPENAI_ORG_ID"
	EnvBaseURL   = "OPENAI_BASE_URL"
	EnvOllamaURL = "OLLAMA_HOST"
)

// Config holds all gptifier configuration.
type Config struct {
	Chat       ChatConfig       `toml:"chat"`
	Responses  ResponsesConfig  `toml:"responses"`
	Embeddings EmbeddingsConfig `toml:"embeddings"`
	Images     ImagesConfig     `toml:"images"`
	Ollama     OllamaConfig     `toml:"ollama"`
	History    HistoryConfig    `toml:"history"`

	// Credentials only ever come from the environment.
	APIKey       string `toml:"-"`
	AdminKey     string `toml:"-"`
	Organization string `toml:"-"`
	BaseURL      string `toml:"-"`
}

type ChatConfig struct {
	Model       string  `toml:"model"`
	Temperature float64 `toml:"temperature"`
}

type ResponsesConfig struct {
	Model string `toml:"model"`
}

type EmbeddingsConfig struct {
	Model string `toml:"model"`
}

type ImagesConfig struct {
	Model   string `toml:"model"`
	Size    string `toml:"size"`
	Quality string `toml:"quality"`
	Style   string `toml:"style"`
}

type OllamaConfig struct {
	BaseURL        string `toml:"base_url"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
}

type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Dir returns ~/.gptifier.
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to find home directory: %w", err)
	}
	return filepath.Join(home, ".gptifier"), nil
}

// DefaultPath returns ~/.gptifier/gptifier.toml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "gptifier.toml"), nil
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Chat: ChatConfig{
			Model:       "gpt-4o-mini",
			Temperature: 1.0,
		},
		Responses: ResponsesConfig{
			Model: "gpt-4o",
		},
		Embeddings: EmbeddingsConfig{
			Model: "text-embedding-3-small",
		},
		Images: ImagesConfig{
			Model:   "dall-e-3",
			Size:    "1024x1024",
			Quality: "standard",
			Style:   "vivid",
		},
		Ollama: OllamaConfig{
			BaseURL:        "http://127.0.0.1:11434",
			Model:          "llama3.2",
			EmbeddingModel: "all-minilm",
		},
		History: HistoryConfig{
			Enabled: true,
			Path:    "~/.gptifier/history",
		},
	}
}

// Load reads a TOML config file on top of Default. A missing file is not
// an error: the defaults are returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("unknown config key %q in %s", undecoded[0].String(), path)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the API would otherwise reject after a round trip.
func (c *Config) Validate() error {
	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		return fmt.Errorf("chat.temperature must be between 0 and 2, got %v", c.Chat.Temperature)
	}
	return nil
}

// LoadDotEnv loads the given .env files, skipping the ones that do not
// exist. Variables already set in the environment are never overridden.
func LoadDotEnv(paths ...string) error {
	for _, p := range paths {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		if err := godotenv.Load(p); err != nil {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// DotEnvPaths returns the .env files looked at by default: one in the
// working directory and one in ~/.gptifier.
func DotEnvPaths() []string {
	paths := []string{".env"}
	if dir, err := Dir(); err == nil {
		paths = append(paths, filepath.Join(dir, ".env"))
	}
	return paths
}

// ApplyEnv copies credentials and endpoint overrides from the environment.
func (c *Config) ApplyEnv() {
	c.APIKey = os.Getenv(EnvAPIKey)
	c.AdminKey = os.Getenv(EnvAdminKey)
	c.Organization = os.Getenv(EnvOrgID)

	if v := os.Getenv(EnvBaseURL); v != "" {
		c.BaseURL = v
	}
	if v := os.Getenv(EnvOllamaURL); v != "" {
		if !strings.Contains(v, "://") {
			v = "http://" + v
		}
		c.Ollama.BaseURL = v
	}
}

// HistoryDir returns the history path with a leading ~ expanded.
func (c *Config) HistoryDir() (string, error) {
	p := c.History.Path
	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to find home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	return p, nil
}
