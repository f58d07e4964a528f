// Package config provides configuration loading and management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is the default config file name.
	DefaultConfigFile = "gamescout.yaml"
	// DefaultDataDirName is the directory name for gamescout data.
	DefaultDataDirName = ".gamescout"
)

// Config holds static infrastructure configuration (read-only after init).
type Config struct {
	DataDir  string         `yaml:"data_dir,omitempty"`
	LLM      LLMConfig      `yaml:"llm,omitempty"`
	Embedder EmbedderConfig `yaml:"embedder,omitempty"`
	Qdrant   QdrantConfig   `yaml:"qdrant,omitempty"`
	YouTube  YouTubeConfig  `yaml:"youtube,omitempty"`
	Fetch    FetchConfig    `yaml:"fetch,omitempty"`
	HTTP     HTTPConfig     `yaml:"http,omitempty"`
}

// LLMConfig holds configuration for the LLM provider.
type LLMConfig struct {
	Model string `yaml:"model,omitempty"`
	// SearchModel is the web-search-capable model used for research and
	// hybrid answer generation.
	SearchModel string `yaml:"search_model,omitempty"`
	APIKey      string `yaml:"api_key,omitempty"`
}

// EmbedderConfig holds configuration for the embedding provider.
type EmbedderConfig struct {
	Model  string `yaml:"model,omitempty"`
	APIKey string `yaml:"api_key,omitempty"`
}

// QdrantConfig holds configuration for the Qdrant vector database.
type QdrantConfig struct {
	Host   string `yaml:"host,omitempty"`
	Port   int    `yaml:"port,omitempty"`
	APIKey string `yaml:"api_key,omitempty"`
}

// YouTubeConfig holds configuration for the YouTube Data API. An empty key
// disables video search; tutorial discovery then relies on web search.
type YouTubeConfig struct {
	APIKey string `yaml:"api_key,omitempty"`
}

// FetchConfig holds configuration for the document fetcher.
type FetchConfig struct {
	TimeoutSeconds int `yaml:"timeout_seconds,omitempty"`
}

// HTTPConfig holds configuration for the HTTP API server.
type HTTPConfig struct {
	Addr string `yaml:"addr,omitempty"`
}

// Default returns a Config with default values.
func Default() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DataDir: filepath.Join(home, DefaultDataDirName),
		LLM: LLMConfig{
			Model:       "gpt-4o-mini",
			SearchModel: "gpt-4o-search-preview",
		},
		Embedder: EmbedderConfig{
			Model: "text-embedding-3-small",
		},
		Qdrant: QdrantConfig{
			Host: "localhost",
			Port: 6334,
		},
		Fetch: FetchConfig{
			TimeoutSeconds: 20,
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// Load loads configuration from the given file path, falling back to
// defaults when the file does not exist. An empty path looks for the
// default config file in the current directory.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		cfg.applyEnvOverrides()
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides. Values already
// set in the config file win over the environment, except GAMESCOUT_DATA_DIR
// which always wins so deployments can relocate data without editing files.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("GAMESCOUT_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		if c.LLM.APIKey == "" {
			c.LLM.APIKey = key
		}
		if c.Embedder.APIKey == "" {
			c.Embedder.APIKey = key
		}
	}
	if key := os.Getenv("QDRANT_API_KEY"); key != "" && c.Qdrant.APIKey == "" {
		c.Qdrant.APIKey = key
	}
	if host := os.Getenv("QDRANT_HOST"); host != "" {
		c.Qdrant.Host = host
	}
	if port := os.Getenv("QDRANT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Qdrant.Port = p
		}
	}
	if key := os.Getenv("YOUTUBE_API_KEY"); key != "" && c.YouTube.APIKey == "" {
		c.YouTube.APIKey = key
	}
	if addr := os.Getenv("GAMESCOUT_HTTP_ADDR"); addr != "" {
		c.HTTP.Addr = addr
	}
}

// SQLitePath returns the path of the relational database file.
func (c *Config) SQLitePath() string {
	return filepath.Join(c.DataDir, "gamescout.db")
}

// GamesDir returns the root directory holding per-game store directories.
// Individual game directories under it are keyed by game ID.
func (c *Config) GamesDir() string {
	return filepath.Join(c.DataDir, "games")
}
