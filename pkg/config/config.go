package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all Cineseek configuration.
type Config struct {
	Listen  string      `yaml:"listen"`
	DataDir string      `yaml:"data_dir"`
	DBPath  string      `yaml:"db_path"`
	OMDb    OMDbConfig  `yaml:"omdb"`
	Cache   CacheConfig `yaml:"cache"`
	Web     WebConfig   `yaml:"web"`
}

// OMDbConfig defines the upstream metadata API.
type OMDbConfig struct {
	APIKey     string        `yaml:"api_key"`
	BaseURL    string        `yaml:"base_url"`
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	Backoff    time.Duration `yaml:"backoff"`
}

// CacheConfig controls the on-disk response cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir"`
	TTL     time.Duration `yaml:"ttl"`
}

// WebConfig points at the page-rendering assets. An empty Templates
// glob runs the server in API-only mode.
type WebConfig struct {
	Templates string `yaml:"templates"`
	Static    string `yaml:"static"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Listen:  ":8080",
		DataDir: "data",
		DBPath:  "cineseek.db",
		OMDb: OMDbConfig{
			BaseURL:    "https://www.omdbapi.com/",
			Timeout:    10 * time.Second,
			MaxRetries: 3,
			Backoff:    300 * time.Millisecond,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "data/cache",
			TTL:     24 * time.Hour,
		},
		Web: WebConfig{
			Templates: "templates/*.html",
			Static:    "static",
		},
	}
}

// Load reads a YAML config file and expands environment variables.
// The OMDb API key falls back to the OMDB_API_KEY environment variable
// when the file does not set it.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if cfg.OMDb.APIKey == "" {
		cfg.OMDb.APIKey = os.Getenv("OMDB_API_KEY")
	}

	return cfg, nil
}
