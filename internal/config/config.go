// Package config provides configuration loading and structs for the mesrag server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug  bool         `yaml:"debug"`
	Server ServerConfig `yaml:"server"`
	Import ImportConfig `yaml:"import"`
	Qdrant QdrantConfig `yaml:"qdrant"`
	Ollama OllamaConfig `yaml:"ollama"`
	Chat   ChatConfig   `yaml:"chat"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// ImportConfig holds the ingestion directory layout and chunking settings.
// Files placed into PendingDir by an external uploader are the unit of work;
// each file is moved to ProcessedDir or FailedDir exactly once per attempt.
type ImportConfig struct {
	PendingDir   string `yaml:"pending_dir"`
	ProcessedDir string `yaml:"processed_dir"`
	FailedDir    string `yaml:"failed_dir"`
	LogFile      string `yaml:"log_file"`
	ChunkSize    int    `yaml:"chunk_size"`
	Watch        bool   `yaml:"watch"`
}

// QdrantConfig holds vector store connection settings.
type QdrantConfig struct {
	URL        string `yaml:"url"`
	APIKey     string `yaml:"api_key"`
	Collection string `yaml:"collection"`
}

// OllamaConfig holds embedding and completion service settings.
type OllamaConfig struct {
	URL         string `yaml:"url"`
	Model       string `yaml:"model"`
	EmbedModel  string `yaml:"embed_model"`
	TimeoutSecs int    `yaml:"timeout_secs"`
}

// ChatConfig holds retrieval settings.
type ChatConfig struct {
	RelevanceThreshold float64 `yaml:"relevance_threshold"`
	SearchLimit        int     `yaml:"search_limit"`
}

// Load reads and parses the config file at path, applies environment
// overrides and defaults, and resolves the import directories to absolute
// paths. A missing config file is not an error; the environment and defaults
// alone fully configure the service.
func Load(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnvOverrides(&cfg)
	ApplyDefaults(&cfg)

	cfg.Import.PendingDir = absPath(cfg.Import.PendingDir)
	cfg.Import.ProcessedDir = absPath(cfg.Import.ProcessedDir)
	cfg.Import.FailedDir = absPath(cfg.Import.FailedDir)
	if cfg.Import.LogFile != "" {
		cfg.Import.LogFile = absPath(cfg.Import.LogFile)
	}
	return &cfg, nil
}

// applyEnvOverrides maps the deployment environment variables onto cfg.
// Environment values win over the config file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Import.ChunkSize = n
		}
	}
	if v := os.Getenv("COLLECTION_NAME"); v != "" {
		cfg.Qdrant.Collection = v
	}
	if v := os.Getenv("QDRANT_URL"); v != "" {
		cfg.Qdrant.URL = v
	}
	if v := os.Getenv("QDRANT_API_KEY"); v != "" {
		cfg.Qdrant.APIKey = v
	}
	if v := os.Getenv("OLLAMA_URL"); v != "" {
		cfg.Ollama.URL = v
	}
	if v := os.Getenv("OLLAMA_MODEL"); v != "" {
		cfg.Ollama.Model = v
	}
	if v := os.Getenv("OLLAMA_EMBED_MODEL"); v != "" {
		cfg.Ollama.EmbedModel = v
	}
	if v := os.Getenv("RELEVANCE_THRESHOLD"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Chat.RelevanceThreshold = f
		}
	}
}

func absPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}
