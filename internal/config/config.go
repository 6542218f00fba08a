// Package config provides configuration loading for the server and CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config holds everything the server and CLI need to run. Values come
// from the environment, optionally overridden by a JSON config file for
// CLI runs.
type Config struct {
	// Server
	Port           int    `json:"port,omitempty"`
	DatabaseURL    string `json:"database_url,omitempty"`
	AllowedOrigins string `json:"allowed_origins,omitempty"`

	// LLM provider
	Provider    string `json:"provider,omitempty"`     // "openai" or "deepseek"
	APIKey      string `json:"api_key,omitempty"`      // provider API key
	Model       string `json:"model,omitempty"`        // optional model override
	LLMBaseURL  string `json:"llm_base_url,omitempty"` // optional endpoint override
	ChromePath  string `json:"chrome_path,omitempty"`  // headless Chrome binary for PDF export
	RenderDebug bool   `json:"render_debug,omitempty"`
}

// FromEnv builds a Config from environment variables. Defaults: port
// 8080, provider "openai". The API key falls back through the
// provider-specific variables so either naming works.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:           8080,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AllowedOrigins: os.Getenv("ALLOWED_ORIGINS"),
		Provider:       getenvDefault("LLM_PROVIDER", "openai"),
		Model:          os.Getenv("LLM_MODEL"),
		LLMBaseURL:     os.Getenv("LLM_BASE_URL"),
		ChromePath:     os.Getenv("CHROME_PATH"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	cfg.APIKey = firstNonEmpty(
		os.Getenv("LLM_API_KEY"),
		os.Getenv("OPENAI_API_KEY"),
		os.Getenv("DEEPSEEK_API_KEY"),
	)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile reads a JSON config file. Relative paths resolve against the
// current directory.
func LoadFile(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	return &cfg, nil
}

// Validate checks value ranges. Required fields are enforced by the
// callers that need them; a CLI conversion run has no use for a
// database URL.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: port %d out of range", c.Port)
	}
	switch c.Provider {
	case "", "openai", "deepseek":
	default:
		return fmt.Errorf("config error: unknown provider %q", c.Provider)
	}
	return nil
}

// Merge returns a copy of c with empty fields filled from defaults.
// File values act as defaults for anything the environment left unset.
func (c *Config) Merge(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.AllowedOrigins == "" {
		result.AllowedOrigins = defaults.AllowedOrigins
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.LLMBaseURL == "" {
		result.LLMBaseURL = defaults.LLMBaseURL
	}
	if result.ChromePath == "" {
		result.ChromePath = defaults.ChromePath
	}

	// Bool fields are not merged; flags always win there.
	return result
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
