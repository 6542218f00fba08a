// Package llm provides centralized LLM configuration and client abstractions.
// Both supported providers speak the OpenAI chat-completions protocol and
// differ only in base URL and model name.
package llm

import "time"

// Provider represents an LLM provider
type Provider string

// Provider constants define supported LLM providers
const (
	// ProviderOpenAI is the default OpenAI provider
	ProviderOpenAI Provider = "openai"
	// ProviderDeepSeek is the DeepSeek provider (OpenAI-compatible endpoint)
	ProviderDeepSeek Provider = "deepseek"
)

// Valid reports whether p is a supported provider.
func (p Provider) Valid() bool {
	return p == ProviderOpenAI || p == ProviderDeepSeek
}

// Config holds the provider configuration for a client. The API key is
// always passed in explicitly; the client never reads credentials from
// ambient state.
type Config struct {
	Provider Provider
	BaseURL  string
	Model    string
	APIKey   string
	Timeout  time.Duration
}

// DefaultConfig returns the default configuration (OpenAI).
func DefaultConfig(apiKey string) *Config {
	return ConfigForProvider(ProviderOpenAI, apiKey)
}

// ConfigForProvider returns the standard configuration for a provider.
// Unknown providers fall back to OpenAI.
func ConfigForProvider(provider Provider, apiKey string) *Config {
	cfg := &Config{
		Provider: provider,
		APIKey:   apiKey,
		Timeout:  60 * time.Second,
	}
	switch provider {
	case ProviderDeepSeek:
		cfg.BaseURL = "https://api.deepseek.com"
		cfg.Model = "deepseek-chat"
	default:
		cfg.Provider = ProviderOpenAI
		cfg.BaseURL = "https://api.openai.com/v1"
		cfg.Model = "gpt-3.5-turbo"
	}
	return cfg
}

// WithModel returns a copy of the config with a different model name.
func (c *Config) WithModel(model string) *Config {
	cp := *c
	cp.Model = model
	return &cp
}

// WithBaseURL returns a copy of the config pointing at a different endpoint.
// Used by tests to target a fake server.
func (c *Config) WithBaseURL(baseURL string) *Config {
	cp := *c
	cp.BaseURL = baseURL
	return &cp
}
