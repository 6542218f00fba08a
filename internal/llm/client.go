package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Default generation parameters. Extraction favors determinism; free-text
// generation uses a moderate temperature.
const (
	TemperatureExtraction = 0.1
	TemperatureCreative   = 0.7

	DefaultMaxTokens = 2000
)

// Request holds one chat-completion request: role-tagged messages plus
// bounded generation parameters.
type Request struct {
	System      string
	User        string
	Temperature float64
	MaxTokens   int
	// JSONOnly asks the provider to constrain output to a JSON object.
	JSONOnly bool
}

// Client is an abstraction over LLM providers
type Client interface {
	// Complete sends a chat-completion request and returns the raw text
	// of the model's first completion choice.
	Complete(ctx context.Context, req Request) (string, error)
	// Model returns the configured model name.
	Model() string
}

// ChatClient implements Client against any OpenAI-compatible
// chat-completions endpoint.
type ChatClient struct {
	config *Config
	http   *http.Client
}

// NewClient creates a new client for the configured provider. It fails
// with ErrAuthenticationMissing when no API key is set; this is the only
// precondition checked before network I/O.
func NewClient(config *Config) (*ChatClient, error) {
	if config == nil {
		return nil, fmt.Errorf("llm: config is required")
	}
	if config.APIKey == "" {
		return nil, ErrAuthenticationMissing
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	return &ChatClient{
		config: config,
		http:   &http.Client{Timeout: timeout},
	}, nil
}

// Model returns the configured model name.
func (c *ChatClient) Model() string {
	return c.config.Model
}

// Wire types for the OpenAI chat-completions protocol.

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionsRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	Temperature    float64         `json:"temperature"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatCompletionsResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

// Complete sends the request to the provider's chat-completions endpoint.
// Failures are returned as *ProviderError with a structured kind so the
// retry policy never inspects error wording.
func (c *ChatClient) Complete(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens == 0 {
		maxTokens = DefaultMaxTokens
	}

	body := chatCompletionsRequest{
		Model:       c.config.Model,
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	}
	if req.System != "" {
		body.Messages = append(body.Messages, chatMessage{Role: "system", Content: req.System})
	}
	body.Messages = append(body.Messages, chatMessage{Role: "user", Content: req.User})
	if req.JSONOnly {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	endpoint := strings.TrimSuffix(c.config.BaseURL, "/") + "/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", &ProviderError{Kind: KindNetwork, Message: "request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &ProviderError{
			Kind:       classifyStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Message:    readErrorMessage(resp.Body),
		}
	}

	var out chatCompletionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", &ProviderError{Kind: KindEmptyResponse, Message: "unreadable response body", Cause: err}
	}
	if len(out.Choices) == 0 {
		return "", &ProviderError{Kind: KindEmptyResponse, Message: "no completion choices in response"}
	}

	return out.Choices[0].Message.Content, nil
}

// readErrorMessage extracts a human-readable message from a provider
// error body, falling back to the raw body text.
func readErrorMessage(r io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(r, 4096))
	if err != nil || len(raw) == 0 {
		return "no error detail"
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Message != "" {
		return envelope.Error.Message
	}
	return strings.TrimSpace(string(raw))
}
