// Package llm implements domain.ChatCompleter against OpenAI-compatible
// chat-completion endpoints (OpenRouter, Groq).
package llm

import (
	"bytes"
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/runoshun/taskflow/internal/domain"
)

// Provider describes a hosted chat-completion service.
type Provider struct {
	Name         string
	BaseURL      string
	DefaultModel string
	KeyEnv       string
	Headers      map[string]string
}

// Known providers, in the order they are tried when none is configured.
var (
	OpenRouter = Provider{
		Name:         "openrouter",
		BaseURL:      "https://openrouter.ai/api/v1",
		DefaultModel: "meta-llama/llama-3.3-70b-instruct:free",
		KeyEnv:       "OPENROUTER_API_KEY",
		Headers: map[string]string{
			"HTTP-Referer": "https://github.com/runoshun/taskflow",
			"X-Title":      "TaskFlow AI",
		},
	}
	Groq = Provider{
		Name:         "groq",
		BaseURL:      "https://api.groq.com/openai/v1",
		DefaultModel: "llama-3.1-70b-versatile",
		KeyEnv:       "GROQ_API_KEY",
	}
)

// Providers returns the known providers.
func Providers() []Provider {
	return []Provider{OpenRouter, Groq}
}

// ErrUnknownProvider is returned for a provider name that is not known.
var ErrUnknownProvider = errors.New("unknown AI provider")

// LookupProvider returns the provider with the given name.
func LookupProvider(name string) (Provider, error) {
	for _, p := range Providers() {
		if p.Name == name {
			return p, nil
		}
	}
	return Provider{}, fmt.Errorf("%w: %q", ErrUnknownProvider, name)
}

// ResolveProvider picks the provider and API key for cfg.
// An explicit provider must have its key set; otherwise the first provider
// with a key in the environment wins. cfg.APIKey, if set, takes precedence.
func ResolveProvider(cfg domain.AIConfig, getenv func(string) string) (Provider, string, error) {
	if getenv == nil {
		getenv = os.Getenv
	}
	if cfg.Provider != "" {
		p, err := LookupProvider(cfg.Provider)
		if err != nil {
			return Provider{}, "", err
		}
		key := cfg.APIKey
		if key == "" {
			key = getenv(p.KeyEnv)
		}
		if key == "" {
			return Provider{}, "", fmt.Errorf("%w: %s is not set", domain.ErrAdvisorUnavailable, p.KeyEnv)
		}
		return p, key, nil
	}
	for _, p := range Providers() {
		key := cfg.APIKey
		if key == "" {
			key = getenv(p.KeyEnv)
		}
		if key != "" {
			return p, key, nil
		}
	}
	return Provider{}, "", domain.ErrAdvisorUnavailable
}

// APIError is a non-2xx response from the endpoint.
type APIError struct {
	Message    string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("AI API error (%d): %s", e.StatusCode, e.Message)
}

// Client sends chat-completion requests. It holds no state between calls
// and does not retry.
type Client struct {
	http      *http.Client
	provider  Provider
	apiKey    string
	baseURL   string
	model     string
	maxTokens int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// New creates a client for provider. Empty cfg fields fall back to the
// provider and package defaults.
func New(provider Provider, apiKey string, cfg domain.AIConfig, opts ...Option) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = domain.DefaultAITimeout
	}
	c := &Client{
		http:      &http.Client{Timeout: timeout},
		provider:  provider,
		apiKey:    apiKey,
		baseURL:   strings.TrimRight(cmp.Or(cfg.BaseURL, provider.BaseURL), "/"),
		model:     cmp.Or(cfg.Model, provider.DefaultModel),
		maxTokens: cfg.MaxTokens,
	}
	if c.maxTokens <= 0 {
		c.maxTokens = domain.DefaultMaxTokens
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the model identifier sent with each request.
func (c *Client) Model() string {
	return c.model
}

// Provider returns the provider name.
func (c *Client) Provider() string {
	return c.provider.Name
}

type chatRequest struct {
	Model       string               `json:"model"`
	Messages    []domain.ChatMessage `json:"messages"`
	Temperature float64              `json:"temperature"`
	MaxTokens   int                  `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type errorResponse struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Complete posts req to {baseURL}/chat/completions and returns the text of
// the first choice.
func (c *Client) Complete(ctx context.Context, req domain.ChatRequest) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    req.Messages,
		Temperature: req.Temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")
	for k, v := range c.provider.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg := strings.TrimSpace(string(respBody))
		var apiErr errorResponse
		if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Error.Message != "" {
			msg = apiErr.Error.Message
		}
		return "", &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	var out chatResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("response contained no choices")
	}
	return out.Choices[0].Message.Content, nil
}

var _ domain.ChatCompleter = (*Client)(nil)
