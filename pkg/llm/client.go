// Package llm wraps the chat-completion providers used by the AI assist features.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrDisabled is returned by the disabled provider
var ErrDisabled = errors.New("llm provider disabled")

// Client sends one system + user prompt and returns the text reply
type Client interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Model() string
}

// Config selects and tunes a provider
type Config struct {
	Provider    string  `yaml:"provider"`
	APIKey      string  `yaml:"api_key"`
	BaseURL     string  `yaml:"base_url"`
	Model       string  `yaml:"model"`
	Temperature float64 `yaml:"temperature"`
	MaxTokens   int64   `yaml:"max_tokens"`
}

// Defaults used when the config leaves a field empty
const (
	DefaultOpenAIModel    = "gpt-4"
	DefaultAnthropicModel = "claude-haiku-4-5-20251001"
	DefaultTemperature    = 0.7
	DefaultMaxTokens      = 1000
)

// New builds the configured provider. An empty provider or missing key yields the disabled client.
func New(cfg Config) (Client, error) {
	if cfg.Temperature == 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "disabled", "none":
		return Disabled{}, nil
	case "openai":
		if cfg.APIKey == "" {
			return Disabled{}, nil
		}
		if cfg.Model == "" {
			cfg.Model = DefaultOpenAIModel
		}
		return NewOpenAIClient(cfg), nil
	case "anthropic":
		if cfg.APIKey == "" {
			return Disabled{}, nil
		}
		if cfg.Model == "" {
			cfg.Model = DefaultAnthropicModel
		}
		return NewAnthropicClient(cfg), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// Disabled always fails; callers fall back to their defaults
type Disabled struct{}

func (Disabled) Complete(context.Context, string, string) (string, error) {
	return "", ErrDisabled
}

func (Disabled) Model() string { return "disabled" }

// CleanJSON strips markdown fences and surrounding prose from a JSON reply
func CleanJSON(content string) string {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start >= 0 && end > start {
		content = content[start : end+1]
	}
	return content
}
