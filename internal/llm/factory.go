package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ecospirit/greenmap/internal/config"
)

// ErrNotConfigured is returned when the provider is "none" or a hosted
// provider has no API key.
var ErrNotConfigured = errors.New("llm provider not configured")

func NewClient(ctx context.Context, cfg config.LLMConfig) (LLMClient, error) {
	provider := strings.ToLower(cfg.Provider)

	switch provider {
	case "", "none":
		return nil, ErrNotConfigured

	case "openai":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: openai requires an api key", ErrNotConfigured)
		}
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "openai-compatible", "workers-ai":
		if cfg.BaseURL == "" {
			return nil, fmt.Errorf("%s requires base_url", provider)
		}
		return NewOpenAIClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "ollama":
		// Ollama serves the OpenAI chat API under /v1 and ignores the key.
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = "ollama"
		}
		return NewOpenAIClient(apiKey, cfg.Model, ollamaBaseURL(cfg.BaseURL)), nil

	case "claude":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: claude requires an api key", ErrNotConfigured)
		}
		return NewClaudeClient(cfg.APIKey, cfg.Model, cfg.BaseURL), nil

	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: gemini requires an api key", ErrNotConfigured)
		}
		c, err := NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
		if err != nil {
			return nil, err
		}
		return c, nil

	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", provider)
	}
}

func ollamaBaseURL(baseURL string) string {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}
	if strings.HasSuffix(baseURL, "/v1") {
		return baseURL
	}
	return strings.TrimRight(baseURL, "/") + "/v1"
}
