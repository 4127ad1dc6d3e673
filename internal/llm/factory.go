package llm

import (
	"context"
	"fmt"
	"strings"

	"askweb/internal/config"
)

// NewFromConfig returns the client for the configured provider.
// Groq and Mistral expose OpenAI-compatible chat APIs, so they share the
// OpenAI client pointed at their own base URLs.
func NewFromConfig(ctx context.Context, cfg config.ModelConfig) (Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, fmt.Errorf("model API key is not configured for provider %q", cfg.Provider)
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gemini":
		return NewGeminiClient(ctx, cfg.APIKey, cfg.Model, cfg.MaxTokens)
	case "openai", "groq", "mistral":
		return NewOpenAIClient(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.MaxTokens), nil
	default:
		return nil, fmt.Errorf("unknown model provider %q", cfg.Provider)
	}
}
