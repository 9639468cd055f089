package config

import (
	"errors"
	"fmt"

	"github.com/aschepis/backscratcher/editord/llm"
	"github.com/rs/zerolog"
)

// ErrNoProvider is returned by NewClient when no enabled provider is configured.
var ErrNoProvider = errors.New("no LLM provider configured")

// NewClient creates the LLM client for the first enabled and configured
// provider, wrapped with request logging.
func NewClient(cfg *Config, logger zerolog.Logger) (llm.Client, *llm.ClientKey, error) {
	registry := llm.NewProviderRegistry(cfg.ProviderConfig(), cfg.LLMProviders)
	key, err := registry.Resolve()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrNoProvider, err)
	}

	var client llm.Client
	switch key.Provider {
	case llm.ProviderGemini:
		client, err = newGeminiClient(key)
	case llm.ProviderAnthropic:
		client, err = newAnthropicClient(key)
	case llm.ProviderOpenAI:
		client, err = newOpenAIClient(key)
	case llm.ProviderOllama:
		client, err = newOllamaClient(key)
	default:
		err = fmt.Errorf("unknown provider: %s", key.Provider)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s client: %w", key.Provider, err)
	}

	return llm.WrapWithMiddleware(client, llm.NewLoggingMiddleware(logger, key.Provider)), key, nil
}
