package config

import (
	"os"

	"github.com/aschepis/backscratcher/editord/llm"
	llmanthropic "github.com/aschepis/backscratcher/editord/llm/anthropic"
)

// AnthropicConfig represents configuration for Anthropic LLM provider.
type AnthropicConfig struct {
	APIKey string `yaml:"api_key,omitempty"` // Anthropic API key
	Model  string `yaml:"model,omitempty"`
}

func applyAnthropicEnv(cfg *AnthropicConfig) {
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		cfg.APIKey = apiKey
	}
	if model := os.Getenv("ANTHROPIC_MODEL"); model != "" {
		cfg.Model = model
	}
}

func newAnthropicClient(key *llm.ClientKey) (*llmanthropic.AnthropicClient, error) {
	return llmanthropic.NewAnthropicClient(key.APIKey, key.Model)
}
