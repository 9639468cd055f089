package config

import (
	"os"

	"github.com/aschepis/backscratcher/editord/llm"
	llmopenai "github.com/aschepis/backscratcher/editord/llm/openai"
)

// OpenAIConfig represents configuration for OpenAI LLM provider.
type OpenAIConfig struct {
	APIKey       string `yaml:"api_key,omitempty"`      // OpenAI API key
	BaseURL      string `yaml:"base_url,omitempty"`     // Custom base URL (default: official API)
	Model        string `yaml:"model,omitempty"`        // Default model name
	Organization string `yaml:"organization,omitempty"` // Organization ID
}

func applyOpenAIEnv(cfg *OpenAIConfig) {
	if apiKey := os.Getenv("OPENAI_API_KEY"); apiKey != "" {
		cfg.APIKey = apiKey
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model := os.Getenv("OPENAI_MODEL"); model != "" {
		cfg.Model = model
	}
	if org := os.Getenv("OPENAI_ORG_ID"); org != "" {
		cfg.Organization = org
	}
}

func newOpenAIClient(key *llm.ClientKey) (*llmopenai.OpenAIClient, error) {
	return llmopenai.NewOpenAIClient(key.APIKey, key.BaseURL, key.Model, key.Organization)
}
