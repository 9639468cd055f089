package config

import (
	"os"

	"github.com/aschepis/backscratcher/editord/llm"
	llmgemini "github.com/aschepis/backscratcher/editord/llm/gemini"
)

// GeminiConfig represents configuration for the Gemini LLM provider.
type GeminiConfig struct {
	APIKey  string `yaml:"api_key,omitempty"`  // Gemini API key
	BaseURL string `yaml:"base_url,omitempty"` // Custom base URL (default: generativelanguage.googleapis.com)
	Model   string `yaml:"model,omitempty"`    // Default model name
}

func applyGeminiEnv(cfg *GeminiConfig) {
	if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		cfg.APIKey = apiKey
	}
	if baseURL := os.Getenv("GEMINI_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		cfg.Model = model
	}
}

func newGeminiClient(key *llm.ClientKey) (*llmgemini.GeminiClient, error) {
	return llmgemini.NewGeminiClient(key.APIKey, key.BaseURL, key.Model)
}
