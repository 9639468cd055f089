package config

import (
	"os"

	"github.com/aschepis/backscratcher/editord/llm"
	llmollama "github.com/aschepis/backscratcher/editord/llm/ollama"
)

// OllamaConfig represents configuration for Ollama LLM provider.
type OllamaConfig struct {
	Host  string `yaml:"host,omitempty"`  // Ollama host (default: "http://localhost:11434")
	Model string `yaml:"model,omitempty"` // Model name; Ollama is skipped while this is empty
}

func applyOllamaEnv(cfg *OllamaConfig) {
	if host := os.Getenv("OLLAMA_HOST"); host != "" {
		cfg.Host = host
	}
	if model := os.Getenv("OLLAMA_MODEL"); model != "" {
		cfg.Model = model
	}
}

func newOllamaClient(key *llm.ClientKey) (*llmollama.OllamaClient, error) {
	return llmollama.NewOllamaClient(key.Host, key.Model)
}
