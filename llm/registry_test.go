package llm

import (
	"testing"
)

func TestProviderRegistry_IsProviderEnabled(t *testing.T) {
	registry := NewProviderRegistry(&ProviderConfig{}, []string{"gemini", "ollama"})

	if !registry.IsProviderEnabled("gemini") {
		t.Error("gemini should be enabled")
	}
	if !registry.IsProviderEnabled("ollama") {
		t.Error("ollama should be enabled")
	}
	if registry.IsProviderEnabled("openai") {
		t.Error("openai should not be enabled")
	}
}

func TestProviderRegistry_IsProviderConfigured(t *testing.T) {
	tests := []struct {
		name     string
		provider string
		cfg      ProviderConfig
		want     bool
	}{
		{name: "gemini without key", provider: ProviderGemini, want: false},
		{name: "gemini with key", provider: ProviderGemini, cfg: ProviderConfig{GeminiAPIKey: "k"}, want: true},
		{name: "anthropic without key", provider: ProviderAnthropic, want: false},
		{name: "anthropic with key", provider: ProviderAnthropic, cfg: ProviderConfig{AnthropicAPIKey: "k"}, want: true},
		{name: "openai without key", provider: ProviderOpenAI, want: false},
		{name: "openai with key", provider: ProviderOpenAI, cfg: ProviderConfig{OpenAIAPIKey: "k"}, want: true},
		{name: "ollama without model", provider: ProviderOllama, want: false},
		{name: "ollama with model", provider: ProviderOllama, cfg: ProviderConfig{OllamaModel: "llama3.2:3b"}, want: true},
		{name: "unknown provider", provider: "bard", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			registry := NewProviderRegistry(&cfg, []string{tt.provider})
			if got := registry.IsProviderConfigured(tt.provider); got != tt.want {
				t.Errorf("IsProviderConfigured(%q) = %v; want %v", tt.provider, got, tt.want)
			}
		})
	}
}

func TestProviderRegistry_Resolve_UsesPreferenceOrder(t *testing.T) {
	registry := NewProviderRegistry(&ProviderConfig{
		GeminiAPIKey:    "gemini-key",
		AnthropicAPIKey: "anthropic-key",
	}, []string{ProviderAnthropic, ProviderGemini})

	key, err := registry.Resolve()
	if err != nil {
		t.Fatalf("Failed to resolve config: %v", err)
	}
	if key.Provider != ProviderAnthropic {
		t.Errorf("Expected provider 'anthropic', got '%s'", key.Provider)
	}
	if key.Model != DefaultAnthropicModel {
		t.Errorf("Expected default model %q, got %q", DefaultAnthropicModel, key.Model)
	}
}

func TestProviderRegistry_Resolve_SkipsUnconfigured(t *testing.T) {
	registry := NewProviderRegistry(&ProviderConfig{
		GeminiAPIKey: "gemini-key",
		GeminiModel:  "gemini-1.5-pro",
	}, []string{ProviderOpenAI, ProviderGemini})

	key, err := registry.Resolve()
	if err != nil {
		t.Fatalf("Failed to resolve config: %v", err)
	}
	if key.Provider != ProviderGemini {
		t.Errorf("Expected provider 'gemini' (fallback), got '%s'", key.Provider)
	}
	if key.Model != "gemini-1.5-pro" {
		t.Errorf("Expected configured model, got %q", key.Model)
	}
	if key.APIKey != "gemini-key" {
		t.Errorf("Expected API key to be carried over, got %q", key.APIKey)
	}
}

func TestProviderRegistry_Resolve_OllamaDefaultsHost(t *testing.T) {
	registry := NewProviderRegistry(&ProviderConfig{OllamaModel: "llama3.2:3b"}, []string{ProviderOllama})

	key, err := registry.Resolve()
	if err != nil {
		t.Fatalf("Failed to resolve config: %v", err)
	}
	if key.Host != DefaultOllamaHost {
		t.Errorf("Expected host %q, got %q", DefaultOllamaHost, key.Host)
	}
}

func TestProviderRegistry_Resolve_NoAvailableProvider(t *testing.T) {
	registry := NewProviderRegistry(&ProviderConfig{}, []string{})
	if _, err := registry.Resolve(); err == nil {
		t.Error("Expected error when no providers are enabled")
	}

	registry = NewProviderRegistry(&ProviderConfig{}, []string{ProviderGemini, ProviderOpenAI})
	if _, err := registry.Resolve(); err == nil {
		t.Error("Expected error when no enabled provider is configured")
	}
}

func TestProviderRegistry_EnabledProvidersDeduplicates(t *testing.T) {
	registry := NewProviderRegistry(nil, []string{ProviderGemini, ProviderOllama, ProviderGemini})
	got := registry.EnabledProviders()
	if len(got) != 2 || got[0] != ProviderGemini || got[1] != ProviderOllama {
		t.Errorf("Expected [gemini ollama], got %v", got)
	}
}
