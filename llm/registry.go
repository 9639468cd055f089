package llm

import (
	"fmt"
	"sync"

	"github.com/samber/lo"
)

const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
	ProviderOllama    = "ollama"
	ProviderOpenAI    = "openai"
)

// Default models per provider, used when the configuration leaves the model empty.
const (
	DefaultGeminiModel    = "gemini-2.0-flash"
	DefaultAnthropicModel = "claude-haiku-4-5"
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultOllamaHost     = "http://localhost:11434"
)

// ClientKey uniquely identifies an LLM client configuration.
type ClientKey struct {
	Provider     string
	Model        string
	APIKey       string // For credential-based providers
	Host         string // For Ollama
	BaseURL      string // For Gemini and OpenAI
	Organization string // For OpenAI
}

// ProviderConfig holds the configuration needed for provider registry.
// This avoids import cycles by not importing the config package.
type ProviderConfig struct {
	GeminiAPIKey    string
	GeminiBaseURL   string
	GeminiModel     string
	AnthropicAPIKey string
	AnthropicModel  string
	OllamaHost      string
	OllamaModel     string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
	OpenAIModel     string
	OpenAIOrg       string
}

// ProviderRegistry manages LLM provider selection and configuration resolution.
// Client construction is left to the caller to avoid import cycles.
type ProviderRegistry struct {
	enabledProviders []string // Preference order
	mu               sync.RWMutex
	config           *ProviderConfig
}

// NewProviderRegistry creates a new ProviderRegistry with the given config and enabled providers.
// The order of enabledProviders is the order of preference.
func NewProviderRegistry(providerConfig *ProviderConfig, enabledProviders []string) *ProviderRegistry {
	if providerConfig == nil {
		providerConfig = &ProviderConfig{}
	}
	return &ProviderRegistry{
		enabledProviders: lo.Uniq(enabledProviders),
		config:           providerConfig,
	}
}

// IsProviderEnabled checks if a provider is in the enabled providers list.
func (r *ProviderRegistry) IsProviderEnabled(provider string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return lo.Contains(r.enabledProviders, provider)
}

// IsProviderConfigured checks if a provider has the required configuration (API keys, hosts, etc.).
func (r *ProviderRegistry) IsProviderConfigured(provider string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.isProviderConfiguredUnlocked(provider)
}

// Resolve returns a ClientKey for the first provider that is both enabled and configured.
func (r *ProviderRegistry) Resolve() (*ClientKey, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.enabledProviders) == 0 {
		return nil, fmt.Errorf("no providers enabled")
	}

	for _, provider := range r.enabledProviders {
		if !r.isProviderConfiguredUnlocked(provider) {
			continue
		}
		key, err := r.resolveProviderConfig(provider)
		if err != nil {
			continue
		}
		return key, nil
	}

	return nil, fmt.Errorf("no configured provider among enabled providers %v", r.enabledProviders)
}

// isProviderConfiguredUnlocked is the unlocked version of IsProviderConfigured.
// Must be called with r.mu already locked.
func (r *ProviderRegistry) isProviderConfiguredUnlocked(provider string) bool {
	switch provider {
	case ProviderGemini:
		return r.config.GeminiAPIKey != ""
	case ProviderAnthropic:
		return r.config.AnthropicAPIKey != ""
	case ProviderOllama:
		// Ollama doesn't require an API key, but it does need a model to ask for
		return r.config.OllamaModel != ""
	case ProviderOpenAI:
		return r.config.OpenAIAPIKey != ""
	default:
		return false
	}
}

// resolveProviderConfig resolves provider-specific configuration and returns a ClientKey.
func (r *ProviderRegistry) resolveProviderConfig(provider string) (*ClientKey, error) {
	key := &ClientKey{Provider: provider}

	switch provider {
	case ProviderGemini:
		if r.config.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini API key not configured")
		}
		key.APIKey = r.config.GeminiAPIKey
		key.BaseURL = r.config.GeminiBaseURL
		key.Model = lo.CoalesceOrEmpty(r.config.GeminiModel, DefaultGeminiModel)

	case ProviderAnthropic:
		if r.config.AnthropicAPIKey == "" {
			return nil, fmt.Errorf("anthropic API key not configured")
		}
		key.APIKey = r.config.AnthropicAPIKey
		key.Model = lo.CoalesceOrEmpty(r.config.AnthropicModel, DefaultAnthropicModel)

	case ProviderOllama:
		key.Host = lo.CoalesceOrEmpty(r.config.OllamaHost, DefaultOllamaHost)
		key.Model = r.config.OllamaModel
		if key.Model == "" {
			return nil, fmt.Errorf("ollama model not specified and no default configured")
		}

	case ProviderOpenAI:
		if r.config.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("openai API key not configured")
		}
		key.APIKey = r.config.OpenAIAPIKey
		key.BaseURL = r.config.OpenAIBaseURL
		key.Organization = r.config.OpenAIOrg
		key.Model = lo.CoalesceOrEmpty(r.config.OpenAIModel, DefaultOpenAIModel)

	default:
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}

	return key, nil
}

// EnabledProviders returns the enabled providers in preference order.
func (r *ProviderRegistry) EnabledProviders() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.enabledProviders...)
}
