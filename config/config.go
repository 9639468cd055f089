package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/aschepis/backscratcher/editord/convert"
	"github.com/aschepis/backscratcher/editord/llm"
	"github.com/aschepis/backscratcher/editord/server"
)

// ServerSettings holds the HTTP listener settings.
type ServerSettings struct {
	Addr           string   `yaml:"addr,omitempty"`            // Listen address (default: ":8000")
	AllowedOrigins []string `yaml:"allowed_origins,omitempty"` // CORS origins (default: http://localhost:3000)
}

// ConversionConfig holds per-operation generation settings.
type ConversionConfig struct {
	Model          string   `yaml:"model,omitempty"` // Overrides the provider model for every conversion
	Temperature    *float64 `yaml:"temperature,omitempty"`
	LatexMaxTokens int64    `yaml:"latex_max_tokens,omitempty"`
	BlockMaxTokens int64    `yaml:"block_max_tokens,omitempty"`
	TableMaxTokens int64    `yaml:"table_max_tokens,omitempty"`
}

// Config represents the editord configuration.
type Config struct {
	Server ServerSettings `yaml:"server,omitempty"`

	// LLM provider configurations, tried in LLMProviders order
	LLMProviders []string        `yaml:"llm_providers,omitempty"`
	Gemini       GeminiConfig    `yaml:"gemini,omitempty"`
	Anthropic    AnthropicConfig `yaml:"anthropic,omitempty"`
	OpenAI       OpenAIConfig    `yaml:"openai,omitempty"`
	Ollama       OllamaConfig    `yaml:"ollama,omitempty"`

	Conversion ConversionConfig `yaml:"conversion,omitempty"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: ServerSettings{
			Addr:           server.DefaultAddr,
			AllowedOrigins: append([]string(nil), server.DefaultAllowedOrigins...),
		},
		LLMProviders: []string{llm.ProviderGemini, llm.ProviderAnthropic, llm.ProviderOpenAI, llm.ProviderOllama},
		Gemini: GeminiConfig{
			Model: llm.DefaultGeminiModel,
		},
		Ollama: OllamaConfig{
			Host: llm.DefaultOllamaHost,
		},
		Conversion: ConversionConfig{
			Temperature:    llm.Float(convert.DefaultTemperature),
			LatexMaxTokens: convert.DefaultLatexMaxTokens,
			BlockMaxTokens: convert.DefaultBlockMaxTokens,
			TableMaxTokens: convert.DefaultTableMaxTokens,
		},
	}
}

// GetConfigPath returns the default config file path.
// Can be overridden via EDITORD_CONFIG_PATH environment variable.
func GetConfigPath() string {
	if envPath := os.Getenv("EDITORD_CONFIG_PATH"); envPath != "" {
		return expandPath(envPath)
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./.editord/config.yaml"
	}
	return filepath.Join(homeDir, ".editord", "config.yaml")
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(homeDir, path[2:])
	}
	return path
}

// LoadDotEnv loads variables from the given .env files (default ".env").
// Missing files are skipped and variables already set in the environment win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %q: %w", path, err)
		}
	}
	return nil
}

// Load builds the configuration from defaults, the YAML file at path (if it
// exists) and environment overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path != "" {
		expandedPath := expandPath(path)
		if _, err := os.Stat(expandedPath); err == nil {
			data, err := os.ReadFile(expandedPath) //#nosec 304 -- intentional file read for config
			if err != nil {
				return nil, fmt.Errorf("failed to read config file %q: %w", expandedPath, err)
			}
			if err := mergeYAML(&cfg, data); err != nil {
				return nil, err
			}
		}
	}

	applyEnv(&cfg)
	cfg.clearPlaceholderKeys()
	return &cfg, nil
}

// mergeYAML merges a YAML document onto cfg, with the document's non-empty
// values taking precedence.
func mergeYAML(cfg *Config, data []byte) error {
	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	if err := mergo.Merge(cfg, fileConfig, mergo.WithOverride); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if addr := os.Getenv("EDITORD_ADDR"); addr != "" {
		cfg.Server.Addr = addr
	}
	if origins := splitList(os.Getenv("EDITORD_ALLOWED_ORIGINS")); len(origins) > 0 {
		cfg.Server.AllowedOrigins = origins
	}
	if providers := splitList(os.Getenv("EDITORD_LLM_PROVIDERS")); len(providers) > 0 {
		cfg.LLMProviders = providers
	}
	applyGeminiEnv(&cfg.Gemini)
	applyAnthropicEnv(&cfg.Anthropic)
	applyOpenAIEnv(&cfg.OpenAI)
	applyOllamaEnv(&cfg.Ollama)
}

func splitList(value string) []string {
	var out []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// IsPlaceholderKey reports whether key is a template value such as
// "YOUR_GEMINI_API_KEY_HERE" rather than a real credential.
func IsPlaceholderKey(key string) bool {
	return strings.HasPrefix(key, "YOUR_") && strings.HasSuffix(key, "_HERE")
}

func (c *Config) clearPlaceholderKeys() {
	for _, key := range []*string{&c.Gemini.APIKey, &c.Anthropic.APIKey, &c.OpenAI.APIKey} {
		if IsPlaceholderKey(*key) {
			*key = ""
		}
	}
}

// ProviderConfig returns the provider settings in the form the LLM registry expects.
func (c *Config) ProviderConfig() *llm.ProviderConfig {
	return &llm.ProviderConfig{
		GeminiAPIKey:    c.Gemini.APIKey,
		GeminiBaseURL:   c.Gemini.BaseURL,
		GeminiModel:     c.Gemini.Model,
		AnthropicAPIKey: c.Anthropic.APIKey,
		AnthropicModel:  c.Anthropic.Model,
		OllamaHost:      c.Ollama.Host,
		OllamaModel:     c.Ollama.Model,
		OpenAIAPIKey:    c.OpenAI.APIKey,
		OpenAIBaseURL:   c.OpenAI.BaseURL,
		OpenAIModel:     c.OpenAI.Model,
		OpenAIOrg:       c.OpenAI.Organization,
	}
}

// ConvertConfig returns the conversion service settings.
func (c *Config) ConvertConfig(logger zerolog.Logger) convert.Config {
	return convert.Config{
		Model:          c.Conversion.Model,
		Temperature:    c.Conversion.Temperature,
		LatexMaxTokens: c.Conversion.LatexMaxTokens,
		BlockMaxTokens: c.Conversion.BlockMaxTokens,
		TableMaxTokens: c.Conversion.TableMaxTokens,
		Logger:         logger,
	}
}

// ServerConfig returns the HTTP server settings.
func (c *Config) ServerConfig(logger zerolog.Logger) server.Config {
	return server.Config{
		Addr:           c.Server.Addr,
		AllowedOrigins: c.Server.AllowedOrigins,
		Logger:         logger,
	}
}

// PlaceholderGeminiKey is written by WriteDefault in place of a real key.
const PlaceholderGeminiKey = "YOUR_GEMINI_API_KEY_HERE"

// ErrConfigExists is returned by WriteDefault when the file is already present.
var ErrConfigExists = errors.New("config file already exists")

// WriteDefault writes the built-in configuration to path as a starting point,
// with a placeholder Gemini key. An existing file is kept unless force is set.
func WriteDefault(path string, force bool) error {
	if _, err := os.Stat(expandPath(path)); err == nil && !force {
		return fmt.Errorf("%w: %s", ErrConfigExists, path)
	}
	cfg := Defaults()
	cfg.Gemini.APIKey = PlaceholderGeminiKey
	return SaveConfig(&cfg, path)
}

// SaveConfig saves the configuration to the specified path.
func SaveConfig(cfg *Config, path string) error {
	expandedPath := expandPath(path)

	dir := filepath.Dir(expandedPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(expandedPath, data, 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
