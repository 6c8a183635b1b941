package llm

import (
	"fmt"
	"os"
	"time"
)

// Config holds all LLM provider configuration.
type Config struct {
	// Provider selects which LLM provider to use.
	// Values: "gemini", "openai", "anthropic", "openrouter", "mock"
	Provider string

	Gemini     GeminiConfig
	OpenAI     OpenAIConfig
	Anthropic  AnthropicConfig
	OpenRouter OpenRouterConfig

	// Timeout bounds a single model request. Requests are never retried.
	// Default: 90s.
	Timeout time.Duration

	// MaxTokens caps the response size. Default: 8192.
	MaxTokens int

	// Temperature is passed through to the provider. Default: 0.7.
	Temperature float64
}

// GeminiConfig holds Gemini-specific configuration.
type GeminiConfig struct {
	APIKey  string
	Model   string // Default: "gemini-pro"
	BaseURL string // Optional. Override for proxies and tests.
}

// OpenAIConfig holds OpenAI-specific configuration.
type OpenAIConfig struct {
	APIKey  string
	Model   string // Default: "gpt-4o-mini"
	BaseURL string // Optional. Override for OpenRouter or compatible APIs.
}

// AnthropicConfig holds Anthropic-specific configuration.
type AnthropicConfig struct {
	APIKey  string
	Model   string // Default: "claude-sonnet"
	BaseURL string // Optional. Override for proxies and tests.
}

// OpenRouterConfig holds OpenRouter-specific configuration.
type OpenRouterConfig struct {
	APIKey  string
	Model   string // Default: "google/gemini-2.5-pro"
	BaseURL string // Default: "https://openrouter.ai/api/v1"
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider: "gemini",
		Gemini: GeminiConfig{
			Model: "gemini-pro",
		},
		OpenAI: OpenAIConfig{
			Model: "gpt-4o-mini",
		},
		Anthropic: AnthropicConfig{
			Model: "claude-sonnet",
		},
		OpenRouter: OpenRouterConfig{
			Model: "google/gemini-2.5-pro",
		},
		Timeout:     90 * time.Second,
		MaxTokens:   8192,
		Temperature: 0.7,
	}
}

// keyFallbacks lists the well-known env vars probed for each provider when
// no key was configured explicitly. API_KEY is the variable older
// deployments of the worksheet generator used for the Gemini key.
var keyFallbacks = map[string][]string{
	"gemini":     {"GEMINI_API_KEY", "API_KEY"},
	"openai":     {"OPENAI_API_KEY"},
	"anthropic":  {"ANTHROPIC_API_KEY"},
	"openrouter": {"OPENROUTER_API_KEY"},
}

// discoveryOrder is the provider priority used by DiscoverConfig.
var discoveryOrder = []string{"gemini", "openai", "anthropic", "openrouter"}

// FillKeyFromEnv sets the selected provider's API key from the standard
// env vars if it is still empty. It reports whether a key is now present.
func (c *Config) FillKeyFromEnv() bool {
	key := c.apiKey(c.Provider)
	if key == nil {
		return c.Provider == "mock"
	}
	if *key != "" {
		return true
	}
	for _, name := range keyFallbacks[c.Provider] {
		if v := os.Getenv(name); v != "" {
			*key = v
			return true
		}
	}
	return false
}

// DiscoverConfig probes standard API key env vars in priority order
// (Gemini → OpenAI → Anthropic → OpenRouter) and returns a Config for the
// first provider whose key is found. Returns (Config{}, false) if none found.
func DiscoverConfig() (Config, bool) {
	for _, provider := range discoveryOrder {
		cfg := DefaultConfig()
		cfg.Provider = provider
		if cfg.FillKeyFromEnv() {
			return cfg, true
		}
	}
	return Config{}, false
}

// Validate checks that the selected provider has its required API key set.
func (c Config) Validate() error {
	switch c.Provider {
	case "gemini", "openai", "anthropic", "openrouter":
		if *c.apiKey(c.Provider) == "" {
			return fmt.Errorf("an API key is required for the %s provider (set llm.%s.api_key or %s)",
				c.Provider, c.Provider, keyFallbacks[c.Provider][0])
		}
	case "mock":
		// No API key needed.
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("llm timeout must be positive, got %s", c.Timeout)
	}
	return nil
}

// apiKey returns a pointer to the key field of the named provider, or nil
// for providers without a key.
func (c *Config) apiKey(provider string) *string {
	switch provider {
	case "gemini":
		return &c.Gemini.APIKey
	case "openai":
		return &c.OpenAI.APIKey
	case "anthropic":
		return &c.Anthropic.APIKey
	case "openrouter":
		return &c.OpenRouter.APIKey
	}
	return nil
}

// ModelName returns the configured model name of the selected provider.
func (c Config) ModelName() string {
	switch c.Provider {
	case "gemini":
		return c.Gemini.Model
	case "openai":
		return c.OpenAI.Model
	case "anthropic":
		return c.Anthropic.Model
	case "openrouter":
		return c.OpenRouter.Model
	}
	return c.Provider
}
