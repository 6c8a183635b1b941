package llm

import "errors"

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// NewOpenRouterProvider targets the OpenAI-compatible OpenRouter API.
// Model IDs such as "google/gemini-2.5-pro" are passed through unchanged.
func NewOpenRouterProvider(cfg OpenRouterConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openrouter API key is required")
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultOpenRouterBaseURL
	}
	return newChatProvider(cfg.APIKey, baseURL, cfg.Model), nil
}
