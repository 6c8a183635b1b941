package llm

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// NewProvider creates a Provider from configuration.
// It returns the provider wrapped with timeout and logging middleware.
// recorder may be nil to disable the request log.
func NewProvider(ctx context.Context, cfg Config, log *zap.Logger, recorder EventRecorder) (Provider, error) {
	var base Provider
	var err error

	switch cfg.Provider {
	case "gemini":
		base, err = NewGeminiProvider(ctx, cfg.Gemini)
	case "openai":
		base, err = NewOpenAIProvider(cfg.OpenAI)
	case "anthropic":
		base, err = NewAnthropicProvider(cfg.Anthropic)
	case "openrouter":
		base, err = NewOpenRouterProvider(cfg.OpenRouter)
	case "mock":
		base = NewMockProvider()
	default:
		return nil, fmt.Errorf("unknown LLM provider: %q", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("initializing %s provider: %w", cfg.Provider, err)
	}

	// Wrap with middleware: caller → timeout → logging → base
	logged := WithLogging(base, cfg.Provider, log, recorder)
	return WithTimeout(logged, cfg.Timeout), nil
}
