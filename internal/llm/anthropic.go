package llm

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicModels are the short names accepted in llm.anthropic.model.
var anthropicModels = map[string]string{
	"claude-sonnet": "claude-sonnet-4-5-20250929",
	"claude-haiku":  "claude-haiku-4-5-20251001",
}

// The Messages API requires an explicit output limit.
const anthropicDefaultMaxTokens = 8192

// AnthropicProvider calls the Anthropic Messages API with structured
// JSON output.
type AnthropicProvider struct {
	client anthropic.Client
	model  string
}

func NewAnthropicProvider(cfg AnthropicConfig) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("anthropic API key is required")
	}

	// Retries are off: a failed generation is reported, never repeated.
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &AnthropicProvider{
		client: anthropic.NewClient(opts...),
		model:  resolveModel(cfg.Model, anthropicModels),
	}, nil
}

func (p *AnthropicProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	msg, err := p.client.Messages.New(ctx, p.params(req))
	if err != nil {
		var apiErr *anthropic.Error
		status := 0
		if errors.As(err, &apiErr) {
			status = apiErr.StatusCode
		}
		return nil, classify(ctx, "anthropic", err, status)
	}

	var text string
	for _, block := range msg.Content {
		if block.Type == "text" {
			text = block.Text
			break
		}
	}
	if text == "" {
		return nil, &ErrInvalidResponse{Err: errors.New("anthropic returned no text block")}
	}
	content := json.RawMessage(text)
	if msg.StopReason == anthropic.StopReasonMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}

	in, out := int(msg.Usage.InputTokens), int(msg.Usage.OutputTokens)
	return &Response{
		Content:    content,
		Usage:      Usage{InputTokens: in, OutputTokens: out, TotalTokens: in + out},
		Model:      string(msg.Model),
		StopReason: "end",
	}, nil
}

func (p *AnthropicProvider) ModelID() string {
	return p.model
}

func (p *AnthropicProvider) params(req Request) anthropic.MessageNewParams {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = anthropicDefaultMaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(p.model),
		MaxTokens: int64(maxTokens),
	}
	for _, m := range req.Messages {
		block := anthropic.NewTextBlock(m.Content)
		if m.Role == RoleAssistant {
			params.Messages = append(params.Messages, anthropic.NewAssistantMessage(block))
		} else {
			params.Messages = append(params.Messages, anthropic.NewUserMessage(block))
		}
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.Schema != nil {
		params.OutputConfig = anthropic.OutputConfigParam{
			Format: anthropic.JSONOutputFormatParam{Schema: req.Schema.Definition},
		}
	}
	return params
}

// resolveModel maps a short model name to its provider ID. Names not in
// models are treated as full IDs.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
