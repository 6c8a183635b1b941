package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

// openaiModels are the short names accepted in llm.openai.model.
var openaiModels = map[string]string{
	"gpt-4o":      "gpt-4o",
	"gpt-4o-mini": "gpt-4o-mini",
	"gpt-4.1":     "gpt-4.1",
}

// OpenAIProvider calls an OpenAI-compatible chat completions API with a
// strict JSON schema response format. OpenRouter uses it through BaseURL.
type OpenAIProvider struct {
	client *openai.Client
	model  string
}

func NewOpenAIProvider(cfg OpenAIConfig) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai API key is required")
	}
	return newChatProvider(cfg.APIKey, cfg.BaseURL, resolveModel(cfg.Model, openaiModels)), nil
}

// newChatProvider builds a provider for model, used verbatim.
func newChatProvider(apiKey, baseURL, model string) *OpenAIProvider {
	cc := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cc.BaseURL = baseURL
	}
	return &OpenAIProvider{client: openai.NewClientWithConfig(cc), model: model}
}

func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	chatReq, err := p.chatRequest(req)
	if err != nil {
		return nil, err
	}

	resp, err := p.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		var apiErr *openai.APIError
		status := 0
		if errors.As(err, &apiErr) {
			status = apiErr.HTTPStatusCode
		}
		return nil, classify(ctx, "openai", err, status)
	}
	if len(resp.Choices) == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("openai returned no choices")}
	}

	choice := resp.Choices[0]
	content := json.RawMessage(choice.Message.Content)
	switch {
	case choice.FinishReason == openai.FinishReasonLength:
		return nil, &ErrMaxTokensExceeded{Content: content}
	case len(content) == 0:
		return nil, &ErrInvalidResponse{Err: errors.New("openai returned an empty message")}
	}

	return &Response{
		Content: content,
		Usage: Usage{
			InputTokens:  resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
		Model:      resp.Model,
		StopReason: "end",
	}, nil
}

func (p *OpenAIProvider) ModelID() string {
	return p.model
}

func (p *OpenAIProvider) chatRequest(req Request) (openai.ChatCompletionRequest, error) {
	cr := openai.ChatCompletionRequest{
		Model:               p.model,
		MaxCompletionTokens: req.MaxTokens,
		Temperature:         float32(req.Temperature),
	}
	if req.System != "" {
		cr.Messages = append(cr.Messages, openai.ChatCompletionMessage{Role: openai.ChatMessageRoleSystem, Content: req.System})
	}
	for _, m := range req.Messages {
		role := openai.ChatMessageRoleUser
		if m.Role == RoleAssistant {
			role = openai.ChatMessageRoleAssistant
		}
		cr.Messages = append(cr.Messages, openai.ChatCompletionMessage{Role: role, Content: m.Content})
	}

	if req.Schema != nil {
		def, err := json.Marshal(req.Schema.Definition)
		if err != nil {
			return cr, fmt.Errorf("encode schema %q: %w", req.Schema.Name, err)
		}
		cr.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONSchema,
			JSONSchema: &openai.ChatCompletionResponseFormatJSONSchema{
				Name:        req.Schema.Name,
				Description: req.Schema.Description,
				Schema:      json.RawMessage(def),
				Strict:      true,
			},
		}
	}
	return cr, nil
}
