package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"google.golang.org/genai"
)

// geminiModels are the short names accepted in llm.gemini.model.
var geminiModels = map[string]string{
	"gemini-pro":   "gemini-2.5-pro",
	"gemini-flash": "gemini-2.5-flash",
	"gemini-lite":  "gemini-2.5-flash-lite",
}

// geminiTypes maps JSON Schema type names to Gemini schema types. Unknown
// names fall back to STRING.
var geminiTypes = map[string]genai.Type{
	"string":  genai.TypeString,
	"number":  genai.TypeNumber,
	"integer": genai.TypeInteger,
	"boolean": genai.TypeBoolean,
	"array":   genai.TypeArray,
	"object":  genai.TypeObject,
}

// GeminiProvider calls the Gemini API in JSON mode.
type GeminiProvider struct {
	client *genai.Client
	model  string
}

func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("gemini API key is required")
	}

	cc := &genai.ClientConfig{APIKey: cfg.APIKey, Backend: genai.BackendGeminiAPI}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client, model: resolveModel(cfg.Model, geminiModels)}, nil
}

func (p *GeminiProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	result, err := p.client.Models.GenerateContent(ctx, p.model, geminiContents(req.Messages), geminiConfig(req))
	if err != nil {
		return nil, classify(ctx, "gemini", err, geminiStatus(err))
	}

	text := result.Text()
	if text == "" {
		return nil, &ErrInvalidResponse{Err: errors.New("gemini returned no text")}
	}
	if truncated(result) {
		return nil, &ErrMaxTokensExceeded{Content: json.RawMessage(text)}
	}

	resp := &Response{Content: json.RawMessage(text), Model: p.model, StopReason: "end"}
	if u := result.UsageMetadata; u != nil {
		resp.Usage = Usage{
			InputTokens:  int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
			TotalTokens:  int(u.TotalTokenCount),
		}
	}
	return resp, nil
}

func (p *GeminiProvider) ModelID() string {
	return p.model
}

func geminiConfig(req Request) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxTokens)
	}
	if req.Temperature > 0 {
		cfg.Temperature = genai.Ptr(float32(req.Temperature))
	}
	if req.System != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = buildGeminiSchema(req.Schema.Definition)
	}
	return cfg
}

func geminiContents(msgs []Message) []*genai.Content {
	contents := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		role := genai.Role(genai.RoleUser)
		if m.Role == RoleAssistant {
			role = genai.RoleModel
		}
		contents = append(contents, genai.NewContentFromText(m.Content, role))
	}
	return contents
}

// buildGeminiSchema translates the subset of JSON Schema Gemini accepts:
// type, description, properties, required, enum and items. Other keywords
// such as additionalProperties are left to ValidateJSON.
func buildGeminiSchema(def map[string]any) *genai.Schema {
	s := &genai.Schema{
		Required: stringList(def["required"]),
		Enum:     stringList(def["enum"]),
	}
	if name, ok := def["type"].(string); ok {
		t, known := geminiTypes[name]
		if !known {
			t = genai.TypeString
		}
		s.Type = t
	}
	s.Description, _ = def["description"].(string)

	if props, ok := def["properties"].(map[string]any); ok {
		s.Properties = map[string]*genai.Schema{}
		for name, raw := range props {
			if sub, ok := raw.(map[string]any); ok {
				s.Properties[name] = buildGeminiSchema(sub)
			}
		}
	}
	if items, ok := def["items"].(map[string]any); ok {
		s.Items = buildGeminiSchema(items)
	}
	return s
}

// stringList reads a list of strings from either a Go literal or a decoded
// JSON array.
func stringList(v any) []string {
	if list, ok := v.([]string); ok {
		return append([]string(nil), list...)
	}
	list, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(list))
	for _, e := range list {
		if str, ok := e.(string); ok {
			out = append(out, str)
		}
	}
	return out
}

func truncated(result *genai.GenerateContentResponse) bool {
	return len(result.Candidates) > 0 && result.Candidates[0].FinishReason == genai.FinishReasonMaxTokens
}

// geminiStatus extracts the HTTP status of an API error, which may arrive
// by value or by pointer.
func geminiStatus(err error) int {
	var byValue genai.APIError
	if errors.As(err, &byValue) {
		return byValue.Code
	}
	var byPtr *genai.APIError
	if errors.As(err, &byPtr) {
		return byPtr.Code
	}
	return 0
}
