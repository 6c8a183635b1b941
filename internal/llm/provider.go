package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for a generative model call.
// One Generate call is one outbound request to the model service.
type Provider interface {
	// Generate sends a prompt to the model and returns its text payload.
	// When the request carries a Schema the provider asks the service for
	// schema-constrained JSON, but the payload is returned as emitted:
	// callers normalize it (see StripCodeFences) and validate it themselves.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is an optional system instruction.
	System string

	// Messages is the conversation. Reading generation sends a single
	// user message holding the full instruction prompt.
	Messages []Message

	// Schema is the JSON Schema the response must conform to.
	// When set, the provider uses its native structured output mechanism.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Zero leaves the provider default in place.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (schema name for OpenAI, cache key for
	// the compiled validator). Kebab-case, e.g. "reading-comprehension".
	Name string

	// Description is a human-readable description of what this schema
	// represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model's output.
type Response struct {
	// Content is the raw text payload returned by the service. It is
	// expected to be JSON when a Schema was requested, possibly wrapped in
	// Markdown code fences.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Text returns the user-visible text of the response payload.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return string(r.Content)
}
