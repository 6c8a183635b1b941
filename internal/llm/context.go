package llm

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	purposeKey   contextKey = "llm_purpose"
	requestIDKey contextKey = "llm_request_id"
)

// WithPurpose attaches a purpose label to the context for event logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom extracts the purpose label from the context.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok {
		return v
	}
	return "unknown"
}

// WithRequestID attaches a fresh request ID to the context and returns it.
func WithRequestID(ctx context.Context) (context.Context, string) {
	id := uuid.NewString()
	return context.WithValue(ctx, requestIDKey, id), id
}

// RequestIDFrom extracts the request ID from the context, or "".
func RequestIDFrom(ctx context.Context) string {
	if v, ok := ctx.Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
