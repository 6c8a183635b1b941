package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// ErrRateLimit indicates the provider returned a rate limit error (429).
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse indicates the model returned content that is not
// usable: no text at all, invalid JSON, or JSON that does not conform to
// the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid model response: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable indicates the provider is down, unreachable, or
// failed the call for any other transport reason.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model provider unavailable: %v", e.Err)
	}
	return "model provider unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded indicates the response was truncated because it
// hit the MaxTokens limit.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return "model response truncated: max tokens exceeded"
}

// classify turns a failed SDK call into a provider error. status is the
// HTTP status reported by the SDK, or 0 when none is known. Context
// cancellation and deadlines are returned as wrapped ctx.Err().
func classify(ctx context.Context, provider string, err error, status int) error {
	if ctx.Err() != nil {
		return fmt.Errorf("%s request: %w", provider, ctx.Err())
	}
	if status == http.StatusTooManyRequests {
		return &ErrRateLimit{Err: err}
	}
	return &ErrProviderUnavailable{Err: err}
}
