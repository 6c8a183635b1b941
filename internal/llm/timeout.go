package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when a request exceeds the configured timeout.
var ErrTimeout = errors.New("model request timed out")

// TimeoutProvider is a decorator that bounds every request with a deadline.
// It makes exactly one call to the inner provider.
type TimeoutProvider struct {
	inner   Provider
	timeout time.Duration
}

// WithTimeout wraps a Provider so each Generate call is cancelled after d.
// A non-positive d leaves the caller's context untouched.
func WithTimeout(p Provider, d time.Duration) Provider {
	return &TimeoutProvider{inner: p, timeout: d}
}

func (t *TimeoutProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if t.timeout <= 0 {
		return t.inner.Generate(ctx, req)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	resp, err := t.inner.Generate(ctx, req)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return nil, fmt.Errorf("%w after %s: %w", ErrTimeout, t.timeout, err)
	}
	return resp, err
}

func (t *TimeoutProvider) ModelID() string {
	return t.inner.ModelID()
}
