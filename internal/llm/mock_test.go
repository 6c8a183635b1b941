package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestMockProvider_Queue(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Err: &ErrRateLimit{}},
	)
	mock.AddResponse(MockResponse{Content: json.RawMessage(`{"c":3}`)})
	ctx := context.Background()

	first, err := mock.Generate(ctx, Request{System: "eerste"})
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if first.Text() != `{"a":1}` || first.Usage.InputTokens != 10 || first.StopReason != "end" || first.Model != "mock" {
		t.Errorf("first response = %+v", first)
	}

	var rl *ErrRateLimit
	if _, err := mock.Generate(ctx, Request{System: "tweede"}); !errors.As(err, &rl) {
		t.Errorf("second: expected ErrRateLimit, got %T", err)
	}

	third, err := mock.Generate(ctx, Request{System: "derde"})
	if err != nil || third.Text() != `{"c":3}` {
		t.Errorf("third: %v, %v", third, err)
	}

	var unavail *ErrProviderUnavailable
	if _, err := mock.Generate(ctx, Request{}); !errors.As(err, &unavail) {
		t.Errorf("empty queue: expected ErrProviderUnavailable, got %T", err)
	}

	if mock.CallCount() != 4 {
		t.Errorf("call count = %d, want 4", mock.CallCount())
	}
	if mock.Calls[1].System != "tweede" {
		t.Errorf("second call system = %q", mock.Calls[1].System)
	}
}

func TestMockProvider_LastCall(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`)})
	if _, ok := mock.LastCall(); ok {
		t.Fatal("expected no last call before Generate")
	}
	mock.Generate(context.Background(), Request{System: "x"})
	if got, ok := mock.LastCall(); !ok || got.System != "x" {
		t.Fatalf("last call = %+v, %v", got, ok)
	}
}

func TestMockProvider_DelayHonoursContext(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{}`), Delay: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := mock.Generate(ctx, Request{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got: %v", err)
	}
}
