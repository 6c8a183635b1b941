package llm

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

const mockModel = "mock"

// MockResponse is one scripted outcome of MockProvider.Generate.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error

	// Delay is waited out before answering; a canceled context ends the
	// wait early with ctx.Err().
	Delay time.Duration
}

// MockProvider answers from a queue of scripted responses, oldest first,
// and keeps every request it received in Calls. An empty queue answers
// ErrProviderUnavailable.
type MockProvider struct {
	mu    sync.Mutex
	queue []MockResponse
	Calls []Request
}

func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{queue: responses}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	next, ok := m.record(req)
	if !ok {
		return nil, &ErrProviderUnavailable{}
	}

	if next.Delay > 0 {
		timer := time.NewTimer(next.Delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if next.Err != nil {
		return nil, next.Err
	}
	return &Response{Content: next.Content, Usage: next.Usage, Model: mockModel, StopReason: "end"}, nil
}

// record appends req to Calls and pops the next scripted response.
func (m *MockProvider) record(req Request) (MockResponse, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if len(m.queue) == 0 {
		return MockResponse{}, false
	}
	next := m.queue[0]
	m.queue = m.queue[1:]
	return next, true
}

func (m *MockProvider) ModelID() string { return mockModel }

// AddResponse queues resp after the already scripted responses.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	m.queue = append(m.queue, resp)
	m.mu.Unlock()
}

// LastCall returns the latest request received.
func (m *MockProvider) LastCall() (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := len(m.Calls); n > 0 {
		return m.Calls[n-1], true
	}
	return Request{}, false
}

func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
