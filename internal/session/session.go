// Package session holds the presentation state of one generation flow:
// Idle, then Requesting, then Success or Failed. Browser and terminal
// presenters share it to enforce a single outstanding request.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/lezen/internal/reading"
)

// ErrBusy is returned by Begin while a request is outstanding.
var ErrBusy = errors.New("a generation request is already in progress")

// Phase is the current phase of the flow.
type Phase int

const (
	PhaseIdle       Phase = iota // Form shown, nothing requested
	PhaseRequesting              // One request outstanding
	PhaseSuccess                 // Content available
	PhaseFailed                  // Last request failed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseRequesting:
		return "requesting"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is an immutable snapshot of the session.
type State struct {
	Phase Phase

	// Request is the last submitted request. It stays set after a failure
	// so the form can be shown again with the same values.
	Request reading.Request

	// Content is set only in PhaseSuccess.
	Content *reading.Content

	// Err is set only in PhaseFailed.
	Err error
}

// Message returns the user-facing error message, or "" when the state
// carries no error.
func (s State) Message() string {
	if s.Err == nil {
		return ""
	}
	_, msg := reading.Describe(s.Err)
	return msg
}

// Ticket identifies one Begin call. Completing with a stale ticket is a no-op.
type Ticket uint64

// Session is safe for concurrent use.
type Session struct {
	mu      sync.Mutex
	state   State
	attempt Ticket
}

// New returns a session in PhaseIdle with the default request.
func New() *Session {
	return &Session{state: State{Phase: PhaseIdle, Request: reading.DefaultRequest()}}
}

// Begin moves the session to PhaseRequesting.
func (s *Session) Begin(req reading.Request) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase == PhaseRequesting {
		return 0, ErrBusy
	}
	s.attempt++
	s.state = State{Phase: PhaseRequesting, Request: req}
	return s.attempt, nil
}

// Complete records the outcome of the request identified by t. It reports
// whether the outcome was applied; results of a request that was reset
// or superseded are discarded.
func (s *Session) Complete(t Ticket, content *reading.Content, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t != s.attempt || s.state.Phase != PhaseRequesting {
		return false
	}
	switch {
	case err != nil:
		s.state = State{Phase: PhaseFailed, Request: s.state.Request, Err: err}
	case content == nil:
		s.state = State{Phase: PhaseFailed, Request: s.state.Request, Err: &reading.GenerationError{
			Kind: reading.KindMalformed,
			Err:  errors.New("no content"),
		}}
	default:
		s.state = State{Phase: PhaseSuccess, Request: s.state.Request, Content: content}
	}
	return true
}

// Reset returns to PhaseIdle and drops any outstanding request. The last
// submitted request is kept for the form.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.attempt++
	s.state = State{Phase: PhaseIdle, Request: s.state.Request}
}

// DismissError clears a failure and returns to PhaseIdle. Other phases are
// left untouched.
func (s *Session) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase == PhaseFailed {
		s.state = State{Phase: PhaseIdle, Request: s.state.Request}
	}
}

// State returns the current snapshot.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Generate runs one full request through gen: Begin, Generate, Complete.
// It returns ErrBusy without calling gen when a request is outstanding.
func (s *Session) Generate(ctx context.Context, gen reading.Generator, req reading.Request) (*reading.Content, error) {
	t, err := s.Begin(req)
	if err != nil {
		return nil, err
	}
	content, err := gen.Generate(ctx, req)
	s.Complete(t, content, err)
	return content, err
}
