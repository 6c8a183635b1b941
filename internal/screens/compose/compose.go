// Package compose implements the input form: grade, length, question count
// and topic. Submitting runs one generation and shows the result screen.
package compose

import (
	"context"
	"errors"
	"strconv"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lezen/internal/reading"
	"github.com/abhisek/lezen/internal/router"
	"github.com/abhisek/lezen/internal/screen"
	"github.com/abhisek/lezen/internal/session"
	"github.com/abhisek/lezen/internal/ui/components"
	"github.com/abhisek/lezen/internal/ui/layout"
)

// Form fields in focus order.
const (
	fieldGrade = iota
	fieldLength
	fieldQuestions
	fieldTopic
	fieldSubmit
	fieldCount
)

// Deps are the collaborators of the compose screen.
type Deps struct {
	Generator reading.Generator
	Session   *session.Session

	// NewResult builds the screen pushed after a successful generation.
	NewResult func(*reading.Content) screen.Screen

	// Context is the parent of every generation request. Canceling it
	// aborts an outstanding request. Nil means context.Background().
	Context context.Context
}

// generatedMsg carries the outcome of one generation request.
type generatedMsg struct {
	ticket  session.Ticket
	content *reading.Content
	err     error
}

// Screen is the input form.
type Screen struct {
	deps Deps

	grade     components.Picker
	length    components.Picker
	questions components.TextInput
	topic     components.TextInput
	focus     int

	loader components.Loader
	cancel context.CancelFunc
	errMsg string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)
var _ screen.InputCapturer = (*Screen)(nil)

// New creates the form, prefilled from the session's last request.
func New(deps Deps) *Screen {
	if deps.Context == nil {
		deps.Context = context.Background()
	}
	if deps.Session == nil {
		deps.Session = session.New()
	}

	grades := make([]string, 0, len(reading.Grades()))
	for _, g := range reading.Grades() {
		grades = append(grades, string(g))
	}
	lengths := make([]string, 0, len(reading.Lengths()))
	for _, l := range reading.Lengths() {
		lengths = append(lengths, l.Label())
	}

	s := &Screen{
		deps:      deps,
		grade:     components.NewPicker("Groepsniveau", grades, 0),
		length:    components.NewPicker("Lengte van de tekst", lengths, 0),
		questions: components.NewTextInput("Aantal vragen", "1-10", true, 2),
		topic:     components.NewTextInput("Onderwerp van de tekst", "Bijv. vulkanen, de Romeinen, of vriendschap", false, 120),
		focus:     fieldTopic,
	}
	s.load(deps.Session.State().Request)
	return s
}

// load copies req into the form fields.
func (s *Screen) load(req reading.Request) {
	if !req.Grade.Valid() {
		req.Grade = reading.DefaultGrade
	}
	if !req.Length.Valid() {
		req.Length = reading.DefaultLength
	}
	if req.QuestionCount == 0 {
		req.QuestionCount = reading.DefaultQuestions
	}
	s.grade.Select(string(req.Grade))
	s.length.Select(req.Length.Label())
	s.questions.SetValue(strconv.Itoa(req.QuestionCount))
	s.topic.SetValue(req.Topic)
}

// Init syncs the form with the session and focuses the active field.
func (s *Screen) Init() tea.Cmd {
	st := s.deps.Session.State()
	s.errMsg = st.Message()
	if st.Phase != session.PhaseRequesting {
		s.cancel = nil
	}
	return s.setFocus(s.focus)
}

func (s *Screen) Title() string {
	return "Nieuwe leestekst"
}

func (s *Screen) KeyHints() []layout.KeyHint {
	if s.busy() {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Annuleren"},
			{Key: "Ctrl+C", Description: "Stoppen"},
		}
	}
	hints := []layout.KeyHint{
		{Key: "Tab/↑↓", Description: "Veld"},
		{Key: "←→", Description: "Kiezen"},
		{Key: "Enter", Description: "Genereren"},
	}
	if s.errMsg != "" {
		hints = append(hints, layout.KeyHint{Key: "Esc", Description: "Melding sluiten"})
	}
	return append(hints, layout.KeyHint{Key: "Ctrl+C", Description: "Stoppen"})
}

// CapturesInput reports whether a text field has focus.
func (s *Screen) CapturesInput() bool {
	return !s.busy() && (s.focus == fieldQuestions || s.focus == fieldTopic)
}

func (s *Screen) busy() bool {
	return s.deps.Session.State().Phase == session.PhaseRequesting
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case components.LoaderTickMsg:
		if !s.busy() {
			return s, nil
		}
		s.loader.Advance()
		return s, components.LoaderTick()

	case generatedMsg:
		return s.handleGenerated(msg)

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	return s.forward(msg)
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.busy() {
		// One request at a time: everything except cancel is ignored.
		if key == "esc" {
			if s.cancel != nil {
				s.cancel()
				s.cancel = nil
			}
			s.deps.Session.Reset()
		}
		return s, nil
	}

	switch key {
	case "esc":
		if s.errMsg != "" {
			s.deps.Session.DismissError()
			s.errMsg = ""
		}
		return s, nil
	case "tab", "down":
		return s, s.setFocus((s.focus + 1) % fieldCount)
	case "shift+tab", "up":
		return s, s.setFocus((s.focus - 1 + fieldCount) % fieldCount)
	case "enter":
		if s.focus == fieldTopic || s.focus == fieldSubmit {
			return s.submit()
		}
		return s, s.setFocus(s.focus + 1)
	}

	return s.forward(msg)
}

// forward hands msg to the focused field.
func (s *Screen) forward(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	switch s.focus {
	case fieldGrade:
		s.grade, cmd = s.grade.Update(msg)
	case fieldLength:
		s.length, cmd = s.length.Update(msg)
	case fieldQuestions:
		s.questions, cmd = s.questions.Update(msg)
	case fieldTopic:
		s.topic, cmd = s.topic.Update(msg)
	}
	return s, cmd
}

func (s *Screen) setFocus(field int) tea.Cmd {
	s.focus = field
	s.questions.Blur()
	s.topic.Blur()
	switch field {
	case fieldQuestions:
		return s.questions.Focus()
	case fieldTopic:
		return s.topic.Focus()
	}
	return nil
}

// Request returns the request described by the current form values.
func (s *Screen) Request() reading.Request {
	count, err := s.questions.NumericValue()
	if err != nil {
		count = 0
	}
	length := reading.DefaultLength
	if l, err := reading.ParseLength(s.length.Value()); err == nil {
		length = l
	}
	return reading.Request{
		Grade:         reading.Grade(s.grade.Value()),
		Length:        length,
		QuestionCount: count,
		Topic:         s.topic.Value(),
	}
}

func (s *Screen) submit() (screen.Screen, tea.Cmd) {
	req := s.Request()
	if err := req.Validate(); err != nil {
		_, s.errMsg = reading.Describe(err)
		return s, nil
	}

	ticket, err := s.deps.Session.Begin(req)
	if errors.Is(err, session.ErrBusy) {
		return s, nil
	}
	s.errMsg = ""

	ctx, cancel := context.WithCancel(s.deps.Context)
	s.cancel = cancel
	gen := s.deps.Generator
	return s, tea.Batch(
		func() tea.Msg {
			content, err := gen.Generate(ctx, req)
			return generatedMsg{ticket: ticket, content: content, err: err}
		},
		components.LoaderTick(),
	)
}

func (s *Screen) handleGenerated(msg generatedMsg) (screen.Screen, tea.Cmd) {
	if !s.deps.Session.Complete(msg.ticket, msg.content, msg.err) {
		// Canceled or superseded.
		return s, nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}

	st := s.deps.Session.State()
	if st.Phase == session.PhaseFailed {
		s.errMsg = st.Message()
		return s, nil
	}
	if s.deps.NewResult == nil {
		return s, nil
	}
	next := s.deps.NewResult(st.Content)
	return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
}
