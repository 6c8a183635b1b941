// Package result shows a generated passage with its questions and handles
// answer reveal, document export and printing.
package result

import (
	"fmt"
	"os"
	"path/filepath"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lezen/internal/export"
	"github.com/abhisek/lezen/internal/reading"
	"github.com/abhisek/lezen/internal/router"
	"github.com/abhisek/lezen/internal/screen"
	"github.com/abhisek/lezen/internal/session"
	"github.com/abhisek/lezen/internal/ui/layout"
)

// Status messages.
const (
	MsgExportUnavailable = "Exporteren is niet beschikbaar."
	msgSaved             = "Opgeslagen: %s"
	msgExportFailed      = "Exporteren mislukt: %v"
)

// Deps are the collaborators of the result screen.
type Deps struct {
	Session *session.Session

	// Documents renders worksheet and answer-key downloads (DOCX).
	// Nil disables w and k.
	Documents export.Exporter

	// Printer renders the printable worksheet (plain text). Nil disables p.
	Printer export.Exporter

	// Dir receives exported files. Empty means the working directory.
	Dir string
}

// exportDoneMsg reports a finished export.
type exportDoneMsg struct {
	path string
	err  error
}

// Screen displays one Content.
type Screen struct {
	deps     Deps
	content  *reading.Content
	revealed []bool
	cursor   int
	offset   int
	follow   bool
	status   string
}

var _ screen.Screen = (*Screen)(nil)
var _ screen.KeyHintProvider = (*Screen)(nil)

// New creates the result screen for content.
func New(deps Deps, content *reading.Content) *Screen {
	return &Screen{
		deps:     deps,
		content:  content,
		revealed: make([]bool, len(content.Questions)),
	}
}

func (s *Screen) Init() tea.Cmd {
	return nil
}

func (s *Screen) Title() string {
	return s.content.Title
}

func (s *Screen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scrollen"},
		{Key: "Tab", Description: "Vraag"},
		{Key: "r", Description: "Toon antwoord"},
		{Key: "a", Description: "Alle antwoorden"},
		{Key: "w/k", Description: "Werkblad/antwoorden"},
		{Key: "p", Description: "Print"},
		{Key: "n", Description: "Nieuwe tekst"},
	}
}

// Revealed reports whether the answer of question i (0-based) is shown.
func (s *Screen) Revealed(i int) bool {
	return i >= 0 && i < len(s.revealed) && s.revealed[i]
}

// Status returns the last status line.
func (s *Screen) Status() string {
	return s.status
}

func (s *Screen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case exportDoneMsg:
		if msg.err != nil {
			s.status = fmt.Sprintf(msgExportFailed, msg.err)
		} else {
			s.status = fmt.Sprintf(msgSaved, msg.path)
		}
		return s, nil

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *Screen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	n := len(s.content.Questions)

	switch key := msg.String(); key {
	case "up":
		s.scroll(-1)
	case "down":
		s.scroll(1)
	case "pgup":
		s.scroll(-10)
	case "pgdown", "space":
		s.scroll(10)
	case "home":
		s.offset = 0
	case "tab", "right":
		if n > 0 {
			s.moveCursor((s.cursor + 1) % n)
		}
	case "shift+tab", "left":
		if n > 0 {
			s.moveCursor((s.cursor - 1 + n) % n)
		}
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		if i := int(key[0] - '1'); i < n {
			s.moveCursor(i)
		}
	case "r", "enter":
		if n > 0 {
			s.revealed[s.cursor] = !s.revealed[s.cursor]
		}
	case "a":
		all := true
		for _, r := range s.revealed {
			all = all && r
		}
		for i := range s.revealed {
			s.revealed[i] = !all
		}
	case "w":
		return s, s.export(s.deps.Documents, export.Worksheet)
	case "k":
		return s, s.export(s.deps.Documents, export.AnswerKey)
	case "p":
		return s, s.export(s.deps.Printer, export.Worksheet)
	case "n", "esc":
		if s.deps.Session != nil {
			s.deps.Session.Reset()
		}
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}
	return s, nil
}

func (s *Screen) scroll(delta int) {
	s.offset += delta
	if s.offset < 0 {
		s.offset = 0
	}
	s.follow = false
}

func (s *Screen) moveCursor(i int) {
	s.cursor = i
	s.follow = true
}

// export writes the document for v through e into the export directory.
func (s *Screen) export(e export.Exporter, v export.Variant) tea.Cmd {
	if err := export.Check(e); err != nil {
		s.status = MsgExportUnavailable
		return nil
	}
	s.status = ""

	doc := export.FromContent(s.content)
	dir := s.deps.Dir
	return func() tea.Msg {
		path, err := writeDocument(e, doc, v, dir)
		return exportDoneMsg{path: path, err: err}
	}
}

func writeDocument(e export.Exporter, doc export.Document, v export.Variant, dir string) (string, error) {
	data, err := e.Export(doc, v)
	if err != nil {
		return "", err
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, export.Filename(doc, v, e.Extension()))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}
