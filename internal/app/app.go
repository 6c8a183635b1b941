// Package app is the root Bubble Tea model of the terminal front end.
package app

import (
	"context"
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lezen/internal/export"
	"github.com/abhisek/lezen/internal/reading"
	"github.com/abhisek/lezen/internal/router"
	"github.com/abhisek/lezen/internal/screen"
	"github.com/abhisek/lezen/internal/screens/compose"
	"github.com/abhisek/lezen/internal/screens/result"
	"github.com/abhisek/lezen/internal/session"
	"github.com/abhisek/lezen/internal/ui/layout"
)

// Options holds the dependencies of the terminal front end.
type Options struct {
	Generator reading.Generator

	// Documents renders DOCX worksheets and answer keys. May be nil.
	Documents export.Exporter

	// Printer renders printable plain text. May be nil.
	Printer export.Exporter

	// ExportDir receives exported files.
	ExportDir string
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	width  int
	height int
}

// newAppModel builds the screen graph: the compose form at the bottom of
// the stack, result screens pushed on top of it.
func newAppModel(ctx context.Context, opts Options) AppModel {
	sess := session.New()
	newResult := func(c *reading.Content) screen.Screen {
		return result.New(result.Deps{
			Session:   sess,
			Documents: opts.Documents,
			Printer:   opts.Printer,
			Dir:       opts.ExportDir,
		}, c)
	}
	form := compose.New(compose.Deps{
		Generator: opts.Generator,
		Session:   sess,
		NewResult: newResult,
		Context:   ctx,
	})
	return AppModel{router: router.New(form)}
}

func (m AppModel) Init() tea.Cmd {
	if active := m.router.Active(); active != nil {
		return active.Init()
	}
	return nil
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "q":
			if !m.capturesInput() {
				return m, tea.Quit
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func (m AppModel) capturesInput() bool {
	c, ok := m.router.Active().(screen.InputCapturer)
	return ok && c.CapturesInput()
}

func (m AppModel) View() tea.View {
	v := tea.NewView("")
	v.AltScreen = true
	v.SetContent(m.render())
	return v
}

// render draws the full window: header, active screen and footer.
func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	active := m.router.Active()
	header := layout.RenderHeader(active.Title(), m.width)

	footerHints := []layout.KeyHint{
		{Key: "Ctrl+C", Description: "Stoppen"},
	}
	if hp, ok := active.(screen.KeyHintProvider); ok {
		footerHints = hp.KeyHints()
	}
	footer := layout.RenderFooter(footerHints, m.width)

	contentHeight := m.height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	content := m.router.View(m.width, contentHeight)
	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the terminal front end and blocks until the user quits or ctx
// is canceled. Canceling ctx also aborts an outstanding generation.
func Run(ctx context.Context, opts Options) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newAppModel(ctx, opts), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal UI: %w", err)
	}
	return nil
}
