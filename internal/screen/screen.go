package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lezen/internal/ui/layout"
)

// Screen is one full-window view managed by the router.
type Screen interface {
	// Init returns the command to run when the screen becomes active.
	Init() tea.Cmd

	// Update handles a message and returns the (possibly new) screen.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the content area, excluding header and footer.
	View(width, height int) string

	// Title is shown in the header.
	Title() string
}

// KeyHintProvider is implemented by screens with their own footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// InputCapturer is implemented by screens that can hold keyboard focus in a
// text field. While CapturesInput is true the app does not treat printable
// keys such as "q" as global shortcuts.
type InputCapturer interface {
	CapturesInput() bool
}
