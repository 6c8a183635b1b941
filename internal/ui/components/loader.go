package components

import (
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lezen/internal/ui/theme"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// LoaderTickMsg advances a Loader by one frame.
type LoaderTickMsg time.Time

// LoaderTick schedules the next frame.
func LoaderTick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return LoaderTickMsg(t)
	})
}

// Loader is an animated waiting indicator.
type Loader struct {
	frame int
}

// Advance moves to the next frame.
func (l *Loader) Advance() {
	l.frame = (l.frame + 1) % len(spinnerFrames)
}

// View renders the spinner with a heading and a line of explanation,
// centered in width.
func (l Loader) View(heading, detail string, width int) string {
	center := lipgloss.NewStyle().Width(width).Align(lipgloss.Center)
	return center.Render(theme.Focused.Render(spinnerFrames[l.frame])) + "\n\n" +
		center.Render(theme.Label.Render(heading)) + "\n" +
		center.Render(theme.Subtitle.Render(detail))
}
