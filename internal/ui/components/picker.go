package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/lezen/internal/ui/theme"
)

// Picker is a horizontal single-choice selector driven by ←/→.
type Picker struct {
	Label    string
	Options  []string
	Selected int
}

// NewPicker creates a picker with the option at selected preselected.
func NewPicker(label string, options []string, selected int) Picker {
	if selected < 0 || selected >= len(options) {
		selected = 0
	}
	return Picker{Label: label, Options: options, Selected: selected}
}

// Update handles ←/→ (and h/l). It wraps at both ends.
func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok || len(p.Options) == 0 {
		return p, nil
	}

	switch kmsg.String() {
	case "left", "h":
		p.Selected = (p.Selected - 1 + len(p.Options)) % len(p.Options)
	case "right", "l":
		p.Selected = (p.Selected + 1) % len(p.Options)
	}
	return p, nil
}

// Value returns the selected option, or "" when there are none.
func (p Picker) Value() string {
	if p.Selected < 0 || p.Selected >= len(p.Options) {
		return ""
	}
	return p.Options[p.Selected]
}

// Select moves the selection to the option equal to v, if present.
func (p *Picker) Select(v string) {
	for i, o := range p.Options {
		if o == v {
			p.Selected = i
			return
		}
	}
}

// View renders the label and the options, highlighting the selection.
func (p Picker) View(focused bool) string {
	label := theme.Label.Render(p.Label)
	if focused {
		label = theme.Focused.Render("▸ " + p.Label)
	}

	parts := make([]string, len(p.Options))
	for i, o := range p.Options {
		switch {
		case i == p.Selected && focused:
			parts[i] = lipgloss.NewStyle().Foreground(theme.Text).Background(theme.Primary).Bold(true).Render(" " + o + " ")
		case i == p.Selected:
			parts[i] = theme.Focused.Render(" " + o + " ")
		default:
			parts[i] = theme.Subtitle.Render(" " + o + " ")
		}
	}
	return label + "\n  " + strings.Join(parts, " ")
}
