package components

import (
	"strconv"
	"strings"

	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lezen/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with the form styling.
type TextInput struct {
	Label       string
	Model       textinput.Model
	NumericOnly bool
}

// NewTextInput creates a blurred text input. charLimit <= 0 means no limit.
func NewTextInput(label, placeholder string, numericOnly bool, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Label: label, Model: ti, NumericOnly: numericOnly}
}

// Focus focuses the input and returns the cursor blink command.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes focus.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Update handles messages. Numeric inputs drop non-digit characters.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyPressMsg); ok && t.NumericOnly && kmsg.Text != "" {
		if strings.TrimFunc(kmsg.Text, func(r rune) bool { return r >= '0' && r <= '9' }) != "" {
			return t, nil
		}
	}

	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders the label and the input.
func (t TextInput) View(focused bool) string {
	label := theme.Label.Render(t.Label)
	if focused {
		label = theme.Focused.Render("▸ " + t.Label)
	}
	return label + "\n  " + t.Model.View()
}

// Value returns the current input value.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the input value.
func (t *TextInput) SetValue(v string) {
	t.Model.SetValue(v)
}

// NumericValue returns the input value as an integer.
func (t TextInput) NumericValue() (int, error) {
	return strconv.Atoi(strings.TrimSpace(t.Model.Value()))
}
