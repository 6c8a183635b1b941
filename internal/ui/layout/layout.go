package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lezen/internal/ui/theme"
)

// AppName is shown on the left of the header.
const AppName = "Begrijpend Lezen Assistent"

const (
	MinWidth  = 60
	MinHeight = 20
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// ContentWidth is the width of text columns: the frame minus margins,
// capped so paragraphs stay readable.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 88 {
		w = 88
	}
	if w < 20 {
		w = 20
	}
	return w
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"Het venster is te klein.\n\nMaak het minstens %d x %d.\n\nNu: %d x %d",
			MinWidth, MinHeight, width, height,
		))
}

// RenderHeader renders the header bar: app name left, screen title right.
func RenderHeader(title string, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Light).
		Bold(true).
		Render("  " + AppName)

	right := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(title + "  ")

	innerWidth := width - 4
	gap := innerWidth - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render(left + strings.Repeat(" ", gap) + right)
}

// RenderFooter renders the footer with key hints.
func RenderFooter(hints []KeyHint, width int) string {
	parts := make([]string, 0, len(hints))
	for _, h := range hints {
		parts = append(parts, lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key)+
			" "+
			lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description))
	}

	return lipgloss.NewStyle().
		Width(width).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Render("  " + strings.Join(parts, "   "))
}

// RenderFrame composes header, content and footer into one frame of the
// given height.
func RenderFrame(header, content, footer string, width, height int) string {
	contentHeight := height - lipgloss.Height(header) - lipgloss.Height(footer)
	if contentHeight < 0 {
		contentHeight = 0
	}

	body := lipgloss.NewStyle().
		Width(width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return header + "\n" + body + "\n" + footer
}
