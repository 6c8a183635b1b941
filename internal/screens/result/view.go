package result

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lezen/internal/ui/components"
	"github.com/abhisek/lezen/internal/ui/layout"
	"github.com/abhisek/lezen/internal/ui/theme"
)

// View renders the document scrolled to the current offset. Moving the
// question cursor scrolls the focused card into view.
func (s *Screen) View(width, height int) string {
	cw := layout.ContentWidth(width)
	lines, cardStart := s.render(cw)

	bodyHeight := height - 2
	if bodyHeight < 1 {
		bodyHeight = 1
	}

	if s.follow && s.cursor < len(cardStart) {
		start := cardStart[s.cursor]
		if start < s.offset || start >= s.offset+bodyHeight {
			s.offset = start
		}
		s.follow = false
	}
	maxOffset := len(lines) - bodyHeight
	if maxOffset < 0 {
		maxOffset = 0
	}
	if s.offset > maxOffset {
		s.offset = maxOffset
	}

	end := s.offset + bodyHeight
	if end > len(lines) {
		end = len(lines)
	}
	body := strings.Join(lines[s.offset:end], "\n")

	status := s.status
	if status == "" && len(lines) > bodyHeight {
		status = theme.Hint.Render("↑↓ om te scrollen")
	} else if status != "" {
		status = theme.Status.Render(status)
	}

	pad := lipgloss.NewStyle().PaddingLeft((width - cw) / 2)
	return pad.Render(body) + "\n\n" + pad.Render(status)
}

// render returns the document as lines and the first line of each
// question card.
func (s *Screen) render(cw int) ([]string, []int) {
	var b strings.Builder
	b.WriteString(theme.Title.Render(s.content.Title))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Light).Render(strings.Repeat("─", lipgloss.Width(s.content.Title))))
	b.WriteString("\n\n")
	for _, p := range s.content.Paragraphs() {
		b.WriteString(theme.Body.Width(cw).Render(p))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Title.Render("Vragen"))
	b.WriteString("\n\n")

	lines := strings.Split(b.String(), "\n")
	starts := make([]int, 0, len(s.content.Questions))
	for i, q := range s.content.Questions {
		starts = append(starts, len(lines))
		card := components.QuestionCard{Number: i + 1, Question: q, Revealed: s.revealed[i]}
		lines = append(lines, strings.Split(card.View(cw, i == s.cursor), "\n")...)
	}
	return lines, starts
}
