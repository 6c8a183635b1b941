package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lezen/internal/reading"
	"github.com/abhisek/lezen/internal/ui/theme"
)

// QuestionCard renders one numbered multiple-choice question. The correct
// option is highlighted only once the card is revealed.
type QuestionCard struct {
	Number   int
	Question reading.Question
	Revealed bool
}

// View renders the card at the given width.
func (c QuestionCard) View(width int, focused bool) string {
	inner := width - 6
	if inner < 10 {
		inner = 10
	}
	wrap := lipgloss.NewStyle().Width(inner)

	var b strings.Builder
	b.WriteString(wrap.Inherit(theme.Label).Render(fmt.Sprintf("%d. %s", c.Number, c.Question.Question)))
	b.WriteString("\n\n")

	c.Question.Options.Each(func(l reading.Label, text string) {
		line := fmt.Sprintf("%s: %s", l, text)
		if c.Revealed && l == c.Question.Answer {
			b.WriteString(wrap.Inherit(theme.Correct).Render("✓ " + line))
		} else {
			b.WriteString(wrap.Inherit(theme.Body).Render("  " + line))
		}
		b.WriteString("\n")
	})

	b.WriteString("\n")
	if c.Revealed {
		b.WriteString(theme.Correct.Render("Correct antwoord: " + string(c.Question.Answer)))
	} else {
		b.WriteString(theme.Hint.Render("r  Toon antwoord"))
	}

	style := theme.Card.Width(width)
	if focused {
		style = theme.FocusedCard.Width(width)
	}
	return style.Render(b.String())
}
