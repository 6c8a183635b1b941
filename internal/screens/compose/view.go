package compose

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/lezen/internal/reading"
	"github.com/abhisek/lezen/internal/ui/layout"
	"github.com/abhisek/lezen/internal/ui/theme"
)

func (s *Screen) View(width, height int) string {
	cw := layout.ContentWidth(width)

	if s.busy() {
		body := s.loader.View("Even geduld...", "De tekst en vragen worden voor je gemaakt.", cw)
		return place(width, height, theme.Card.Width(cw).Render(body))
	}

	var b strings.Builder
	if s.errMsg != "" {
		b.WriteString(theme.ErrorBanner.Width(cw).Render("Fout! " + s.errMsg))
		b.WriteString("\n\n")
	}

	var form strings.Builder
	form.WriteString(theme.Title.Render("Genereer een nieuwe leestekst"))
	form.WriteString("\n")
	form.WriteString(theme.Subtitle.Width(cw - 6).Render(
		"Vul de onderstaande velden in om een leestekst met vragen op maat te maken voor uw leerlingen."))
	form.WriteString("\n\n")

	form.WriteString(s.grade.View(s.focus == fieldGrade))
	form.WriteString("\n\n")
	form.WriteString(s.length.View(s.focus == fieldLength))
	form.WriteString("\n  ")
	form.WriteString(theme.Hint.Render(wordRangeHint(s.Request().Length)))
	form.WriteString("\n\n")
	form.WriteString(s.questions.View(s.focus == fieldQuestions))
	form.WriteString("\n\n")
	form.WriteString(s.topic.View(s.focus == fieldTopic))
	form.WriteString("\n\n")

	button := "Genereer tekst en vragen"
	if s.focus == fieldSubmit {
		form.WriteString(theme.Button.Render("▸ " + button))
	} else {
		form.WriteString(theme.ButtonDisabled.Render("  " + button))
	}

	b.WriteString(theme.Card.Width(cw).Render(form.String()))
	return place(width, height, b.String())
}

func wordRangeHint(l reading.Length) string {
	lo, hi := l.WordRange()
	return fmt.Sprintf("≈ %d-%d woorden", lo, hi)
}

func place(width, height int, content string) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Top, content)
}
