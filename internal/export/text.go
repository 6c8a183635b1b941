package export

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/lezen/internal/reading"
)

// Text renders plain UTF-8 text, used for printing from the terminal.
type Text struct{}

// NewText returns a plain-text exporter.
func NewText() *Text { return &Text{} }

func (*Text) Available() error  { return nil }
func (*Text) Extension() string { return ".txt" }
func (*Text) MediaType() string { return "text/plain; charset=utf-8" }

// Export implements Exporter.
func (*Text) Export(doc Document, v Variant) ([]byte, error) {
	if err := validate(doc, v); err != nil {
		return nil, err
	}

	var b strings.Builder
	switch v {
	case Worksheet:
		underline(&b, doc.Title, "=")
		for _, p := range doc.Paragraphs {
			b.WriteString(p)
			b.WriteString("\n\n")
		}
		if len(doc.Questions) > 0 {
			underline(&b, "Vragen", "-")
			for i, q := range doc.Questions {
				fmt.Fprintf(&b, "%d. %s\n", i+1, q.Question)
				q.Options.Each(func(l reading.Label, text string) {
					fmt.Fprintf(&b, "   %s: %s\n", l, text)
				})
				b.WriteString("\n")
			}
		}
	case AnswerKey:
		underline(&b, "Antwoorden: "+doc.Title, "=")
		for i, q := range doc.Questions {
			b.WriteString(answerLine(i, q))
			b.WriteString("\n")
		}
	}
	return []byte(strings.TrimRight(b.String(), "\n") + "\n"), nil
}

func underline(b *strings.Builder, title, mark string) {
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(strings.Repeat(mark, utf8.RuneCountInString(title)))
	b.WriteString("\n\n")
}
