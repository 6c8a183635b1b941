// Package export renders reading content as downloadable documents.
package export

import (
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/lezen/internal/reading"
)

var (
	// ErrUnavailable is returned by Check when no usable exporter is wired.
	ErrUnavailable = errors.New("export unavailable")

	// ErrNoContent is returned when there is nothing to export.
	ErrNoContent = errors.New("no content to export")
)

// Variant selects what a document contains.
type Variant string

const (
	// Worksheet holds the passage and the questions without answers.
	Worksheet Variant = "worksheet"

	// AnswerKey holds only the numbered correct answers.
	AnswerKey Variant = "answers"
)

// ParseVariant accepts the English and Dutch variant names.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "worksheet", "werkblad":
		return Worksheet, nil
	case "answers", "answer-key", "antwoorden":
		return AnswerKey, nil
	}
	return "", fmt.Errorf("unknown export variant %q", s)
}

// Document is the export input.
type Document struct {
	Title      string
	Paragraphs []string
	Questions  []reading.Question
}

// FromContent builds a Document from generated content.
func FromContent(c *reading.Content) Document {
	return Document{
		Title:      c.Title,
		Paragraphs: c.Paragraphs(),
		Questions:  c.Questions,
	}
}

// Exporter renders a Document into a file format.
type Exporter interface {
	// Export renders doc as the requested variant.
	Export(doc Document, v Variant) ([]byte, error)

	// Available returns nil when the exporter can be used.
	Available() error

	// Extension is the file extension including the dot, e.g. ".docx".
	Extension() string

	// MediaType is the MIME type of the rendered bytes.
	MediaType() string
}

// Check returns ErrUnavailable (wrapping the reason, if any) when e cannot
// be used.
func Check(e Exporter) error {
	if e == nil {
		return ErrUnavailable
	}
	if err := e.Available(); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	return nil
}

// Filename builds a file name for an exported document, e.g.
// "de-vos-en-de-raaf-werkblad.docx".
func Filename(doc Document, v Variant, ext string) string {
	suffix := "werkblad"
	if v == AnswerKey {
		suffix = "antwoorden"
	}
	slug := slugify(doc.Title)
	if slug == "" {
		slug = "leestekst"
	}
	return slug + "-" + suffix + ext
}

func slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case r == 'ë' || r == 'é' || r == 'è' || r == 'ê':
			b.WriteRune('e')
			dash = false
		case r == 'ï' || r == 'í':
			b.WriteRune('i')
			dash = false
		case r == 'ö' || r == 'ó':
			b.WriteRune('o')
			dash = false
		case r == 'ü' || r == 'ú':
			b.WriteRune('u')
			dash = false
		case r == 'á' || r == 'à' || r == 'ä':
			b.WriteRune('a')
			dash = false
		default:
			if !dash && b.Len() > 0 {
				b.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func validate(doc Document, v Variant) error {
	if doc.Title == "" && len(doc.Paragraphs) == 0 && len(doc.Questions) == 0 {
		return ErrNoContent
	}
	if v != Worksheet && v != AnswerKey {
		return fmt.Errorf("unknown export variant %q", v)
	}
	return nil
}

// answerLine renders "1. B: option text".
func answerLine(i int, q reading.Question) string {
	line := fmt.Sprintf("%d. %s", i+1, q.Answer)
	if opt := q.CorrectOption(); opt != "" {
		line += ": " + opt
	}
	return line
}
