package export

import (
	"bytes"
	"fmt"

	docx "github.com/fumiama/go-docx"

	"github.com/abhisek/lezen/internal/reading"
)

const docxMediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// Layout in twentieths of a point; sizes in half-points.
const (
	spaceBefore  = 200
	optionIndent = 360

	titleSize     = "36"
	answerKeySize = "32"
	headingSize   = "28"
)

// DOCX renders Word documents on the go-docx default template, A4.
type DOCX struct{}

// NewDOCX returns a DOCX exporter.
func NewDOCX() *DOCX { return &DOCX{} }

func (*DOCX) Available() error  { return nil }
func (*DOCX) Extension() string { return ".docx" }
func (*DOCX) MediaType() string { return docxMediaType }

// Export implements Exporter.
func (*DOCX) Export(doc Document, v Variant) ([]byte, error) {
	if err := validate(doc, v); err != nil {
		return nil, err
	}

	w := docx.New().WithDefaultTheme()
	switch v {
	case Worksheet:
		heading(w, doc.Title, titleSize)
		for _, p := range doc.Paragraphs {
			w.AddParagraph().AddText(p)
		}
		if len(doc.Questions) > 0 {
			heading(w, "Vragen", headingSize)
			for i, q := range doc.Questions {
				spaced(w.AddParagraph()).AddText(fmt.Sprintf("%d. %s", i+1, q.Question)).Bold()
				q.Options.Each(func(l reading.Label, text string) {
					indented(w.AddParagraph()).AddText(fmt.Sprintf("%s: %s", l, text))
				})
			}
		}
	case AnswerKey:
		heading(w, "Antwoorden: "+doc.Title, answerKeySize)
		for i, q := range doc.Questions {
			w.AddParagraph().AddText(answerLine(i, q))
		}
	}
	// The section properties close the body.
	w.WithA4Page()

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	return buf.Bytes(), nil
}

func heading(w *docx.Docx, text, size string) {
	spaced(w.AddParagraph()).AddText(text).Bold().Size(size)
}

func spaced(p *docx.Paragraph) *docx.Paragraph {
	props(p).Spacing = &docx.Spacing{Before: spaceBefore}
	return p
}

func indented(p *docx.Paragraph) *docx.Paragraph {
	props(p).Ind = &docx.Ind{Left: optionIndent}
	return p
}

func props(p *docx.Paragraph) *docx.ParagraphProperties {
	if p.Properties == nil {
		p.Properties = &docx.ParagraphProperties{}
	}
	return p.Properties
}
