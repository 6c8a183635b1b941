package reading

import (
	"fmt"
	"strings"
)

// Grade is a Dutch primary-school year label, e.g. "Groep 6".
type Grade string

// DefaultGrade is preselected in the input forms.
const DefaultGrade Grade = "Groep 6"

var grades = []Grade{"Groep 4", "Groep 5", "Groep 6", "Groep 7", "Groep 8"}

// Grades returns the supported grade labels in ascending order.
func Grades() []Grade {
	return append([]Grade(nil), grades...)
}

// Valid reports whether g is one of the supported labels.
func (g Grade) Valid() bool {
	for _, v := range grades {
		if g == v {
			return true
		}
	}
	return false
}

// ParseGrade accepts "6", "groep 6" or "Groep 6".
func ParseGrade(s string) (Grade, error) {
	s = strings.TrimSpace(s)
	if len(s) > len("groep") && strings.EqualFold(s[:len("groep")], "groep") {
		s = strings.TrimSpace(s[len("groep"):])
	}
	g := Grade("Groep " + s)
	if !g.Valid() {
		return "", fmt.Errorf("unknown grade %q", s)
	}
	return g, nil
}

// Length is the target size bucket of the passage.
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// DefaultLength is preselected in the input forms.
const DefaultLength = LengthMedium

// Lengths returns the buckets from shortest to longest.
func Lengths() []Length {
	return []Length{LengthShort, LengthMedium, LengthLong}
}

// Valid reports whether l is a known bucket.
func (l Length) Valid() bool {
	switch l {
	case LengthShort, LengthMedium, LengthLong:
		return true
	}
	return false
}

// Label returns the Dutch name used in prompts and forms.
func (l Length) Label() string {
	switch l {
	case LengthShort:
		return "kort"
	case LengthMedium:
		return "middel"
	case LengthLong:
		return "lang"
	}
	return string(l)
}

// WordRange returns the approximate word-count bounds of the bucket.
func (l Length) WordRange() (min, max int) {
	switch l {
	case LengthShort:
		return 100, 150
	case LengthMedium:
		return 150, 250
	case LengthLong:
		return 250, 400
	}
	return 0, 0
}

// ParseLength accepts both the English and the Dutch bucket names.
func ParseLength(s string) (Length, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "short", "kort":
		return LengthShort, nil
	case "medium", "middel":
		return LengthMedium, nil
	case "long", "lang":
		return LengthLong, nil
	}
	return "", fmt.Errorf("unknown length %q", s)
}

// Label is a multiple-choice option key.
type Label string

const (
	LabelA Label = "A"
	LabelB Label = "B"
	LabelC Label = "C"
	LabelD Label = "D"
)

// Labels returns the option keys in display order.
func Labels() []Label {
	return []Label{LabelA, LabelB, LabelC, LabelD}
}

// ParseLabel returns the label for s, ignoring surrounding whitespace.
func ParseLabel(s string) (Label, bool) {
	l := Label(strings.TrimSpace(s))
	switch l {
	case LabelA, LabelB, LabelC, LabelD:
		return l, true
	}
	return "", false
}

// Options holds the four answer options of a question.
type Options struct {
	A string `json:"A"`
	B string `json:"B"`
	C string `json:"C"`
	D string `json:"D"`
}

// Get returns the option text for l, or "" for an unknown label.
func (o Options) Get(l Label) string {
	switch l {
	case LabelA:
		return o.A
	case LabelB:
		return o.B
	case LabelC:
		return o.C
	case LabelD:
		return o.D
	}
	return ""
}

// Each calls fn for every option in label order.
func (o Options) Each(fn func(l Label, text string)) {
	for _, l := range Labels() {
		fn(l, o.Get(l))
	}
}

// Question is one multiple-choice question about the passage.
type Question struct {
	Question string  `json:"question"`
	Options  Options `json:"options"`
	Answer   Label   `json:"answer"`
}

// CorrectOption returns the text of the option marked correct.
func (q Question) CorrectOption() string {
	return q.Options.Get(q.Answer)
}

// Content is a validated passage with its questions.
type Content struct {
	Title     string     `json:"title"`
	Text      string     `json:"text"`
	Questions []Question `json:"questions"`
}

// Paragraphs splits Text on blank lines. Text without blank lines is split
// on single newlines instead.
func (c *Content) Paragraphs() []string {
	text := strings.ReplaceAll(c.Text, "\r\n", "\n")
	sep := "\n\n"
	if !strings.Contains(text, sep) {
		sep = "\n"
	}
	var out []string
	for _, p := range strings.Split(text, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

const (
	MinQuestions     = 1
	MaxQuestions     = 10
	DefaultQuestions = 3
)

// Request holds the parameters of one generation.
type Request struct {
	Grade         Grade
	Length        Length
	QuestionCount int
	Topic         string
}

// DefaultRequest returns the form defaults with an empty topic.
func DefaultRequest() Request {
	return Request{
		Grade:         DefaultGrade,
		Length:        DefaultLength,
		QuestionCount: DefaultQuestions,
	}
}

// Validate checks the request before any model call is made.
// It returns an *InputError describing the first problem found.
func (r Request) Validate() error {
	if strings.TrimSpace(r.Topic) == "" {
		return &InputError{Field: "topic", Message: MsgBlankTopic}
	}
	if r.QuestionCount < MinQuestions || r.QuestionCount > MaxQuestions {
		return &InputError{
			Field:   "questions",
			Message: fmt.Sprintf("Kies een aantal vragen tussen %d en %d.", MinQuestions, MaxQuestions),
		}
	}
	if !r.Grade.Valid() {
		return &InputError{Field: "grade", Message: "Kies een geldig groepsniveau."}
	}
	if !r.Length.Valid() {
		return &InputError{Field: "length", Message: "Kies een geldige tekstlengte."}
	}
	return nil
}
