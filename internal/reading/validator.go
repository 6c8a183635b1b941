package reading

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/abhisek/lezen/internal/llm"
)

// Validator checks decoded content before it is returned.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier, e.g. "structural".
	Name() string

	// Validate returns nil if c passes. raw is the normalized payload c was
	// decoded from.
	Validate(c *Content, req Request, raw json.RawMessage) *ValidationError
}

// ValidationError describes why content failed a check.
type ValidationError struct {
	Validator string
	Message   string
	Kind      Kind

	// Warning marks a finding that is logged but does not reject the content.
	Warning bool
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// StructuralValidator requires title, text and at least one question.
type StructuralValidator struct{}

func (v *StructuralValidator) Name() string { return "structural" }

func (v *StructuralValidator) Validate(c *Content, _ Request, _ json.RawMessage) *ValidationError {
	fail := func(msg string) *ValidationError {
		return &ValidationError{Validator: v.Name(), Message: msg, Kind: KindMissingField}
	}
	switch {
	case isBlank(c.Title):
		return fail("title is missing or empty")
	case isBlank(c.Text):
		return fail("text is missing or empty")
	case len(c.Questions) == 0:
		return fail("questions are missing or empty")
	}
	return nil
}

// QuestionValidator checks every question: non-empty text, all four options
// filled in and an answer label in A-D.
type QuestionValidator struct{}

func (v *QuestionValidator) Name() string { return "question" }

func (v *QuestionValidator) Validate(c *Content, _ Request, _ json.RawMessage) *ValidationError {
	for i, q := range c.Questions {
		n := i + 1
		if isBlank(q.Question) {
			return v.fail("question %d has no text", n)
		}
		for _, l := range Labels() {
			if isBlank(q.Options.Get(l)) {
				return v.fail("question %d is missing option %s", n, l)
			}
		}
		if _, ok := ParseLabel(string(q.Answer)); !ok {
			return v.fail("question %d has answer %q outside A-D", n, q.Answer)
		}
	}
	return nil
}

func (v *QuestionValidator) fail(format string, args ...any) *ValidationError {
	return &ValidationError{
		Validator: v.Name(),
		Message:   fmt.Sprintf(format, args...),
		Kind:      KindInvalidQuestion,
	}
}

// SchemaValidator checks the raw payload against ContentSchema.
type SchemaValidator struct{}

func (v *SchemaValidator) Name() string { return "schema" }

func (v *SchemaValidator) Validate(_ *Content, _ Request, raw json.RawMessage) *ValidationError {
	if err := llm.ValidateJSON(ContentSchema, raw); err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error(), Kind: KindSchema}
	}
	return nil
}

// CountValidator compares the number of questions with the request. In
// lenient mode a mismatch is reported as a warning only.
type CountValidator struct {
	Strict bool
}

func (v *CountValidator) Name() string { return "count" }

func (v *CountValidator) Validate(c *Content, req Request, _ json.RawMessage) *ValidationError {
	if len(c.Questions) == req.QuestionCount {
		return nil
	}
	return &ValidationError{
		Validator: v.Name(),
		Message:   fmt.Sprintf("got %d questions, requested %d", len(c.Questions), req.QuestionCount),
		Kind:      KindCountMismatch,
		Warning:   !v.Strict,
	}
}

// DefaultValidators returns the standard chain. strictCount turns a
// question-count mismatch into a failure.
func DefaultValidators(strictCount bool) []Validator {
	return []Validator{
		&StructuralValidator{},
		&QuestionValidator{},
		&SchemaValidator{},
		&CountValidator{Strict: strictCount},
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
