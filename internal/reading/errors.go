package reading

import (
	"errors"
	"fmt"
)

// User-facing messages.
const (
	MsgBlankTopic = "Vul alstublieft een onderwerp in."
	MsgGeneration = "Er is een fout opgetreden bij het communiceren met de AI. Probeer het opnieuw."
	MsgUnknown    = "Er is een onbekende fout opgetreden."
)

// ErrGeneration matches every *GenerationError via errors.Is.
var ErrGeneration = errors.New("reading generation failed")

// InputError reports a request that was rejected before any model call.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Kind classifies a generation failure for logs.
type Kind string

const (
	KindTransport       Kind = "transport"
	KindTimeout         Kind = "timeout"
	KindMalformed       Kind = "malformed"
	KindMissingField    Kind = "missing_field"
	KindInvalidQuestion Kind = "invalid_question"
	KindSchema          Kind = "schema"
	KindCountMismatch   Kind = "count_mismatch"
)

// GenerationError wraps any failure between sending the prompt and
// returning validated content.
type GenerationError struct {
	Kind Kind
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed (%s): %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func (e *GenerationError) Is(target error) bool { return target == ErrGeneration }

// Category is the user-facing error class.
type Category string

const (
	CategoryInput      Category = "input"
	CategoryGeneration Category = "generation"
	CategoryUnknown    Category = "unknown"
)

// Describe maps err to its category and the message shown to the user.
// Generation failures share one message whatever their kind.
func Describe(err error) (Category, string) {
	var inErr *InputError
	switch {
	case err == nil:
		return "", ""
	case errors.As(err, &inErr):
		return CategoryInput, inErr.Message
	case errors.Is(err, ErrGeneration):
		return CategoryGeneration, MsgGeneration
	default:
		return CategoryUnknown, MsgUnknown
	}
}

// KindOf returns the kind of a generation error, or "".
func KindOf(err error) Kind {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind
	}
	return ""
}
