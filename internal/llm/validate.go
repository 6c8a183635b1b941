package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiled holds one compiled validator per Schema.Name.
var compiled sync.Map // string -> *jsonschema.Schema

// ValidateJSON checks raw against schema. A nil schema accepts anything.
// Every failure, including unparsable JSON, is an *ErrInvalidResponse
// carrying raw.
func ValidateJSON(schema *Schema, raw json.RawMessage) error {
	if schema == nil {
		return nil
	}
	invalid := func(format string, args ...any) error {
		return &ErrInvalidResponse{Content: raw, Err: fmt.Errorf(format, args...)}
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return invalid("invalid JSON: %w", err)
	}
	sch, err := compile(schema)
	if err != nil {
		return invalid("compile schema %q: %w", schema.Name, err)
	}
	if err := sch.Validate(doc); err != nil {
		return invalid("schema validation failed: %w", err)
	}
	return nil
}

func compile(schema *Schema) (*jsonschema.Schema, error) {
	if sch, ok := compiled.Load(schema.Name); ok {
		return sch.(*jsonschema.Schema), nil
	}

	// Definitions are Go literals ([]string, int); the compiler expects
	// values as produced by a JSON decoder.
	encoded, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("encode definition: %w", err)
	}
	def, err := jsonschema.UnmarshalJSON(bytes.NewReader(encoded))
	if err != nil {
		return nil, fmt.Errorf("decode definition: %w", err)
	}

	url := "mem://schemas/" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, def); err != nil {
		return nil, err
	}
	sch, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	actual, _ := compiled.LoadOrStore(schema.Name, sch)
	return actual.(*jsonschema.Schema), nil
}
