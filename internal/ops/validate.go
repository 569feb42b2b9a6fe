package ops

import (
	"github.com/hpungsan/tracemap/internal/errors"
	"github.com/hpungsan/tracemap/internal/trace"
)

// ValidateInput contains parameters for the Validate operation.
type ValidateInput struct {
	InputPath  string // required: record or draft to check
	SchemaPath string // optional schema profile; empty means bundled default
}

// Validate reads a document and checks it against the active schema.
// Read-only: it never writes a file regardless of outcome. An empty
// violation list with a nil error means the document is valid.
func Validate(input ValidateInput) (trace.Violations, error) {
	if input.InputPath == "" {
		return nil, errors.NewInvalidRequest("input path is required")
	}

	doc, violations, err := readDocument(input.InputPath)
	if err != nil {
		return nil, err
	}
	if len(violations) > 0 {
		return violations, nil
	}

	schema, err := LoadSchema(input.SchemaPath)
	if err != nil {
		return nil, err
	}

	return trace.Validate(doc, schema), nil
}
