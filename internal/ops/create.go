package ops

import (
	"github.com/hpungsan/tracemap/internal/errors"
	"github.com/hpungsan/tracemap/internal/trace"
)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	InputPath   string // required: draft document
	OutputPath  string // required: where the normalized record is written
	VcsType     string // optional side-channel VCS context
	Revision    string
	ToolName    string // optional side-channel tool context
	ToolVersion string
	SchemaPath  string // optional schema profile; empty means bundled default
	Pretty      bool
}

// CreateOutput contains the result of a successful Create.
type CreateOutput struct {
	Path   string        `json:"path"`
	Record *trace.Record `json:"record"`
}

// Create reads a draft, normalizes it, validates the candidate, and writes
// the record only when validation passes. A non-empty violation list means
// nothing was written; a non-nil error means the run could not produce a
// meaningful result at all.
func Create(input CreateInput) (*CreateOutput, trace.Violations, error) {
	if input.InputPath == "" {
		return nil, nil, errors.NewInvalidRequest("input path is required")
	}
	if input.OutputPath == "" {
		return nil, nil, errors.NewInvalidRequest("output path is required")
	}

	doc, violations, err := readDocument(input.InputPath)
	if err != nil {
		return nil, nil, err
	}
	if len(violations) > 0 {
		return nil, violations, nil
	}

	schema, err := LoadSchema(input.SchemaPath)
	if err != nil {
		return nil, nil, err
	}

	draft, ok := doc.(map[string]any)
	if !ok {
		// Not an object; let the validator report the shape mismatch.
		return nil, trace.Validate(doc, schema), nil
	}

	candidate, err := trace.Normalize(draft, trace.Context{
		VcsType:     input.VcsType,
		Revision:    input.Revision,
		ToolName:    input.ToolName,
		ToolVersion: input.ToolVersion,
	})
	if err != nil {
		return nil, nil, errors.NewGeneration(err)
	}

	if violations := trace.Validate(candidate, schema); len(violations) > 0 {
		return nil, violations, nil
	}

	rec, err := trace.DecodeRecord(candidate)
	if err != nil {
		return nil, nil, errors.NewInternal(err)
	}
	if err := WriteRecord(input.OutputPath, rec, input.Pretty); err != nil {
		return nil, nil, err
	}

	return &CreateOutput{Path: input.OutputPath, Record: rec}, nil, nil
}
