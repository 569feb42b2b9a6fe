package mcp

import (
	"context"

	json "github.com/goccy/go-json"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/tracemap/internal/config"
	"github.com/hpungsan/tracemap/internal/errors"
	"github.com/hpungsan/tracemap/internal/ops"
	"github.com/hpungsan/tracemap/internal/trace"
)

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg *config.Config) *Handlers {
	return &Handlers{cfg: cfg}
}

// Request types for each tool

// CreateRequest represents the arguments for trace_create.
type CreateRequest struct {
	Draft       map[string]any `json:"draft"`
	VcsType     string         `json:"vcs_type,omitempty"`
	Revision    string         `json:"revision,omitempty"`
	ToolName    string         `json:"tool_name,omitempty"`
	ToolVersion string         `json:"tool_version,omitempty"`
	OutputPath  string         `json:"output_path,omitempty"`
	SchemaPath  string         `json:"schema_path,omitempty"`
	Pretty      bool           `json:"pretty,omitempty"`
}

// ValidateRequest represents the arguments for trace_validate.
type ValidateRequest struct {
	Record     map[string]any `json:"record,omitempty"`
	InputPath  string         `json:"input_path,omitempty"`
	SchemaPath string         `json:"schema_path,omitempty"`
}

// SummaryRequest represents the arguments for trace_summary.
type SummaryRequest struct {
	Record map[string]any `json:"record"`
}

// ValidationResult is the payload returned by trace_validate.
type ValidationResult struct {
	Valid      bool             `json:"valid"`
	Violations trace.Violations `json:"violations"`
}

// schemaFor resolves the active schema for a request: the request's
// profile, else the configured one, else the bundled default.
func (h *Handlers) schemaFor(requestPath string) (*trace.Schema, error) {
	path := requestPath
	if path == "" {
		path = h.cfg.SchemaPath
	}
	return ops.LoadSchema(path)
}

// HandleCreate handles the trace_create tool call.
func (h *Handlers) HandleCreate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[CreateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Draft == nil {
		return errorResult(errors.NewInvalidRequest("draft is required")), nil
	}

	schema, err := h.schemaFor(input.SchemaPath)
	if err != nil {
		return errorResult(err), nil
	}

	candidate, err := trace.Normalize(input.Draft, trace.Context{
		VcsType:     input.VcsType,
		Revision:    input.Revision,
		ToolName:    input.ToolName,
		ToolVersion: input.ToolVersion,
	})
	if err != nil {
		return errorResult(errors.NewGeneration(err)), nil
	}

	if violations := trace.Validate(candidate, schema); len(violations) > 0 {
		return violationsResult(violations), nil
	}

	rec, err := trace.DecodeRecord(candidate)
	if err != nil {
		return errorResult(errors.NewInternal(err)), nil
	}
	if input.OutputPath != "" {
		if err := ops.WriteRecord(input.OutputPath, rec, input.Pretty); err != nil {
			return errorResult(err), nil
		}
	}

	return successResult(rec)
}

// HandleValidate handles the trace_validate tool call.
func (h *Handlers) HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ValidateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Record == nil && input.InputPath == "" {
		return errorResult(errors.NewInvalidRequest("either record or input_path is required")), nil
	}
	if input.Record != nil && input.InputPath != "" {
		return errorResult(errors.NewInvalidRequest("cannot specify both record and input_path")), nil
	}

	var violations trace.Violations
	if input.InputPath != "" {
		schemaPath := input.SchemaPath
		if schemaPath == "" {
			schemaPath = h.cfg.SchemaPath
		}
		violations, err = ops.Validate(ops.ValidateInput{
			InputPath:  input.InputPath,
			SchemaPath: schemaPath,
		})
		if err != nil {
			return errorResult(err), nil
		}
	} else {
		schema, err := h.schemaFor(input.SchemaPath)
		if err != nil {
			return errorResult(err), nil
		}
		violations = trace.Validate(input.Record, schema)
	}

	if violations == nil {
		violations = trace.Violations{}
	}
	return successResult(ValidationResult{
		Valid:      len(violations) == 0,
		Violations: violations,
	})
}

// HandleSummary handles the trace_summary tool call.
func (h *Handlers) HandleSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[SummaryRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Record == nil {
		return errorResult(errors.NewInvalidRequest("record is required")), nil
	}

	// Summaries are only meaningful for valid records.
	if violations := trace.Validate(input.Record, trace.DefaultSchema()); len(violations) > 0 {
		return violationsResult(violations), nil
	}

	rec, err := trace.DecodeRecord(input.Record)
	if err != nil {
		return errorResult(errors.NewInternal(err)), nil
	}
	return successResult(trace.Summarize(rec))
}

// Result helpers

// errorResult wraps any error as an MCP error result. IsError is set so
// clients treat the payload as a failure rather than tool output.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if tErr, ok := err.(*errors.TraceError); ok {
		errorObj := map[string]any{
			"code":    tErr.Code,
			"message": tErr.Message,
		}
		if tErr.Code != errors.ErrInternal && tErr.Details != nil {
			errorObj["details"] = tErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    errors.ErrInternal,
				"message": "an internal error occurred",
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// violationsResult creates an MCP error result carrying the full
// violation list, so a client can fix every problem in one pass.
func violationsResult(violations trace.Violations) *mcp.CallToolResult {
	payload := map[string]any{
		"error": map[string]any{
			"code":    errors.ErrValidation,
			"message": errors.NewValidation(len(violations)).Message,
		},
		"violations": violations,
	}
	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult serializes data as a JSON success result.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
