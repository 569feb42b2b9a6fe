package errors

import "fmt"

// ErrorCode represents a tracemap error code.
type ErrorCode string

const (
	ErrInput          ErrorCode = "INPUT_ERROR"       // draft/record file missing, unreadable, or not structured data
	ErrSchema         ErrorCode = "SCHEMA_ERROR"      // the active schema document is malformed
	ErrValidation     ErrorCode = "VALIDATION_FAILED" // one or more violations; blocks create's write step
	ErrGeneration     ErrorCode = "GENERATION_ERROR"  // id/timestamp source unavailable
	ErrInvalidRequest ErrorCode = "INVALID_REQUEST"   // malformed tool/CLI arguments
	ErrInternal       ErrorCode = "INTERNAL"
)

// TraceError represents a structured error with code and details.
type TraceError struct {
	Code    ErrorCode
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *TraceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInput creates an error for a draft/record file that cannot be read
// or parsed as structured data.
func NewInput(path string, err error) *TraceError {
	msg := fmt.Sprintf("cannot read input %s", path)
	if err != nil {
		msg = fmt.Sprintf("cannot read input %s: %v", path, err)
	}
	return &TraceError{
		Code:    ErrInput,
		Message: msg,
		Details: map[string]any{"path": path},
	}
}

// NewSchema creates an error for a schema document that itself fails to
// parse as valid schema structure. Distinct from record validation failures
// so operators fix the right file.
func NewSchema(source string, err error) *TraceError {
	msg := fmt.Sprintf("invalid schema %s", source)
	if err != nil {
		msg = fmt.Sprintf("invalid schema %s: %v", source, err)
	}
	return &TraceError{
		Code:    ErrSchema,
		Message: msg,
		Details: map[string]any{"schema": source},
	}
}

// NewValidation creates an error summarizing a failed validation run.
// The full violation list travels alongside this error, not inside it.
func NewValidation(count int) *TraceError {
	return &TraceError{
		Code:    ErrValidation,
		Message: fmt.Sprintf("record has %d validation violation(s)", count),
		Details: map[string]any{"violations": count},
	}
}

// NewGeneration creates an error for a failed id/timestamp default.
// create never emits a record with a missing required field.
func NewGeneration(err error) *TraceError {
	msg := "could not generate record defaults"
	if err != nil {
		msg = fmt.Sprintf("could not generate record defaults: %v", err)
	}
	return &TraceError{Code: ErrGeneration, Message: msg}
}

// NewInvalidRequest creates an error for invalid request parameters.
func NewInvalidRequest(msg string) *TraceError {
	return &TraceError{Code: ErrInvalidRequest, Message: msg}
}

// NewInternal creates an error for unexpected internal failures.
func NewInternal(err error) *TraceError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &TraceError{Code: ErrInternal, Message: msg}
}

// Is checks if an error is a TraceError with the given code.
func Is(err error, code ErrorCode) bool {
	if tErr, ok := err.(*TraceError); ok {
		return tErr.Code == code
	}
	return false
}
