package core

import (
	"errors"
	"fmt"
)

// ExecutionError represents a structured error with category and details
type ExecutionError struct {
	Category ErrorCategory
	Code     string                 // Machine-readable code: no_match, malformed_dump, etc.
	Message  string                 // Human-readable message
	Details  map[string]interface{} // Additional context
	Cause    error                  // Underlying error
}

// Error implements the error interface
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an ExecutionError with the same code.
// Copies made with WithCause/WithMessage/WithDetails still match their template.
func (e *ExecutionError) Is(target error) bool {
	t, ok := target.(*ExecutionError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// WithCause returns a copy of the error with the given cause
func (e *ExecutionError) WithCause(cause error) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  e.Details,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message
func (e *ExecutionError) WithMessage(msg string) *ExecutionError {
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  msg,
		Details:  e.Details,
		Cause:    e.Cause,
	}
}

// WithDetails returns a copy of the error with additional details
func (e *ExecutionError) WithDetails(details map[string]interface{}) *ExecutionError {
	merged := make(map[string]interface{})
	for k, v := range e.Details {
		merged[k] = v
	}
	for k, v := range details {
		merged[k] = v
	}
	return &ExecutionError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Details:  merged,
		Cause:    e.Cause,
	}
}

// Predefined errors
var (
	// Match errors
	ErrNoMatch = &ExecutionError{
		Category: ErrCategoryMatch,
		Code:     "no_match",
		Message:  "no element scored above the acceptance threshold",
	}

	// Dump errors
	ErrMalformedDump = &ExecutionError{
		Category: ErrCategoryDump,
		Code:     "malformed_dump",
		Message:  "hierarchy dump contains no element nodes",
	}

	// Query errors
	ErrInvalidQuery = &ExecutionError{
		Category: ErrCategoryQuery,
		Code:     "invalid_query",
		Message:  "query has no meaningful words after filtering",
	}

	// Geometry errors
	ErrGeometryUnderflow = &ExecutionError{
		Category: ErrCategoryGeometry,
		Code:     "geometry_underflow",
		Message:  "window or device screen has zero size",
	}
	ErrGeometryOverflow = &ExecutionError{
		Category: ErrCategoryGeometry,
		Code:     "geometry_overflow",
		Message:  "mapped point is outside the host coordinate range",
	}

	// Connection errors
	ErrDeviceDisconnected = &ExecutionError{
		Category: ErrCategoryConnection,
		Code:     "device_disconnected",
		Message:  "device connection lost",
	}
	ErrToolNotFound = &ExecutionError{
		Category: ErrCategoryConnection,
		Code:     "tool_not_found",
		Message:  "required host tool not found",
	}

	// Config errors
	ErrInvalidConfig = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "invalid_config",
		Message:  "invalid configuration",
	}
	ErrMissingRequired = &ExecutionError{
		Category: ErrCategoryConfig,
		Code:     "missing_required",
		Message:  "missing required field",
	}
)

// NewExecutionError creates a new ExecutionError with the given parameters
func NewExecutionError(category ErrorCategory, code, message string) *ExecutionError {
	return &ExecutionError{
		Category: category,
		Code:     code,
		Message:  message,
	}
}

// IsFallbackable reports whether err means the heuristic engine gave up and
// an alternate matcher may be tried.
func IsFallbackable(err error) bool {
	var ee *ExecutionError
	if !errors.As(err, &ee) {
		return false
	}
	return ee.Category == ErrCategoryMatch || ee.Category == ErrCategoryQuery
}
