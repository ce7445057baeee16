// Package errors provides structured error types for compgraph.
//
// Errors carry a machine-readable [Code] so the CLI and the HTTP API can react
// to the category of a failure without string matching:
//
//   - INVALID_*: input that cannot be decoded or violates layout invariants
//   - EMPTY_GRAPH: nothing to lay out (surfaces show an empty-state message)
//   - UNSUPPORTED: a requested output format or backend is not available
//   - INTERNAL_*: unexpected failures
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", f)
//	if errors.Is(err, errors.ErrCodeInvalidFormat) {
//	    // reject the request
//	}
//
//	err := errors.Wrap(errors.ErrCodeInvalidInput, cause, "decode %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeInvalidLayout Code = "INVALID_LAYOUT"
	ErrCodeInvalidStyle  Code = "INVALID_STYLE"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"

	// Nothing to render
	ErrCodeEmptyGraph Code = "EMPTY_GRAPH"

	// Resource errors
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// IsEmpty reports whether err signals that there was nothing to lay out.
func IsEmpty(err error) bool {
	return Is(err, ErrCodeEmptyGraph)
}
