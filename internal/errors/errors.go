// Package errors provides error handling utilities.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Type identifies the category of error
type Type string

const (
	// TypeInput indicates malformed input (bad JSON, bad date format)
	TypeInput Type = "INPUT_ERROR"

	// TypeValidation indicates input that is well-formed but outside the collector's rules
	TypeValidation Type = "VALIDATION_ERROR"

	// TypeUnrecognizedKey indicates a selection value that is not in the catalog
	TypeUnrecognizedKey Type = "UNRECOGNIZED_KEY"

	// TypeConfig indicates a configuration or rate table error
	TypeConfig Type = "CONFIG_ERROR"

	// TypeParsing indicates a rate table file could not be parsed
	TypeParsing Type = "PARSING_ERROR"

	// TypeRender indicates a document could not be rendered
	TypeRender Type = "RENDER_ERROR"

	// TypeNotification indicates an email could not be delivered
	TypeNotification Type = "NOTIFICATION_ERROR"

	// TypeInternal indicates an internal error
	TypeInternal Type = "INTERNAL_ERROR"
)

// Error represents a domain error with context
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is checks if the error is of a specific type
func (e *Error) Is(t Type) bool {
	return e.Type == t
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// New creates a new error
func New(errType Type, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
	}
}

// Newf creates a new formatted error
func Newf(errType Type, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an error with context
func Wrap(errType Type, message string, cause error) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Cause:   cause,
	}
}

// IsType reports whether err, or any error it wraps, is an *Error of type t
func IsType(err error, t Type) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// TypeOf returns the type of the first *Error in err's chain, or TypeInternal
func TypeOf(err error) Type {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return TypeInternal
}

// Input creates an input error
func Input(message string, cause error) *Error {
	return Wrap(TypeInput, message, cause)
}

// Validation creates a validation error listing the offending fields
func Validation(fields map[string]string) *Error {
	e := New(TypeValidation, "selection failed validation")
	for k, v := range fields {
		e.WithContext(k, v)
	}
	return e
}

// UnrecognizedKey reports a catalog value that the rate table does not know about
func UnrecognizedKey(kind, value string) *Error {
	return Newf(TypeUnrecognizedKey, "unrecognized %s %q", kind, value).
		WithContext("kind", kind).
		WithContext("value", value)
}

// Config creates a configuration error
func Config(message string) *Error {
	return New(TypeConfig, message)
}

// Parsing creates a parsing error
func Parsing(message string, cause error) *Error {
	return Wrap(TypeParsing, message, cause)
}

// Render creates a document rendering error
func Render(message string, cause error) *Error {
	return Wrap(TypeRender, message, cause)
}

// Notification creates an email delivery error
func Notification(message string, cause error) *Error {
	return Wrap(TypeNotification, message, cause)
}

// Internal creates an internal error
func Internal(message string, cause error) *Error {
	return Wrap(TypeInternal, message, cause)
}
