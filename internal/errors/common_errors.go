package errors

import (
	"errors"
	"fmt"
)

// ErrorType represents the type of error
type ErrorType string

const (
	ErrTypeParsing    ErrorType = "PARSING"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeConfig     ErrorType = "CONFIG"
)

// Sentinel errors for pipeline conditions that callers branch on.
var (
	// ErrMalformedDate marks a run aborted because a surviving record's
	// invoice date could not be parsed. The dataset is assumed to use one
	// consistent date format, so a single bad value is a dataset-level
	// problem, not a per-row skip condition.
	ErrMalformedDate = errors.New("malformed invoice date")

	// ErrUndefinedAverage marks an average order value requested over a
	// clean set with zero unique orders. The average is undefined, not zero.
	ErrUndefinedAverage = errors.New("average order value undefined: no orders")

	// ErrNoReport marks a report request before any pipeline run completed.
	ErrNoReport = errors.New("no metrics report computed yet")
)

// AppError represents an application-specific error
type AppError struct {
	Type    ErrorType
	Message string
	Cause   error
	Context map[string]interface{}
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Type, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap allows errors.Is and errors.As to work with AppError
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// NewAppError creates a new application error
func NewAppError(errType ErrorType, message string, cause error) *AppError {
	return &AppError{
		Type:    errType,
		Message: message,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// Helper functions for common error types

// NewParsingError creates a parsing-related error
func NewParsingError(message string, cause error) *AppError {
	return NewAppError(ErrTypeParsing, message, cause)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewMalformedDateError creates the fatal error for an unparseable invoice
// date, carrying the row number and raw value for diagnostics.
func NewMalformedDateError(row int, raw string, cause error) *AppError {
	wrapped := fmt.Errorf("%w: %w", ErrMalformedDate, cause)
	return NewParsingError(fmt.Sprintf("cannot parse invoice date %q", raw), wrapped).
		WithContext("row", row).
		WithContext("value", raw)
}
