package errors

import (
	"fmt"
)

// ErrorType classifies where in the pipeline an error originated.
type ErrorType string

const (
	// ErrTypeDecode covers malformed binary containers: bad magic, truncated
	// elements, unknown type codes.
	ErrTypeDecode ErrorType = "DECODE"

	// ErrTypeSchema covers well-formed containers whose contents do not match
	// the battery dataset schema.
	ErrTypeSchema ErrorType = "SCHEMA"

	// ErrTypeEmptySignal marks a cycle signal with no samples, which makes
	// its mean and max undefined.
	ErrTypeEmptySignal ErrorType = "EMPTY_SIGNAL"

	ErrTypeStorage    ErrorType = "STORAGE"
	ErrTypeValidation ErrorType = "VALIDATION"
	ErrTypeNotFound   ErrorType = "NOT_FOUND"
	ErrTypeConfig     ErrorType = "CONFIG"
	ErrTypePlot       ErrorType = "PLOT"
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

// NewDecodeError creates an error for a malformed binary container
func NewDecodeError(message string, cause error) *AppError {
	return NewAppError(ErrTypeDecode, message, cause)
}

// NewSchemaError creates a schema mismatch error
func NewSchemaError(message string, cause error) *AppError {
	return NewAppError(ErrTypeSchema, message, cause)
}

// NewEmptySignalError creates an error for a cycle signal with no samples.
// The battery and cycle indices locate the offending cycle in the file.
func NewEmptySignalError(field string, batteryID, cycleIndex int) *AppError {
	err := NewAppError(ErrTypeEmptySignal,
		fmt.Sprintf("signal %q is empty for battery %d cycle %d", field, batteryID, cycleIndex), nil)
	return err.WithContext("field", field).
		WithContext("battery_id", batteryID).
		WithContext("cycle_idx", cycleIndex)
}

// NewStorageError creates a storage-related error
func NewStorageError(message string, cause error) *AppError {
	return NewAppError(ErrTypeStorage, message, cause)
}

// NewAppValidationError creates a validation error for AppError type
func NewAppValidationError(message string) *AppError {
	return NewAppError(ErrTypeValidation, message, nil)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	return NewAppError(ErrTypeNotFound, fmt.Sprintf("%s not found", resource), nil)
}

// NewConfigError creates a configuration error
func NewConfigError(message string, cause error) *AppError {
	return NewAppError(ErrTypeConfig, message, cause)
}

// NewPlotError creates a plot rendering error
func NewPlotError(message string, cause error) *AppError {
	return NewAppError(ErrTypePlot, message, cause)
}
