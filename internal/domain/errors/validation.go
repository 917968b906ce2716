package errors

import (
	"net/http"
	"strings"
)

// FieldError describes one rejected request field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError is a 400 carrying every rejected field of a request.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError from field errors.
func NewValidationError(fields ...FieldError) *ValidationError {
	return &ValidationError{Fields: fields}
}

// NewFieldInUseError reports a uniqueness violation on field, e.g. "email is in use.".
func NewFieldInUseError(field string) *ValidationError {
	e := NewValidationError()
	e.AddFieldInUse(field)

	return e
}

// Add appends a field error.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// AddFieldInUse appends a uniqueness violation on field.
func (e *ValidationError) AddFieldInUse(field string) {
	e.Add(field, field+" is in use.")
}

// Empty reports whether no field was rejected.
func (e *ValidationError) Empty() bool {
	return e == nil || len(e.Fields) == 0
}

// HasField reports whether field was rejected.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}

	return false
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) HTTPCode() int {
	return http.StatusBadRequest
}

func (e *ValidationError) ErrorCode() string {
	return "VALIDATION_FAILED"
}

func (e *ValidationError) Message() string {
	return "Validation failed."
}

func (e *ValidationError) Details() string {
	return e.Error()
}
