package domain

import (
	"errors"
	"sort"
	"strings"
)

// Form conversion errors
var (
	ErrInvalidStatusID = errors.New("invalid status id")
	ErrInvalidBudget   = errors.New("invalid budget")
)

// FieldErrors maps a form field name to its validation message
type FieldErrors map[string]string

// Error implements the error interface
func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for field := range e {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, field+": "+e[field])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Has reports whether the field has an error
func (e FieldErrors) Has(field string) bool {
	_, ok := e[field]
	return ok
}

// ValidationMessages provides human-readable validation error messages
// These map validator tags to user-friendly messages
var ValidationMessages = map[string]string{
	"required": "This field is required",
	"max":      "Exceeds maximum length",
	"min":      "Below minimum length",
	"number":   "Must be a whole number",
	"budget":   "Must be a number greater than or equal to 0",
}

// GetValidationMessage returns a human-readable message for a validation tag
func GetValidationMessage(tag string) string {
	if msg, ok := ValidationMessages[tag]; ok {
		return msg
	}
	return "Validation failed: " + tag
}
