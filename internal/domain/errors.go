// Package domain defines the core business entities and errors.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidation is the root of every validation failure.
// Use errors.Is(err, ErrValidation) to detect invalid input regardless of field.
var ErrValidation = errors.New("validation failed")

// ValidationError describes a single invalid field.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Unwrap makes every ValidationError match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ValidationErrors aggregates the failures of several fields checked together.
type ValidationErrors []*ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Error())
	}
	return strings.Join(parts, "; ")
}

// Unwrap exposes the individual field errors to errors.Is and errors.As.
func (e ValidationErrors) Unwrap() []error {
	errs := make([]error, 0, len(e))
	for _, fe := range e {
		errs = append(errs, fe)
	}
	return errs
}

// collect returns nil when no guard failed, the single error when one did,
// and a ValidationErrors otherwise.
func collect(errs ...*ValidationError) error {
	var out ValidationErrors
	for _, e := range errs {
		if e != nil {
			out = append(out, e)
		}
	}
	switch len(out) {
	case 0:
		return nil
	case 1:
		return out[0]
	default:
		return out
	}
}

// FieldErrors flattens a validation failure into a field -> message map.
// It returns nil if err carries no validation information.
func FieldErrors(err error) map[string]string {
	var many ValidationErrors
	if errors.As(err, &many) {
		fields := make(map[string]string, len(many))
		for _, fe := range many {
			if _, seen := fields[fe.Field]; !seen {
				fields[fe.Field] = fe.Message
			}
		}
		return fields
	}

	var single *ValidationError
	if errors.As(err, &single) {
		return map[string]string{single.Field: single.Message}
	}

	return nil
}
