package course

import "fmt"

// ValidationError marks a field-level problem caught before any store call.
// It is reported inline to the submitter and never logged as a system fault.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError wraps err as a validation failure on the named field.
func NewValidationError(field string, err error) error {
	return &ValidationError{Field: field, Err: err}
}
