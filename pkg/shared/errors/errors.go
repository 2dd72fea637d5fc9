package errors

import (
	"fmt"
)

// ValidationFailedError reports a document that still violates the schema
// contract after the repair pass. Commands return it so the process exits
// non-zero while the report has already been printed.
type ValidationFailedError struct {
	Violations int
}

// Error implements the error interface.
func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("document failed schema validation with %d unresolved violation(s)", e.Violations)
}

// NewValidationFailedError creates a ValidationFailedError for the given
// violation count.
func NewValidationFailedError(violations int) error {
	return &ValidationFailedError{Violations: violations}
}
