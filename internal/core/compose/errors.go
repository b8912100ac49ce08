// Package compose assembles per-service fragments into one orchestration document.
// This is part of the Functional Core - merging and serialization are pure;
// Verify only loads the document in memory.
package compose

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// Serialization errors
	ErrUnsupportedValue = errors.New("unsupported fragment value")

	// Verification errors
	ErrEmptyDocument   = errors.New("compose document has no services")
	ErrInvalidYAML     = errors.New("invalid YAML syntax")
	ErrInvalidDocument = errors.New("compose document failed validation")
	ErrServiceMismatch = errors.New("compose document services do not match the run")
)

// DocumentError wraps errors with context about where in the document it failed.
type DocumentError struct {
	Field   string // e.g., "services.backend.expose"
	Message string
	Err     error
}

func (e *DocumentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// NewDocumentError creates a new DocumentError.
func NewDocumentError(field, message string, err error) *DocumentError {
	return &DocumentError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
