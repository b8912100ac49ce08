// Package template renders flat {key} placeholders against a service's attributes.
// This is part of the Functional Core - all functions are pure with no I/O.
package template

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrMissingKey is returned when a placeholder has no matching attribute.
	ErrMissingKey = errors.New("missing substitution key")
)

// MissingKeyError reports the placeholder that could not be resolved.
type MissingKeyError struct {
	Key string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("%s: {%s}", ErrMissingKey.Error(), e.Key)
}

func (e *MissingKeyError) Unwrap() error {
	return ErrMissingKey
}
