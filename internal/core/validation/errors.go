package validation

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	ErrInvalidName  = errors.New("invalid service name")
	ErrInvalidPort  = errors.New("invalid port")
	ErrInvalidImage = errors.New("invalid image reference")
	ErrInvalidRoute = errors.New("invalid route")

	// ErrPortConflict is returned when two services publish the same host port.
	ErrPortConflict = errors.New("host port already published")

	// ErrRouteConflict is returned when two services claim the same route.
	ErrRouteConflict = errors.New("route already claimed")
)

// ValidationError reports one problem with one service.
type ValidationError struct {
	Service string
	Field   string
	Message string
	Err     error
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("service %s: %s: %s", e.Service, e.Field, e.Message)
	}
	return fmt.Sprintf("service %s: %s", e.Service, e.Message)
}

// Unwrap returns the underlying error.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a new ValidationError.
func NewValidationError(service, field, message string, err error) *ValidationError {
	return &ValidationError{
		Service: service,
		Field:   field,
		Message: message,
		Err:     err,
	}
}
