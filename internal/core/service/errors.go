package service

import "errors"

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrUnknownKind is returned when a spec names a kind with no variant.
	ErrUnknownKind = errors.New("unknown service kind")

	// ErrInvalidSpec is returned when a spec field cannot be interpreted.
	ErrInvalidSpec = errors.New("invalid service spec")

	// ErrUnknownTarget is returned when a mutation targets a service that
	// is not part of the run.
	ErrUnknownTarget = errors.New("mutation targets unknown service")
)
