package plan

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrCyclicDependency is returned when a service depends on itself,
	// directly or transitively.
	ErrCyclicDependency = errors.New("cyclic dependency")

	// ErrDuplicateServiceName is returned when two distinct services in one
	// run share a name.
	ErrDuplicateServiceName = errors.New("duplicate service name")
)

// CycleError reports the dependency path that closes a cycle. The first and
// last entries name the same service.
type CycleError struct {
	Path []string
}

// Error implements the error interface.
func (e *CycleError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCyclicDependency, strings.Join(e.Path, " -> "))
}

// Unwrap returns ErrCyclicDependency.
func (e *CycleError) Unwrap() error {
	return ErrCyclicDependency
}

// DuplicateNameError reports a name claimed by two distinct services.
type DuplicateNameError struct {
	Name string

	// Parents name the services that declared each claimant; empty for a
	// top-level service.
	FirstParent  string
	SecondParent string
}

// Error implements the error interface.
func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s: %q declared by %s and %s",
		ErrDuplicateServiceName, e.Name, declaredBy(e.FirstParent), declaredBy(e.SecondParent))
}

// Unwrap returns ErrDuplicateServiceName.
func (e *DuplicateNameError) Unwrap() error {
	return ErrDuplicateServiceName
}

func declaredBy(parent string) string {
	if parent == "" {
		return "the top level"
	}
	return parent
}
