// Package validation provides pure validation functions for a generation run.
//
// This package contains the functional core checks run after planning and
// before anything is written: service names, ports, images and proxy routes.
// All functions are pure (no I/O, no side effects).
//
// # Functions
//
//   - ValidateRun: Validate every planned service and the run as a whole
//   - ValidateName: Check a service name is usable as directory and hostname
//   - ValidatePort: Check a port number is in range
//   - ValidatePortMapping: Check a HOST:CONTAINER publish entry
//   - ValidateImage: Check an image reference parses
//   - SuggestName: Derive a valid name from an arbitrary one
//
// # Usage
//
// The generator validates the plan before attaching the registry:
//
//	if err := validation.ValidateRun(p.Services()); err != nil {
//	    return err // every problem, joined
//	}
package validation
