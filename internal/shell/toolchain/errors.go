package toolchain

import (
	"errors"
	"fmt"
	"strings"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrToolFailed is returned when an external tool exits non-zero or
	// cannot be started.
	ErrToolFailed = errors.New("external tool failed")

	// ErrInvalidPolicy is returned for an unknown failure policy name.
	ErrInvalidPolicy = errors.New("invalid tool failure policy")
)

// ToolError describes one failed tool invocation.
type ToolError struct {
	Service  string
	Command  string
	ExitCode int
	Stderr   string
	Err      error // start failure, if the process never ran
}

// Error implements the error interface.
func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%q", e.Command)
	if e.Service != "" {
		msg = fmt.Sprintf("service %s: %s", e.Service, msg)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", msg, ErrToolFailed, e.Err)
	}
	msg = fmt.Sprintf("%s: %s: exit code %d", msg, ErrToolFailed, e.ExitCode)
	if stderr := lastLine(e.Stderr); stderr != "" {
		msg += ": " + stderr
	}
	return msg
}

// Unwrap returns ErrToolFailed and the start failure, if any.
func (e *ToolError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrToolFailed, e.Err}
	}
	return []error{ErrToolFailed}
}

func lastLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		return s[i+1:]
	}
	return s
}
