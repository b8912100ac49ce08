package generator

import "fmt"

// =============================================================================
// Error Types
// =============================================================================

// Stages of a run, as reported by StageError.
const (
	StagePlan        = "plan"
	StageValidate    = "validate"
	StageMutate      = "mutate"
	StageInject      = "inject"
	StageMaterialize = "materialize"
	StageVerify      = "verify"
	StagePull        = "pull"
	StageWrite       = "write"
)

// StageError wraps a failure with the stage and, when known, the service.
type StageError struct {
	Stage   string
	Service string
	Err     error
}

// Error implements the error interface.
func (e *StageError) Error() string {
	if e.Service != "" {
		return fmt.Sprintf("%s %s: %v", e.Stage, e.Service, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(stage, service string, err error) *StageError {
	return &StageError{Stage: stage, Service: service, Err: err}
}
