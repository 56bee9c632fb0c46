package pipeline

import (
	"fmt"
)

// StageError reports which stage aborted a run
type StageError struct {
	Stage string
	Cause error
}

// Error implements the error interface
func (e *StageError) Error() string {
	if e == nil {
		return "unknown stage error"
	}
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Cause)
}

// Unwrap returns the underlying error, so the typed errors of the stage
// stay reachable through errors.Is and errors.As
func (e *StageError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewStageError wraps err with the stage name
func NewStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Cause: err}
}
