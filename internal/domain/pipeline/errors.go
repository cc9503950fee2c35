package pipeline

import (
	"errors"
	"fmt"

	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
)

// ErrInterrupted is the terminal error of a run cancelled by the operator
// or a received signal. The rollback path still runs.
var ErrInterrupted = errors.New("run interrupted")

// ErrAborted is returned when the operator declined a required confirmation.
var ErrAborted = errors.New("aborted by operator")

// PlanningError indicates an invalid or missing parameter. It fails the
// run before any mutation, so there is nothing to roll back.
type PlanningError struct {
	Field      string
	Message    string
	Underlying error
}

// Error returns the formatted message.
func (e *PlanningError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid parameter %q: %s", e.Field, e.Message)
	}
	return e.Message
}

// Unwrap returns the underlying error.
func (e *PlanningError) Unwrap() error {
	return e.Underlying
}

// NewPlanningError creates a PlanningError for the given field.
func NewPlanningError(field, message string) *PlanningError {
	return &PlanningError{Field: field, Message: message}
}

// ActionError indicates one external mutation failed. It triggers full
// pipeline rollback; the original cause is preserved in the chain.
type ActionError struct {
	Descriptor deployment.Descriptor
	Err        error
}

// Error returns the formatted message.
func (e *ActionError) Error() string {
	return fmt.Sprintf("action %s failed: %v", e.Descriptor, e.Err)
}

// Unwrap returns the cause.
func (e *ActionError) Unwrap() error {
	return e.Err
}

// NewActionError wraps a failure of the action owning descriptor.
func NewActionError(descriptor deployment.Descriptor, err error) *ActionError {
	return &ActionError{Descriptor: descriptor, Err: err}
}

// VerificationError indicates the health probe exhausted its retry budget.
// Distinguished from ActionError: the deployed artifact exists but is
// unreachable or misbehaving. Also triggers full rollback.
type VerificationError struct {
	Target     string
	Attempts   int
	LastStatus int
}

// Error returns the formatted message.
func (e *VerificationError) Error() string {
	if e.LastStatus == 0 {
		return fmt.Sprintf("verification of %s failed after %d attempts: no response", e.Target, e.Attempts)
	}
	return fmt.Sprintf("verification of %s failed after %d attempts: last status %d", e.Target, e.Attempts, e.LastStatus)
}

// UndoWarning records a non-fatal rollback problem. Warnings never abort
// the remaining rollback; they are aggregated into the failure report so
// the operator sees what requires manual cleanup.
type UndoWarning struct {
	Descriptor deployment.Descriptor
	Err        error
}

// String returns the formatted warning.
func (w UndoWarning) String() string {
	return fmt.Sprintf("could not undo %s: %v", w.Descriptor, w.Err)
}
