package pipeline

import (
	"time"

	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
	"github.com/chrisokoth/ops-toolkit/internal/domain/registry"
)

// Status is the outcome of one action within a run.
type Status string

const (
	// StatusApplied means the action completed successfully.
	StatusApplied Status = "applied"
	// StatusFailed means the action failed and triggered rollback.
	StatusFailed Status = "failed"
)

// ActionResult records the outcome of a single action.
type ActionResult struct {
	Stage      string
	Descriptor deployment.Descriptor
	Status     Status
	Err        error
	Duration   time.Duration
}

// Success returns true if the action applied cleanly.
func (r ActionResult) Success() bool {
	return r.Status == StatusApplied
}

// RollbackResult records the outcome of undoing one applied action.
type RollbackResult struct {
	Descriptor deployment.Descriptor
	Err        error
	Duration   time.Duration
}

// Success returns true if the undo completed without an unexpected error.
func (r RollbackResult) Success() bool {
	return r.Err == nil
}

// RunReport is the full account of a pipeline run: the terminal state,
// per-action results, rollback results and warnings when the run failed,
// and the committed record when it succeeded. Err is always the original
// triggering failure, never a secondary undo error.
type RunReport struct {
	State    State
	Results  []ActionResult
	Rollback []RollbackResult
	Warnings []UndoWarning
	Record   *registry.Record
	Err      error
}

// Committed returns true if the run reached the committed state.
func (r *RunReport) Committed() bool {
	return r.State == StateCommitted
}

// AppliedCount returns how many actions applied successfully.
func (r *RunReport) AppliedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.Success() {
			n++
		}
	}
	return n
}
