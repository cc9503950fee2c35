// Package pipeline implements the provisioning pipeline: actions grouped
// into stages, executed in fixed order by an executor that rolls back
// every applied action, in reverse, on the first failure.
package pipeline

import (
	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
)

// Action is a single idempotent mutation against one external system,
// paired with its undo. Apply must be safe to call when the target
// resource already exists in the desired state. Undo must swallow
// "resource not found" conditions; only unexpected errors surface, and
// the executor downgrades those to warnings.
type Action interface {
	// Descriptor names the one resource this action creates or mutates.
	Descriptor() deployment.Descriptor

	// Apply performs the mutation.
	Apply(ctx RunContext) error

	// Undo reverses the mutation. Resource already absent is success.
	Undo(ctx RunContext) error
}

// TransientAction marks actions with no durable effect, such as the
// verification probe. The executor never records them in the ledger, so
// teardown never tries to undo them.
type TransientAction interface {
	Action

	// Transient returns true when the action leaves nothing behind.
	Transient() bool
}

// IsTransient reports whether the action should be kept out of the ledger.
func IsTransient(a Action) bool {
	t, ok := a.(TransientAction)
	return ok && t.Transient()
}

// StatefulAction extends Action with an existence check, letting the
// teardown pipeline distinguish "already absent" from "removed".
type StatefulAction interface {
	Action

	// Present reports whether the resource currently exists on the host.
	Present(ctx RunContext) (bool, error)
}

// AsStateful attempts to cast an action to StatefulAction.
// Returns nil if the action does not support existence checks.
func AsStateful(a Action) StatefulAction {
	if s, ok := a.(StatefulAction); ok {
		return s
	}
	return nil
}

// FuncAction adapts a pair of functions into an Action. Used by tests
// and by small one-off steps that do not warrant a named type.
type FuncAction struct {
	Desc    deployment.Descriptor
	ApplyFn func(ctx RunContext) error
	UndoFn  func(ctx RunContext) error
}

// Descriptor returns the action's descriptor.
func (a *FuncAction) Descriptor() deployment.Descriptor {
	return a.Desc
}

// Apply invokes ApplyFn, or succeeds if none is set.
func (a *FuncAction) Apply(ctx RunContext) error {
	if a.ApplyFn == nil {
		return nil
	}
	return a.ApplyFn(ctx)
}

// Undo invokes UndoFn, or succeeds if none is set.
func (a *FuncAction) Undo(ctx RunContext) error {
	if a.UndoFn == nil {
		return nil
	}
	return a.UndoFn(ctx)
}

// Ensure FuncAction implements Action.
var _ Action = (*FuncAction)(nil)
