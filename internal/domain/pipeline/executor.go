package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
	"github.com/chrisokoth/ops-toolkit/internal/domain/registry"
	"github.com/chrisokoth/ops-toolkit/internal/ports"
)

// State is the executor's lifecycle state.
type State string

const (
	// StatePlanning means stages are assembled but nothing has mutated.
	StatePlanning State = "planning"
	// StateRunning means actions are being applied.
	StateRunning State = "running"
	// StateCommitted means all stages completed and the ledger persisted.
	StateCommitted State = "committed"
	// StateRolledBack means a failure occurred and applied actions were undone.
	StateRolledBack State = "rolled-back"
)

// Events driving the run state machine.
const (
	eventStart  = "START"
	eventCommit = "COMMIT"
	eventFail   = "FAIL"
)

// runMachineContext is the statekit context for a pipeline run.
type runMachineContext struct{}

// buildRunMachine constructs the Planning → Running → {Committed, RolledBack}
// lifecycle machine.
func buildRunMachine() (*statekit.Interpreter[runMachineContext], error) {
	machine, err := statekit.NewMachine[runMachineContext]("provisioning-run").
		WithInitial(statekit.StateID(StatePlanning)).
		WithContext(runMachineContext{}).
		State(statekit.StateID(StatePlanning)).
		On(eventStart).Target(statekit.StateID(StateRunning)).
		On(eventFail).Target(statekit.StateID(StateRolledBack)).Done().
		State(statekit.StateID(StateRunning)).
		On(eventCommit).Target(statekit.StateID(StateCommitted)).
		On(eventFail).Target(statekit.StateID(StateRolledBack)).Done().
		State(statekit.StateID(StateCommitted)).Done().
		State(statekit.StateID(StateRolledBack)).Done().
		Build()
	if err != nil {
		return nil, err
	}
	return statekit.NewInterpreter(machine), nil
}

// Executor runs stages in order. On the first action failure it undoes
// every applied action in strict reverse order and surfaces the original
// failure. Execution is strictly sequential: the host's package manager,
// service manager and certificate authority client are not safe to invoke
// concurrently, and stage ordering is a correctness requirement.
type Executor struct {
	repo     registry.Repository
	prompter ports.Prompter
	logger   ports.Logger
}

// NewExecutor creates a new Executor with no persistence and denied
// confirmations.
func NewExecutor() *Executor {
	return &Executor{}
}

// WithRepository returns an Executor that persists the applied ledger on
// commit.
func (e *Executor) WithRepository(repo registry.Repository) *Executor {
	return &Executor{repo: repo, prompter: e.prompter, logger: e.logger}
}

// WithPrompter returns an Executor whose actions confirm destructive
// mutations through the given gate.
func (e *Executor) WithPrompter(p ports.Prompter) *Executor {
	return &Executor{repo: e.repo, prompter: p, logger: e.logger}
}

// WithLogger returns an Executor logging through the given logger.
func (e *Executor) WithLogger(l ports.Logger) *Executor {
	return &Executor{repo: e.repo, prompter: e.prompter, logger: l}
}

// Run executes the stages for the named deployment. The returned report's
// Err is nil exactly when the run committed. Cancellation of ctx triggers
// the same rollback path as an action failure; rollback itself runs on a
// fresh context so it completes even after interruption.
func (e *Executor) Run(ctx context.Context, deploymentName string, stages []Stage) *RunReport {
	report := &RunReport{State: StatePlanning}

	interp, err := buildRunMachine()
	if err != nil {
		report.Err = err
		return report
	}
	interp.Start()
	defer interp.Stop()
	report.State = State(interp.State().Value)

	runCtx := NewRunContext(ctx).WithLogger(e.logger)
	if e.prompter != nil {
		runCtx = runCtx.WithPrompter(e.prompter)
	}

	ledger := registry.NewLedger()
	applied := make([]Action, 0)

	interp.Send(statekit.Event{Type: eventStart})
	report.State = State(interp.State().Value)

	failure := e.applyStages(runCtx, stages, ledger, &applied, report)

	if failure == nil {
		// An interrupt arriving during the final action must not commit.
		select {
		case <-ctx.Done():
			failure = fmt.Errorf("%w: %v", ErrInterrupted, ctx.Err())
		default:
		}
	}

	if failure == nil {
		record, commitErr := e.commit(ctx, deploymentName, ledger)
		if commitErr == nil {
			interp.Send(statekit.Event{Type: eventCommit})
			report.State = State(interp.State().Value)
			report.Record = record
			return report
		}
		failure = commitErr
	}

	report.Rollback, report.Warnings = e.rollback(applied)

	interp.Send(statekit.Event{Type: eventFail})
	report.State = State(interp.State().Value)
	report.Err = failure
	return report
}

// applyStages applies actions one at a time, appending each applied
// descriptor to the ledger immediately on success so rollback is exact
// even when failure strikes mid-stage. Returns the original failure, or
// nil when every action applied.
func (e *Executor) applyStages(runCtx RunContext, stages []Stage, ledger *registry.Ledger, applied *[]Action, report *RunReport) error {
	ctx := runCtx.Context()

	for _, stage := range stages {
		for _, action := range stage.Actions() {
			select {
			case <-ctx.Done():
				return fmt.Errorf("%w: %v", ErrInterrupted, ctx.Err())
			default:
			}

			desc := action.Descriptor()
			runCtx.Logger().Debug(ctx, "applying action",
				ports.F("stage", stage.Name()), ports.F("resource", desc.String()))

			start := time.Now()
			err := action.Apply(runCtx)
			duration := time.Since(start)

			if err != nil {
				failure := wrapFailure(desc, err)
				report.Results = append(report.Results, ActionResult{
					Stage:      stage.Name(),
					Descriptor: desc,
					Status:     StatusFailed,
					Err:        failure,
					Duration:   duration,
				})
				return failure
			}

			report.Results = append(report.Results, ActionResult{
				Stage:      stage.Name(),
				Descriptor: desc,
				Status:     StatusApplied,
				Duration:   duration,
			})

			if !IsTransient(action) {
				ledger.Append(desc)
				*applied = append(*applied, action)
			}
		}
	}

	return nil
}

// commit builds the registry record and persists it. A persistence
// failure fails the run; a committed state without a durable ledger would
// make teardown blind.
func (e *Executor) commit(ctx context.Context, deploymentName string, ledger *registry.Ledger) (*registry.Record, error) {
	record, err := registry.NewRecord(deploymentName, ledger.Entries())
	if err != nil {
		return nil, err
	}
	if e.repo != nil {
		if err := e.repo.Save(ctx, record); err != nil {
			return nil, fmt.Errorf("persist registry record: %w", err)
		}
	}
	return record, nil
}

// rollback undoes applied actions in strict reverse order. Undo errors
// are downgraded to warnings and never abort the remaining rollback.
// A fresh context is used so rollback completes after interruption.
func (e *Executor) rollback(applied []Action) ([]RollbackResult, []UndoWarning) {
	results := make([]RollbackResult, 0, len(applied))
	warnings := make([]UndoWarning, 0)

	undoCtx := NewRunContext(context.Background()).
		WithLogger(e.logger).
		WithRollback(true)
	if e.prompter != nil {
		undoCtx = undoCtx.WithPrompter(e.prompter)
	}

	for i := len(applied) - 1; i >= 0; i-- {
		action := applied[i]
		desc := action.Descriptor()

		start := time.Now()
		err := action.Undo(undoCtx)
		result := RollbackResult{
			Descriptor: desc,
			Err:        err,
			Duration:   time.Since(start),
		}
		results = append(results, result)

		if err != nil {
			warnings = append(warnings, UndoWarning{Descriptor: desc, Err: err})
			undoCtx.Logger().Warn(undoCtx.Context(), "undo failed",
				ports.F("resource", desc.String()), ports.F("error", err))
		}
	}

	return results, warnings
}

// wrapFailure preserves typed failures and wraps everything else in an
// ActionError carrying the descriptor.
func wrapFailure(desc deployment.Descriptor, err error) error {
	var verr *VerificationError
	if errors.As(err, &verr) {
		return err
	}
	var aerr *ActionError
	if errors.As(err, &aerr) {
		return err
	}
	return NewActionError(desc, err)
}
