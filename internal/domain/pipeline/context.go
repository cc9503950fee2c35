package pipeline

import (
	"context"

	"github.com/chrisokoth/ops-toolkit/internal/ports"
)

// RunContext carries what actions need during Apply and Undo: the
// cancellation context, the confirmation gate for destructive mutations,
// and a logger. Actions receive everything explicitly; there is no
// ambient process state.
type RunContext struct {
	ctx      context.Context
	prompter ports.Prompter
	logger   ports.Logger
	rollback bool
}

// NewRunContext creates a RunContext with the given context.
// Defaults: destructive confirmations denied, logging discarded.
func NewRunContext(ctx context.Context) RunContext {
	return RunContext{
		ctx:      ctx,
		prompter: ports.DenyAll{},
	}
}

// Context returns the underlying context.Context.
func (r RunContext) Context() context.Context {
	return r.ctx
}

// WithPrompter returns a RunContext using the given confirmation gate.
func (r RunContext) WithPrompter(p ports.Prompter) RunContext {
	r.prompter = p
	return r
}

// WithLogger returns a RunContext carrying the given logger.
func (r RunContext) WithLogger(l ports.Logger) RunContext {
	r.logger = l
	return r
}

// WithRollback returns a RunContext marked as executing inside a same-run
// rollback. Undoing a resource created moments ago by this very run does
// not require a confirmation gate; cross-session teardown does.
func (r RunContext) WithRollback(rollback bool) RunContext {
	r.rollback = rollback
	return r
}

// Rollback reports whether this context executes a same-run rollback.
func (r RunContext) Rollback() bool {
	return r.rollback
}

// Confirm asks the operator to approve a destructive step. Inside a
// same-run rollback the answer is always yes: the resources being undone
// were created by this run.
func (r RunContext) Confirm(question string) bool {
	if r.rollback {
		return true
	}
	return r.prompter.Confirm(r.ctx, question)
}

// Logger returns the context logger, never nil.
func (r RunContext) Logger() ports.Logger {
	if r.logger == nil {
		return nopLogger{}
	}
	return r.logger
}

// nopLogger avoids nil checks at every call site.
type nopLogger struct{}

func (nopLogger) Debug(context.Context, string, ...ports.Field) {}
func (nopLogger) Info(context.Context, string, ...ports.Field)  {}
func (nopLogger) Warn(context.Context, string, ...ports.Field)  {}
func (nopLogger) Error(context.Context, string, ...ports.Field) {}
func (n nopLogger) With(...ports.Field) ports.Logger            { return n }
func (nopLogger) Level() ports.Level                            { return ports.LevelInfo }
func (nopLogger) SetLevel(ports.Level)                          {}
