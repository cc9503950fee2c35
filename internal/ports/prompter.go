package ports

import "context"

// Prompter asks the operator for confirmation before destructive actions.
type Prompter interface {
	// Confirm presents a yes/no question and returns the operator's answer.
	// Implementations must fail closed: when no interactive answer can be
	// collected, the answer is no.
	Confirm(ctx context.Context, question string) bool
}

// AutoApprove is a Prompter that answers yes to every question.
// Used when the operator passed an explicit --yes flag.
type AutoApprove struct{}

// Confirm always returns true.
func (AutoApprove) Confirm(_ context.Context, _ string) bool {
	return true
}

// DenyAll is a Prompter that answers no to every question.
// Used in non-interactive contexts without explicit approval.
type DenyAll struct{}

// Confirm always returns false.
func (DenyAll) Confirm(_ context.Context, _ string) bool {
	return false
}

// Ensure implementations satisfy Prompter.
var (
	_ Prompter = AutoApprove{}
	_ Prompter = DenyAll{}
)
