// Package ports defines the interfaces the provisioning pipeline uses to
// reach the host: command execution, filesystem access, structured
// logging and operator confirmation.
package ports

import (
	"context"
)

// CommandResult is the outcome of one host command. Providers decide
// success from the exit code and surface captured stderr in their errors.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success returns true if the command exited with code 0.
func (r CommandResult) Success() bool {
	return r.ExitCode == 0
}

// CommandCall records one command invocation, used by test doubles to
// assert what a provider ran.
type CommandCall struct {
	Command string
	Args    []string
}

// CommandRunner executes host commands (apt-get, psql, systemctl,
// nginx, certbot) on behalf of provider actions.
type CommandRunner interface {
	Run(ctx context.Context, command string, args ...string) (CommandResult, error)
}
