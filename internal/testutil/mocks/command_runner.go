// Package mocks provides test doubles for testing.
package mocks

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/chrisokoth/ops-toolkit/internal/ports"
)

// CommandRunner is a thread-safe test double for ports.CommandRunner.
// Unregistered commands fail unless a default result is set.
type CommandRunner struct {
	mu         sync.RWMutex
	results    map[string]ports.CommandResult
	errors     map[string]error
	calls      []ports.CommandCall
	hasDefault bool
	defaultRes ports.CommandResult
}

// NewCommandRunner creates a new CommandRunner mock.
func NewCommandRunner() *CommandRunner {
	return &CommandRunner{
		results: make(map[string]ports.CommandResult),
		errors:  make(map[string]error),
		calls:   make([]ports.CommandCall, 0),
	}
}

// AddResult registers an expected command and its result.
func (m *CommandRunner) AddResult(command string, args []string, result ports.CommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[buildKey(command, args)] = result
}

// AddSuccess registers an expected command that exits zero with no output.
func (m *CommandRunner) AddSuccess(command string, args ...string) {
	m.AddResult(command, args, ports.CommandResult{ExitCode: 0})
}

// AddError registers an expected command that should return an error.
func (m *CommandRunner) AddError(command string, args []string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errors[buildKey(command, args)] = err
}

// SetDefaultResult makes every unregistered command return result
// instead of failing. Useful for pipelines that issue many incidental
// commands the test does not care about.
func (m *CommandRunner) SetDefaultResult(result ports.CommandResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hasDefault = true
	m.defaultRes = result
}

// Run executes a mock command.
func (m *CommandRunner) Run(_ context.Context, command string, args ...string) (ports.CommandResult, error) {
	m.mu.Lock()
	m.calls = append(m.calls, ports.CommandCall{
		Command: command,
		Args:    args,
	})
	m.mu.Unlock()

	m.mu.RLock()
	defer m.mu.RUnlock()

	key := buildKey(command, args)

	if err, ok := m.errors[key]; ok {
		return ports.CommandResult{}, err
	}
	if result, ok := m.results[key]; ok {
		return result, nil
	}
	if m.hasDefault {
		return m.defaultRes, nil
	}

	return ports.CommandResult{}, fmt.Errorf("no mock result for command: %s %v", command, args)
}

// Calls returns all recorded command invocations.
func (m *CommandRunner) Calls() []ports.CommandCall {
	m.mu.RLock()
	defer m.mu.RUnlock()

	calls := make([]ports.CommandCall, len(m.calls))
	copy(calls, m.calls)
	return calls
}

// CalledWith reports whether any recorded invocation matches the
// command and leading arguments.
func (m *CommandRunner) CalledWith(command string, args ...string) bool {
	for _, call := range m.Calls() {
		if call.Command != command || len(call.Args) < len(args) {
			continue
		}
		match := true
		for i, arg := range args {
			if call.Args[i] != arg {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

// Reset clears all registered results, errors, and recorded calls.
func (m *CommandRunner) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = make(map[string]ports.CommandResult)
	m.errors = make(map[string]error)
	m.calls = make([]ports.CommandCall, 0)
	m.hasDefault = false
}

// buildKey creates a unique key for a command and its arguments.
func buildKey(command string, args []string) string {
	return command + ":" + strings.Join(args, ":")
}

// Ensure CommandRunner implements ports.CommandRunner.
var _ ports.CommandRunner = (*CommandRunner)(nil)
