// Package prompt provides terminal confirmation adapters.
package prompt

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/chrisokoth/ops-toolkit/internal/ports"
)

// TerminalPrompter collects y/N answers from an interactive terminal.
// When stdin is not a terminal it fails closed and answers no, so that
// destructive steps are never approved implicitly in scripts or CI.
type TerminalPrompter struct {
	in          io.Reader
	out         io.Writer
	interactive bool
}

// TerminalPrompterOption configures the prompter.
type TerminalPrompterOption func(*TerminalPrompter)

// WithInput sets the input reader and marks the prompter interactive.
// Intended for tests.
func WithInput(r io.Reader) TerminalPrompterOption {
	return func(p *TerminalPrompter) {
		p.in = r
		p.interactive = true
	}
}

// WithOutput sets the writer questions are printed to.
func WithOutput(w io.Writer) TerminalPrompterOption {
	return func(p *TerminalPrompter) {
		p.out = w
	}
}

// NewTerminalPrompter creates a prompter bound to stdin/stdout.
func NewTerminalPrompter(opts ...TerminalPrompterOption) *TerminalPrompter {
	p := &TerminalPrompter{
		in:  os.Stdin,
		out: os.Stdout,
		interactive: isatty.IsTerminal(os.Stdin.Fd()) ||
			isatty.IsCygwinTerminal(os.Stdin.Fd()),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Confirm asks the question and returns true only on an explicit yes.
func (p *TerminalPrompter) Confirm(_ context.Context, question string) bool {
	if !p.interactive {
		return false
	}

	_, _ = fmt.Fprintf(p.out, "%s [y/N]: ", question)

	reader := bufio.NewReader(p.in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

// Ensure TerminalPrompter implements ports.Prompter.
var _ ports.Prompter = (*TerminalPrompter)(nil)
