package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/chrisokoth/ops-toolkit/internal/adapters/logging"
	"github.com/chrisokoth/ops-toolkit/internal/adapters/prompt"
	"github.com/chrisokoth/ops-toolkit/internal/adapters/statedir"
	"github.com/chrisokoth/ops-toolkit/internal/app"
	"github.com/chrisokoth/ops-toolkit/internal/domain/pipeline"
	"github.com/chrisokoth/ops-toolkit/internal/ports"
)

var (
	// Global flags
	verbose  bool
	yesFlag  bool
	logJSON  bool
	stateDir string
)

var rootCmd = &cobra.Command{
	Use:   "opskit",
	Short: "Idempotent, rollback-capable server provisioning",
	Long: `Opskit provisions a web application onto a host as an ordered pipeline
of idempotent actions: system packages, database, runtime config,
reverse proxy, TLS certificate and a verification probe.

Every applied resource is recorded in a durable registry. When any step
fails, everything applied so far is undone in reverse order; a later
teardown replays the registry to remove the deployment completely.`,
	SilenceErrors: true, // We handle error formatting ourselves
	SilenceUsage:  true, // Don't show usage on error
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&yesFlag, "yes", "y", false, "auto-confirm all prompts")
	rootCmd.PersistentFlags().BoolVar(&logJSON, "log-json", false, "emit logs as JSON lines")
	rootCmd.PersistentFlags().StringVar(&stateDir, "state-dir", "", "registry state directory (default: "+statedir.DefaultDir+")")

	rootCmd.AddCommand(versionCmd)
}

// serviceOptions assembles the service wiring implied by the global flags.
func serviceOptions() []app.ServiceOption {
	level := ports.LevelInfo
	if verbose {
		level = ports.LevelDebug
	}
	logger := logging.NewConsoleLogger(
		logging.WithOutput(os.Stderr),
		logging.WithLevel(level),
		logging.WithJSONFormat(logJSON),
	)

	var prompter ports.Prompter = prompt.NewTerminalPrompter()
	if yesFlag {
		prompter = ports.AutoApprove{}
	}

	return []app.ServiceOption{
		app.WithLogger(logger),
		app.WithPrompter(prompter),
		app.WithRepository(statedir.NewYAMLRepository(stateDir)),
	}
}

// formatError returns a user-friendly error message.
// With verbose=false: shows only the user message.
// With verbose=true: also shows the underlying technical error.
func formatError(err error) string {
	var perr *pipeline.PlanningError
	if errors.As(err, &perr) {
		msg := perr.Error()
		if verbose && perr.Underlying != nil {
			msg += fmt.Sprintf("\n\nTechnical details: %v", perr.Underlying)
		}
		return msg
	}
	return err.Error()
}

// printError prints an error message to stderr with proper formatting.
func printError(err error) {
	printErrorTo(os.Stderr, err)
}

// printErrorTo prints an error message to the given writer.
func printErrorTo(w io.Writer, err error) {
	_, _ = fmt.Fprintf(w, "Error: %s\n", formatError(err))
}
