package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chrisokoth/ops-toolkit/internal/app"
)

var teardownCmd = &cobra.Command{
	Use:   "teardown <name>",
	Short: "Remove a previously deployed application",
	Long: `Teardown removes every resource recorded for a deployment, in reverse
order of how it was applied: certificate, vhost, unit, rendered files,
database, role and packages.

Resources that are already gone are reported as absent. Destructive
steps (dropping the database, purging packages, deleting the
certificate) ask for confirmation unless --yes is given. The registry
record is deleted once everything has been processed cleanly.`,
	Args: cobra.ExactArgs(1),
	RunE: runTeardown,
}

func init() {
	rootCmd.AddCommand(teardownCmd)
}

func runTeardown(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	service := app.NewService(os.Stdout, serviceOptions()...)

	report, err := service.Teardown(ctx, args[0])
	if err != nil {
		return err
	}
	if warnings := report.Warnings(); len(warnings) > 0 {
		return fmt.Errorf("teardown finished with %d warnings", len(warnings))
	}
	return nil
}
