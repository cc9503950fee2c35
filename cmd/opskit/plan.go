package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chrisokoth/ops-toolkit/internal/app"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show the actions a deploy would run",
	Long: `Plan validates the deployment parameters and prints the stages and
actions a deploy would execute, without touching the host or the
registry. Takes the same flags as deploy.`,
	RunE: runPlan,
}

func init() {
	rootCmd.AddCommand(planCmd)

	planCmd.Flags().AddFlagSet(deployCmd.Flags())
}

func runPlan(cmd *cobra.Command, _ []string) error {
	params, err := collectDeployParams(cmd)
	if err != nil {
		return err
	}

	service := app.NewService(os.Stdout, serviceOptions()...)
	return service.Plan(cmd.Context(), params)
}
