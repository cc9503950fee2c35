package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/chrisokoth/ops-toolkit/internal/app"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List committed deployments on this host",
	RunE: func(cmd *cobra.Command, _ []string) error {
		service := app.NewService(os.Stdout, serviceOptions()...)
		return service.List(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
