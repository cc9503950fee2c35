package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chrisokoth/ops-toolkit/internal/app"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Provision an application onto this host",
	Long: `Deploy runs the provisioning pipeline for one application:

1. Installs system packages
2. Creates the database role and database
3. Writes the env file, runtime config and service unit, starts the unit
4. Enables the reverse-proxy virtual host
5. Issues the TLS certificate
6. Probes the application URL until it responds

On the first failure every applied step is undone in reverse order.
On success the applied resources are recorded for a later teardown.

Use --dry-run to see the planned actions without making changes.`,
	RunE: runDeploy,
}

var (
	deployManifest     string
	deployName         string
	deployDomain       string
	deployAliases      []string
	deployWorkDir      string
	deployDBName       string
	deployDBUser       string
	deployDBPassword   string
	deployServiceUser  string
	deployStartCommand string
	deployWorkers      int
	deployEmail        string
	deploySkipTLS      bool
	deployEnvFile      string
	deployDryRun       bool

	deployFrontendName    string
	deployFrontendDomain  string
	deployFrontendDist    string
	deployFrontendAliases []string
)

func init() {
	rootCmd.AddCommand(deployCmd)

	deployCmd.Flags().StringVarP(&deployManifest, "manifest", "f", "", "deployment manifest file (.yaml, .yml or .toml)")
	deployCmd.Flags().StringVar(&deployName, "name", "", "application name")
	deployCmd.Flags().StringVar(&deployDomain, "domain", "", "primary domain")
	deployCmd.Flags().StringSliceVar(&deployAliases, "alias", nil, "extra domain served by the same vhost (repeatable)")
	deployCmd.Flags().StringVar(&deployWorkDir, "work-dir", "", "application working directory")
	deployCmd.Flags().StringVar(&deployDBName, "db-name", "", "database name (default: derived from name)")
	deployCmd.Flags().StringVar(&deployDBUser, "db-user", "", "database role (default: derived from name)")
	deployCmd.Flags().StringVar(&deployDBPassword, "db-password", "", "database role password")
	deployCmd.Flags().StringVar(&deployServiceUser, "service-user", "", "account the unit runs as (default: "+app.DefaultServiceUser+")")
	deployCmd.Flags().StringVar(&deployStartCommand, "start-command", "", "unit ExecStart override")
	deployCmd.Flags().IntVar(&deployWorkers, "workers", 0, "application-server worker count")
	deployCmd.Flags().StringVar(&deployEmail, "email", "", "contact email for certificate issuance")
	deployCmd.Flags().BoolVar(&deploySkipTLS, "skip-tls", false, "skip certificate issuance")
	deployCmd.Flags().StringVar(&deployEnvFile, "env-file", "", "file with KEY=value environment entries")
	deployCmd.Flags().BoolVar(&deployDryRun, "dry-run", false, "show planned actions without making changes")

	deployCmd.Flags().StringVar(&deployFrontendName, "frontend-name", "", "static frontend application name")
	deployCmd.Flags().StringVar(&deployFrontendDomain, "frontend-domain", "", "static frontend domain")
	deployCmd.Flags().StringVar(&deployFrontendDist, "frontend-dist", "", "static frontend build output directory")
	deployCmd.Flags().StringSliceVar(&deployFrontendAliases, "frontend-alias", nil, "extra frontend domain (repeatable)")
}

func runDeploy(cmd *cobra.Command, _ []string) error {
	// Rollback runs on a fresh context, so a second Ctrl-C during
	// rollback still lets it finish.
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	params, err := collectDeployParams(cmd)
	if err != nil {
		return err
	}

	opts := append(serviceOptions(), app.WithDryRun(deployDryRun))
	service := app.NewService(os.Stdout, opts...)

	if _, err := service.Deploy(ctx, params); err != nil {
		return err
	}
	return nil
}

// collectDeployParams merges the manifest, if given, with flags. A flag
// explicitly set on the command line overrides the manifest value.
func collectDeployParams(cmd *cobra.Command) (*app.DeployParams, error) {
	params := &app.DeployParams{}
	if deployManifest != "" {
		loaded, err := app.LoadManifest(deployManifest)
		if err != nil {
			return nil, err
		}
		params = loaded
	}

	flags := cmd.Flags()
	setString := func(flag string, dst *string, value string) {
		if flags.Changed(flag) {
			*dst = value
		}
	}
	setString("name", &params.Name, deployName)
	setString("domain", &params.Domain, deployDomain)
	setString("work-dir", &params.WorkDir, deployWorkDir)
	setString("db-name", &params.DatabaseName, deployDBName)
	setString("db-user", &params.DatabaseUser, deployDBUser)
	setString("db-password", &params.DatabasePassword, deployDBPassword)
	setString("service-user", &params.ServiceUser, deployServiceUser)
	setString("start-command", &params.StartCommand, deployStartCommand)
	setString("email", &params.Email, deployEmail)
	if flags.Changed("alias") {
		params.Aliases = deployAliases
	}
	if flags.Changed("workers") {
		params.Workers = deployWorkers
	}
	if flags.Changed("skip-tls") {
		params.SkipTLS = deploySkipTLS
	}

	if deployFrontendName != "" || deployFrontendDomain != "" || deployFrontendDist != "" {
		if params.Frontend == nil {
			params.Frontend = &app.FrontendParams{}
		}
		setString("frontend-name", &params.Frontend.Name, deployFrontendName)
		setString("frontend-domain", &params.Frontend.Domain, deployFrontendDomain)
		setString("frontend-dist", &params.Frontend.DistDir, deployFrontendDist)
		if flags.Changed("frontend-alias") {
			params.Frontend.Aliases = deployFrontendAliases
		}
	}

	if deployEnvFile != "" {
		raw, err := os.ReadFile(deployEnvFile)
		if err != nil {
			return nil, fmt.Errorf("read env file: %w", err)
		}
		params.EnvContent = string(raw)
	}

	return params, nil
}
