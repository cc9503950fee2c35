package app

import (
	"context"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/chrisokoth/ops-toolkit/internal/adapters/command"
	"github.com/chrisokoth/ops-toolkit/internal/adapters/filesystem"
	"github.com/chrisokoth/ops-toolkit/internal/adapters/logging"
	"github.com/chrisokoth/ops-toolkit/internal/adapters/statedir"
	"github.com/chrisokoth/ops-toolkit/internal/domain/pipeline"
	"github.com/chrisokoth/ops-toolkit/internal/domain/registry"
	"github.com/chrisokoth/ops-toolkit/internal/ports"
	"github.com/chrisokoth/ops-toolkit/internal/probe"
)

// resolution rounds durations in human output.
const resolution = time.Millisecond

// Service wires the pipeline executor, providers and registry into the
// operations the CLI exposes: deploy, plan, teardown and list.
type Service struct {
	out      io.Writer
	runner   ports.CommandRunner
	fs       ports.FileSystem
	logger   ports.Logger
	prompter ports.Prompter
	repo     registry.Repository
	probe    *probe.Probe
	dryRun   bool
}

// ServiceOption configures a Service during construction.
type ServiceOption func(*Service)

// WithRunner sets the command runner.
func WithRunner(r ports.CommandRunner) ServiceOption {
	return func(s *Service) { s.runner = r }
}

// WithFileSystem sets the filesystem adapter.
func WithFileSystem(fs ports.FileSystem) ServiceOption {
	return func(s *Service) { s.fs = fs }
}

// WithLogger sets the logger.
func WithLogger(l ports.Logger) ServiceOption {
	return func(s *Service) { s.logger = l }
}

// WithPrompter sets the confirmation gate for destructive steps.
func WithPrompter(p ports.Prompter) ServiceOption {
	return func(s *Service) { s.prompter = p }
}

// WithRepository sets the registry repository.
func WithRepository(repo registry.Repository) ServiceOption {
	return func(s *Service) { s.repo = repo }
}

// WithProbe sets the verification probe.
func WithProbe(p *probe.Probe) ServiceOption {
	return func(s *Service) { s.probe = p }
}

// WithDryRun makes Deploy stop after planning and print the stages
// instead of executing them.
func WithDryRun(dryRun bool) ServiceOption {
	return func(s *Service) { s.dryRun = dryRun }
}

// NewService creates a Service writing human output to out. Defaults:
// real command runner and filesystem, discarded logs, denied
// confirmations, registry in the default state directory.
func NewService(out io.Writer, opts ...ServiceOption) *Service {
	s := &Service{
		out:      out,
		runner:   command.NewRealRunner(),
		fs:       filesystem.NewOSFileSystem(),
		logger:   logging.NewNopLogger(),
		prompter: ports.DenyAll{},
		repo:     statedir.NewYAMLRepository(""),
		probe:    probe.New(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deploy provisions the deployment described by params. The returned
// report's Err is nil exactly when the run committed; on failure every
// applied action has been undone in reverse order and Err carries the
// original trigger.
func (s *Service) Deploy(ctx context.Context, params *DeployParams) (*pipeline.RunReport, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	dep, err := params.Deployment()
	if err != nil {
		return nil, err
	}

	stages, err := s.buildStages(dep, params)
	if err != nil {
		return nil, err
	}

	if s.dryRun {
		s.printStages(dep.Name(), stages)
		return &pipeline.RunReport{State: pipeline.StatePlanning}, nil
	}

	if s.repo.Exists(ctx, dep.Name()) {
		if !s.prompter.Confirm(ctx, fmt.Sprintf(
			"A committed record for %q already exists. Re-run provisioning? Idempotent steps are skipped; destructive ones will ask again.", dep.Name())) {
			return nil, fmt.Errorf("%w: deployment %q already committed", pipeline.ErrAborted, dep.Name())
		}
	}

	executor := pipeline.NewExecutor().
		WithRepository(s.repo).
		WithPrompter(s.prompter).
		WithLogger(s.logger)

	report := executor.Run(ctx, dep.Name(), stages)
	s.printReport(dep.Name(), report)

	if report.Err != nil {
		return report, report.Err
	}
	fmt.Fprintf(s.out, "\nApplication is live at %s\n", liveURL(params, dep.SecureURL(), dep.URL()))
	if fe := dep.Frontend(); fe != nil {
		fmt.Fprintf(s.out, "Frontend is live at %s\n", liveURL(params, fe.SecureURL(), fe.URL()))
	}
	return report, nil
}

// Plan validates parameters and prints the stages and actions a deploy
// would run, without touching the host or the registry.
func (s *Service) Plan(_ context.Context, params *DeployParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	dep, err := params.Deployment()
	if err != nil {
		return err
	}

	stages, err := s.buildStages(dep, params)
	if err != nil {
		return err
	}

	s.printStages(dep.Name(), stages)
	return nil
}

// List prints every committed deployment on this host.
func (s *Service) List(ctx context.Context) error {
	records, err := s.repo.List(ctx)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Fprintln(s.out, "No committed deployments.")
		return nil
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].DeploymentName() < records[j].DeploymentName()
	})

	for _, record := range records {
		fmt.Fprintf(s.out, "%s\t%d resources\tcommitted %s\n",
			record.DeploymentName(), record.Len(), record.CreatedAt().Format("2006-01-02 15:04:05 MST"))
	}
	return nil
}

// printStages renders a planned pipeline for the operator.
func (s *Service) printStages(name string, stages []pipeline.Stage) {
	fmt.Fprintf(s.out, "Plan for %q:\n", name)
	for _, stage := range stages {
		if stage.IsEmpty() {
			continue
		}
		fmt.Fprintf(s.out, "  stage %s:\n", stage.Name())
		for _, action := range stage.Actions() {
			fmt.Fprintf(s.out, "    - %s\n", action.Descriptor())
		}
	}
}

// printReport renders the run outcome: applied actions on success, the
// trigger plus rollback account on failure.
func (s *Service) printReport(name string, report *pipeline.RunReport) {
	if report.Committed() {
		fmt.Fprintf(s.out, "Deployment %q committed: %d actions applied.\n", name, report.AppliedCount())
		for _, res := range report.Results {
			fmt.Fprintf(s.out, "  [%s] %s (%s)\n", res.Stage, res.Descriptor, res.Duration.Round(resolution))
		}
		return
	}

	fmt.Fprintf(s.out, "Deployment %q failed: %v\n", name, report.Err)
	if len(report.Rollback) > 0 {
		fmt.Fprintf(s.out, "Rolled back %d applied actions:\n", len(report.Rollback))
		for _, rb := range report.Rollback {
			marker := "ok"
			if rb.Err != nil {
				marker = "warning"
			}
			fmt.Fprintf(s.out, "  [%s] %s\n", marker, rb.Descriptor)
		}
	}
	for _, warning := range report.Warnings {
		fmt.Fprintf(s.out, "Manual cleanup needed: %s\n", warning)
	}
}

// liveURL picks the secure URL unless TLS was skipped.
func liveURL(params *DeployParams, secure, plain string) string {
	if params.SkipTLS {
		return plain
	}
	return secure
}
