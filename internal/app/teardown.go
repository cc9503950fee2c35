package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
	"github.com/chrisokoth/ops-toolkit/internal/domain/pipeline"
	"github.com/chrisokoth/ops-toolkit/internal/domain/registry"
	"github.com/chrisokoth/ops-toolkit/internal/ports"
	"github.com/chrisokoth/ops-toolkit/internal/provider/aptpkg"
	"github.com/chrisokoth/ops-toolkit/internal/provider/certbot"
	"github.com/chrisokoth/ops-toolkit/internal/provider/files"
	"github.com/chrisokoth/ops-toolkit/internal/provider/nginx"
	"github.com/chrisokoth/ops-toolkit/internal/provider/postgres"
	"github.com/chrisokoth/ops-toolkit/internal/provider/systemd"
)

// TeardownStatus is the per-resource outcome of a teardown run.
type TeardownStatus string

const (
	// TeardownRemoved means the resource existed and was undone.
	TeardownRemoved TeardownStatus = "removed"
	// TeardownAbsent means the resource was already gone.
	TeardownAbsent TeardownStatus = "already absent"
	// TeardownKept means the operator declined the destructive undo.
	TeardownKept TeardownStatus = "kept"
	// TeardownWarning means the undo failed; manual cleanup is needed.
	TeardownWarning TeardownStatus = "warning"
)

// TeardownResult records the outcome for one registry entry.
type TeardownResult struct {
	Descriptor deployment.Descriptor
	Status     TeardownStatus
	Err        error
}

// TeardownReport is the full account of a teardown run.
type TeardownReport struct {
	Deployment    string
	Results       []TeardownResult
	RecordDeleted bool
}

// Warnings returns the results that need manual cleanup.
func (r *TeardownReport) Warnings() []TeardownResult {
	warnings := make([]TeardownResult, 0)
	for _, res := range r.Results {
		if res.Status == TeardownWarning {
			warnings = append(warnings, res)
		}
	}
	return warnings
}

// Teardown removes every resource recorded for the deployment, in
// reverse apply order, reconstructing undo actions from the persisted
// descriptors alone. Resources that are already gone are reported as
// absent, not as errors; undo failures become warnings and never stop
// the remaining teardown. The record is deleted once every entry has
// been processed without warnings.
func (s *Service) Teardown(ctx context.Context, deploymentName string) (*TeardownReport, error) {
	record, err := s.repo.Load(ctx, deploymentName)
	if err != nil {
		if errors.Is(err, registry.ErrRecordNotFound) {
			return nil, fmt.Errorf("no committed record for %q: nothing to tear down", deploymentName)
		}
		return nil, err
	}

	runCtx := pipeline.NewRunContext(ctx).
		WithPrompter(s.prompter).
		WithLogger(s.logger)

	report := &TeardownReport{Deployment: deploymentName}
	descriptors := record.Descriptors()

	for i := len(descriptors) - 1; i >= 0; i-- {
		desc := descriptors[i]

		action, err := s.undoActionFor(desc)
		if err != nil {
			report.Results = append(report.Results, TeardownResult{
				Descriptor: desc, Status: TeardownWarning, Err: err})
			continue
		}

		report.Results = append(report.Results, s.undoOne(runCtx, action))
	}

	if len(report.Warnings()) == 0 {
		if err := s.repo.Delete(ctx, deploymentName); err != nil {
			return report, err
		}
		report.RecordDeleted = true
	}

	s.printTeardownReport(report)
	return report, nil
}

// undoOne runs one undo with existence checks around it so the report
// can distinguish removed, absent and kept.
func (s *Service) undoOne(runCtx pipeline.RunContext, action pipeline.Action) TeardownResult {
	desc := action.Descriptor()
	stateful := pipeline.AsStateful(action)

	if stateful != nil {
		present, err := stateful.Present(runCtx)
		if err != nil {
			return TeardownResult{Descriptor: desc, Status: TeardownWarning, Err: err}
		}
		if !present {
			runCtx.Logger().Debug(runCtx.Context(), "resource already absent", ports.F("resource", desc.String()))
			return TeardownResult{Descriptor: desc, Status: TeardownAbsent}
		}
	}

	if err := action.Undo(runCtx); err != nil {
		return TeardownResult{Descriptor: desc, Status: TeardownWarning, Err: err}
	}

	if stateful != nil {
		// A clean undo that left the resource behind means the operator
		// declined the confirmation gate.
		if present, err := stateful.Present(runCtx); err == nil && present {
			return TeardownResult{Descriptor: desc, Status: TeardownKept}
		}
	}

	return TeardownResult{Descriptor: desc, Status: TeardownRemoved}
}

// undoActionFor reconstructs the undo action for a persisted descriptor.
// This mapping is what makes cross-session teardown possible: the record
// stores descriptors, not closures.
func (s *Service) undoActionFor(desc deployment.Descriptor) (pipeline.Action, error) {
	switch desc.Kind() {
	case deployment.KindPackage:
		return aptpkg.NewInstallAction(desc.Identifier(), s.runner), nil
	case deployment.KindDatabaseRole:
		return postgres.NewRoleAction(desc.Identifier(), "", s.runner), nil
	case deployment.KindDatabase:
		return postgres.NewDatabaseAction(desc.Identifier(), "", s.runner), nil
	case deployment.KindServiceUnit:
		return systemd.NewDisableActionFromDescriptor(desc, s.runner), nil
	case deployment.KindProxyConfig:
		return nginx.NewDisableVhostActionFromDescriptor(desc, s.fs, s.runner), nil
	case deployment.KindCertificate:
		return certbot.NewDeleteActionFromDescriptor(desc, s.fs, s.runner), nil
	case deployment.KindDirectory:
		return files.NewEnsureDirAction(desc.Locator(), 0o755, s.fs), nil
	case deployment.KindRenderedFile:
		return files.NewRemoveFileAction(desc, s.fs), nil
	default:
		return nil, fmt.Errorf("no undo action for resource kind %q", desc.Kind())
	}
}

// printTeardownReport renders the per-resource outcomes.
func (s *Service) printTeardownReport(report *TeardownReport) {
	fmt.Fprintf(s.out, "Teardown of %q:\n", report.Deployment)
	for _, res := range report.Results {
		if res.Err != nil {
			fmt.Fprintf(s.out, "  [%s] %s: %v\n", res.Status, res.Descriptor, res.Err)
			continue
		}
		fmt.Fprintf(s.out, "  [%s] %s\n", res.Status, res.Descriptor)
	}

	if report.RecordDeleted {
		fmt.Fprintln(s.out, "Registry record deleted.")
		return
	}
	fmt.Fprintln(s.out, "Registry record kept: resolve the warnings and run teardown again.")
}
