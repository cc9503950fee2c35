// Package systemd provides actions that enable and disable process
// manager units via systemctl.
package systemd

import (
	"fmt"
	"strings"

	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
	"github.com/chrisokoth/ops-toolkit/internal/domain/pipeline"
	"github.com/chrisokoth/ops-toolkit/internal/ports"
	"github.com/chrisokoth/ops-toolkit/internal/validation"
)

// EnableAction reloads the daemon and enables and starts one unit. The
// unit file itself is written by a separate rendered-file action, so this
// action's undo stops and disables without touching the file.
type EnableAction struct {
	unit   string
	desc   deployment.Descriptor
	runner ports.CommandRunner
}

// NewEnableAction creates an enable action for the unit.
func NewEnableAction(unit, unitFilePath string, runner ports.CommandRunner) *EnableAction {
	return &EnableAction{
		unit:   unit,
		desc:   deployment.MustNewDescriptor(deployment.KindServiceUnit, unit, unitFilePath),
		runner: runner,
	}
}

// NewDisableActionFromDescriptor reconstructs an undo-only action from a
// registry descriptor.
func NewDisableActionFromDescriptor(desc deployment.Descriptor, runner ports.CommandRunner) *EnableAction {
	return &EnableAction{
		unit:   desc.Identifier(),
		desc:   desc,
		runner: runner,
	}
}

// Descriptor returns the service-unit descriptor.
func (a *EnableAction) Descriptor() deployment.Descriptor {
	return a.desc
}

// Apply reloads the daemon and enables the unit now. Enabling an
// already-enabled unit is a systemctl no-op.
func (a *EnableAction) Apply(ctx pipeline.RunContext) error {
	if err := validation.ValidateUnitName(a.unit); err != nil {
		return err
	}

	if err := a.systemctl(ctx, "daemon-reload"); err != nil {
		return err
	}
	return a.systemctl(ctx, "enable", "--now", a.unit)
}

// Present reports whether the service manager knows the unit at all.
func (a *EnableAction) Present(ctx pipeline.RunContext) (bool, error) {
	result, err := a.runner.Run(ctx.Context(), "systemctl", "cat", a.unit)
	if err != nil {
		return false, err
	}
	return result.Success(), nil
}

// Undo stops and disables the unit. A unit the service manager does not
// know is success.
func (a *EnableAction) Undo(ctx pipeline.RunContext) error {
	if err := validation.ValidateUnitName(a.unit); err != nil {
		return err
	}

	result, err := a.runner.Run(ctx.Context(), "sudo", "systemctl", "disable", "--now", a.unit)
	if err != nil {
		return err
	}
	if !result.Success() && !unitAbsent(result.Stderr) {
		return fmt.Errorf("systemctl disable %s failed: %s", a.unit, strings.TrimSpace(result.Stderr))
	}

	return a.systemctl(ctx, "daemon-reload")
}

// systemctl runs one systemctl subcommand and fails on non-zero exit.
func (a *EnableAction) systemctl(ctx pipeline.RunContext, args ...string) error {
	result, err := a.runner.Run(ctx.Context(), "sudo", append([]string{"systemctl"}, args...)...)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("systemctl %s failed: %s", strings.Join(args, " "), strings.TrimSpace(result.Stderr))
	}
	return nil
}

// unitAbsent matches systemctl's wording for units it does not know.
func unitAbsent(stderr string) bool {
	return strings.Contains(stderr, "does not exist") ||
		strings.Contains(stderr, "not loaded") ||
		strings.Contains(stderr, "No such file")
}

// Ensure EnableAction implements pipeline.StatefulAction.
var _ pipeline.StatefulAction = (*EnableAction)(nil)
