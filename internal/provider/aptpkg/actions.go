// Package aptpkg provides actions that install and remove system
// packages through the apt package manager.
package aptpkg

import (
	"fmt"
	"strings"

	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
	"github.com/chrisokoth/ops-toolkit/internal/domain/pipeline"
	"github.com/chrisokoth/ops-toolkit/internal/ports"
	"github.com/chrisokoth/ops-toolkit/internal/validation"
)

// InstallAction installs one apt package. Installing an already-present
// package is success without side effect.
type InstallAction struct {
	pkg    string
	desc   deployment.Descriptor
	runner ports.CommandRunner
}

// NewInstallAction creates an install action for the package.
func NewInstallAction(pkg string, runner ports.CommandRunner) *InstallAction {
	return &InstallAction{
		pkg:    pkg,
		desc:   deployment.MustNewDescriptor(deployment.KindPackage, pkg, ""),
		runner: runner,
	}
}

// Descriptor returns the package descriptor.
func (a *InstallAction) Descriptor() deployment.Descriptor {
	return a.desc
}

// Apply installs the package unless it is already installed.
func (a *InstallAction) Apply(ctx pipeline.RunContext) error {
	// Validate package name before execution to prevent command injection
	if err := validation.ValidatePackageName(a.pkg); err != nil {
		return fmt.Errorf("invalid package name: %w", err)
	}

	installed, err := a.installed(ctx)
	if err != nil {
		return err
	}
	if installed {
		ctx.Logger().Debug(ctx.Context(), "package already installed", ports.F("package", a.pkg))
		return nil
	}

	result, err := a.runner.Run(ctx.Context(), "sudo", "apt-get", "install", "-y", a.pkg)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get install %s failed: %s", a.pkg, result.Stderr)
	}
	return nil
}

// Present reports whether the package is currently installed.
func (a *InstallAction) Present(ctx pipeline.RunContext) (bool, error) {
	return a.installed(ctx)
}

// Undo removes the package. An absent package is success; removal is a
// destructive step gated by confirmation during cross-session teardown.
func (a *InstallAction) Undo(ctx pipeline.RunContext) error {
	installed, err := a.installed(ctx)
	if err != nil {
		return err
	}
	if !installed {
		return nil
	}

	if !ctx.Confirm(fmt.Sprintf("Purge package %s? Other applications may depend on it.", a.pkg)) {
		ctx.Logger().Info(ctx.Context(), "package left in place", ports.F("package", a.pkg))
		return nil
	}

	result, err := a.runner.Run(ctx.Context(), "sudo", "apt-get", "purge", "-y", a.pkg)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("apt-get purge %s failed: %s", a.pkg, result.Stderr)
	}
	return nil
}

// installed checks the package state via dpkg-query.
func (a *InstallAction) installed(ctx pipeline.RunContext) (bool, error) {
	result, err := a.runner.Run(ctx.Context(), "dpkg-query", "-W", "-f=${db:Status-Status}", a.pkg)
	if err != nil {
		return false, err
	}
	// dpkg-query returns exit code 1 if the package is unknown
	if !result.Success() {
		return false, nil
	}
	return strings.Contains(result.Stdout, "installed"), nil
}

// Ensure InstallAction implements pipeline.StatefulAction.
var _ pipeline.StatefulAction = (*InstallAction)(nil)
