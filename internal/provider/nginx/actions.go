// Package nginx provides actions that enable and disable reverse-proxy
// virtual hosts. The vhost file itself is written by a rendered-file
// action; this package manages the sites-enabled symlink and reloads.
package nginx

import (
	"fmt"
	"strings"

	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
	"github.com/chrisokoth/ops-toolkit/internal/domain/pipeline"
	"github.com/chrisokoth/ops-toolkit/internal/ports"
)

// EnableVhostAction links an available vhost into sites-enabled,
// validates the full nginx configuration, and reloads. A symlink already
// pointing at the vhost is success.
type EnableVhostAction struct {
	app         string
	availPath   string
	enabledPath string
	desc        deployment.Descriptor
	fs          ports.FileSystem
	runner      ports.CommandRunner
}

// NewEnableVhostAction creates an enable action for the application vhost.
func NewEnableVhostAction(app, availPath, enabledPath string, fs ports.FileSystem, runner ports.CommandRunner) *EnableVhostAction {
	return &EnableVhostAction{
		app:         app,
		availPath:   availPath,
		enabledPath: enabledPath,
		desc:        deployment.MustNewDescriptor(deployment.KindProxyConfig, app, enabledPath),
		fs:          fs,
		runner:      runner,
	}
}

// NewDisableVhostActionFromDescriptor reconstructs an undo-only action
// from a registry descriptor.
func NewDisableVhostActionFromDescriptor(desc deployment.Descriptor, fs ports.FileSystem, runner ports.CommandRunner) *EnableVhostAction {
	return &EnableVhostAction{
		app:         desc.Identifier(),
		enabledPath: desc.Locator(),
		desc:        desc,
		fs:          fs,
		runner:      runner,
	}
}

// Descriptor returns the proxy-config descriptor.
func (a *EnableVhostAction) Descriptor() deployment.Descriptor {
	return a.desc
}

// Apply links the vhost, tests the configuration, and reloads. A failed
// configuration test removes the fresh symlink before returning, so a
// broken vhost never stays enabled.
func (a *EnableVhostAction) Apply(ctx pipeline.RunContext) error {
	if isLink, target := a.fs.IsSymlink(a.enabledPath); isLink && target == a.availPath {
		ctx.Logger().Debug(ctx.Context(), "vhost already enabled", ports.F("app", a.app))
		return a.reload(ctx)
	}

	if err := a.fs.CreateSymlink(a.availPath, a.enabledPath); err != nil {
		return fmt.Errorf("enable vhost %s: %w", a.app, err)
	}

	if err := a.configTest(ctx); err != nil {
		_ = a.fs.Remove(a.enabledPath)
		return err
	}

	return a.reload(ctx)
}

// Present reports whether the sites-enabled symlink exists.
func (a *EnableVhostAction) Present(_ pipeline.RunContext) (bool, error) {
	return a.fs.Exists(a.enabledPath), nil
}

// Undo removes the symlink and reloads. An absent symlink is success.
func (a *EnableVhostAction) Undo(ctx pipeline.RunContext) error {
	if !a.fs.Exists(a.enabledPath) {
		return nil
	}
	if err := a.fs.Remove(a.enabledPath); err != nil {
		return fmt.Errorf("disable vhost %s: %w", a.app, err)
	}
	return a.reload(ctx)
}

// configTest runs nginx -t against the full configuration.
func (a *EnableVhostAction) configTest(ctx pipeline.RunContext) error {
	result, err := a.runner.Run(ctx.Context(), "sudo", "nginx", "-t")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("nginx configuration test failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// reload asks the service manager to reload nginx.
func (a *EnableVhostAction) reload(ctx pipeline.RunContext) error {
	result, err := a.runner.Run(ctx.Context(), "sudo", "systemctl", "reload", "nginx")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("nginx reload failed: %s", strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Ensure EnableVhostAction implements pipeline.StatefulAction.
var _ pipeline.StatefulAction = (*EnableVhostAction)(nil)
