package aptpkg

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisokoth/ops-toolkit/internal/domain/pipeline"
	"github.com/chrisokoth/ops-toolkit/internal/ports"
	"github.com/chrisokoth/ops-toolkit/internal/testutil/mocks"
)

func runCtx(p ports.Prompter) pipeline.RunContext {
	return pipeline.NewRunContext(context.Background()).WithPrompter(p)
}

func dpkgQuery(pkg string) []string {
	return []string{"-W", "-f=${db:Status-Status}", pkg}
}

func TestApplySkipsInstalledPackage(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("dpkg-query", dpkgQuery("nginx"), ports.CommandResult{ExitCode: 0, Stdout: "installed"})

	action := NewInstallAction("nginx", runner)
	require.NoError(t, action.Apply(runCtx(ports.DenyAll{})))

	assert.False(t, runner.CalledWith("sudo", "apt-get", "install"))
}

func TestApplyInstallsMissingPackage(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("dpkg-query", dpkgQuery("nginx"), ports.CommandResult{ExitCode: 1})
	runner.AddSuccess("sudo", "apt-get", "install", "-y", "nginx")

	action := NewInstallAction("nginx", runner)
	require.NoError(t, action.Apply(runCtx(ports.DenyAll{})))

	assert.True(t, runner.CalledWith("sudo", "apt-get", "install", "-y", "nginx"))
}

func TestApplyRejectsUnsafePackageName(t *testing.T) {
	runner := mocks.NewCommandRunner()
	action := NewInstallAction("nginx; rm -rf /", runner)

	require.Error(t, action.Apply(runCtx(ports.DenyAll{})))
	assert.Empty(t, runner.Calls(), "no command may run for an invalid name")
}

func TestUndoAbsentPackageIsSuccess(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("dpkg-query", dpkgQuery("nginx"), ports.CommandResult{ExitCode: 1})

	action := NewInstallAction("nginx", runner)
	require.NoError(t, action.Undo(runCtx(ports.AutoApprove{})))

	assert.False(t, runner.CalledWith("sudo", "apt-get", "purge"))
}

func TestUndoPurgesWithConfirmation(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("dpkg-query", dpkgQuery("nginx"), ports.CommandResult{ExitCode: 0, Stdout: "installed"})
	runner.AddSuccess("sudo", "apt-get", "purge", "-y", "nginx")

	action := NewInstallAction("nginx", runner)
	require.NoError(t, action.Undo(runCtx(ports.AutoApprove{})))

	assert.True(t, runner.CalledWith("sudo", "apt-get", "purge", "-y", "nginx"))
}

func TestUndoDeclinedKeepsPackage(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("dpkg-query", dpkgQuery("nginx"), ports.CommandResult{ExitCode: 0, Stdout: "installed"})

	action := NewInstallAction("nginx", runner)
	require.NoError(t, action.Undo(runCtx(ports.DenyAll{})))

	assert.False(t, runner.CalledWith("sudo", "apt-get", "purge"))
}

func TestPresentReflectsInstallState(t *testing.T) {
	runner := mocks.NewCommandRunner()
	runner.AddResult("dpkg-query", dpkgQuery("nginx"), ports.CommandResult{ExitCode: 0, Stdout: "installed"})

	action := NewInstallAction("nginx", runner)
	present, err := action.Present(runCtx(ports.DenyAll{}))
	require.NoError(t, err)
	assert.True(t, present)
}
