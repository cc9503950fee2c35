package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
	"github.com/chrisokoth/ops-toolkit/internal/domain/registry"
	"github.com/chrisokoth/ops-toolkit/internal/ports"
)

func mustRecord(t *testing.T, name string) *registry.Record {
	t.Helper()
	rec, err := registry.NewRecord(name, []deployment.Descriptor{
		deployment.MustNewDescriptor(deployment.KindPackage, "nginx", ""),
		deployment.MustNewDescriptor(deployment.KindDatabaseRole, "my_app", ""),
		deployment.MustNewDescriptor(deployment.KindDatabase, "my_app", ""),
		deployment.MustNewDescriptor(deployment.KindRenderedFile, "myapp.service", "/etc/systemd/system/myapp.service"),
		deployment.MustNewDescriptor(deployment.KindServiceUnit, "myapp.service", "/etc/systemd/system/myapp.service"),
		deployment.MustNewDescriptor(deployment.KindProxyConfig, "myapp", "/etc/nginx/sites-enabled/myapp"),
		deployment.MustNewDescriptor(deployment.KindCertificate, "example.com", "/etc/letsencrypt/live/example.com"),
	})
	require.NoError(t, err)
	return rec
}

func TestTeardownRemovesResourcesInReverseOrder(t *testing.T) {
	f := newFixture(t, nil, WithPrompter(ports.AutoApprove{}))
	ctx := context.Background()
	require.NoError(t, f.repo.Save(ctx, mustRecord(t, "myapp")))

	// Everything the record names still exists on the host.
	f.fs.AddFile("/etc/systemd/system/myapp.service", "[Unit]\n")
	f.fs.AddSymlink("/etc/nginx/sites-enabled/myapp", "/etc/nginx/sites-available/myapp")
	f.fs.AddDir("/etc/letsencrypt/live/example.com")
	f.runner.AddResult("sudo", []string{"-u", "postgres", "psql", "-tAc",
		"SELECT 1 FROM pg_database WHERE datname = 'my_app'"},
		ports.CommandResult{ExitCode: 0, Stdout: "1\n"})
	f.runner.AddResult("sudo", []string{"-u", "postgres", "psql", "-tAc",
		"SELECT 1 FROM pg_roles WHERE rolname = 'my_app'"},
		ports.CommandResult{ExitCode: 0, Stdout: "1\n"})
	f.runner.AddResult("dpkg-query", []string{"-W", "-f=${db:Status-Status}", "nginx"},
		ports.CommandResult{ExitCode: 0, Stdout: "installed"})

	report, err := f.svc.Teardown(ctx, "myapp")
	require.NoError(t, err)
	require.Len(t, report.Results, 7)

	// Reverse apply order: certificate first, package last.
	assert.Equal(t, deployment.KindCertificate, report.Results[0].Descriptor.Kind())
	assert.Equal(t, deployment.KindPackage, report.Results[6].Descriptor.Kind())

	assert.True(t, f.runner.CalledWith("sudo", "certbot", "delete", "--cert-name", "example.com"))
	assert.True(t, f.runner.CalledWith("sudo", "-u", "postgres", "psql", "-tAc", `DROP DATABASE "my_app"`))
	assert.True(t, f.runner.CalledWith("sudo", "apt-get", "purge", "-y", "nginx"))
	assert.False(t, f.fs.Exists("/etc/systemd/system/myapp.service"))
	assert.False(t, f.fs.Exists("/etc/nginx/sites-enabled/myapp"))

	assert.True(t, report.RecordDeleted)
	assert.False(t, f.repo.Exists(ctx, "myapp"))
}

func TestTeardownReportsMissingResourceAsAbsent(t *testing.T) {
	f := newFixture(t, nil, WithPrompter(ports.AutoApprove{}))
	ctx := context.Background()

	rec, err := registry.NewRecord("myapp", []deployment.Descriptor{
		deployment.MustNewDescriptor(deployment.KindRenderedFile, "myapp vhost", "/etc/nginx/sites-available/myapp"),
	})
	require.NoError(t, err)
	require.NoError(t, f.repo.Save(ctx, rec))

	// The operator deleted the file by hand between runs.
	report, err := f.svc.Teardown(ctx, "myapp")
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, TeardownAbsent, report.Results[0].Status)
	assert.Nil(t, report.Results[0].Err)
	assert.True(t, report.RecordDeleted)
}

func TestTeardownDeclinedDestructiveStepIsKept(t *testing.T) {
	f := newFixture(t, nil, WithPrompter(ports.DenyAll{}))
	ctx := context.Background()

	rec, err := registry.NewRecord("myapp", []deployment.Descriptor{
		deployment.MustNewDescriptor(deployment.KindDatabase, "my_app", ""),
	})
	require.NoError(t, err)
	require.NoError(t, f.repo.Save(ctx, rec))

	f.runner.AddResult("sudo", []string{"-u", "postgres", "psql", "-tAc",
		"SELECT 1 FROM pg_database WHERE datname = 'my_app'"},
		ports.CommandResult{ExitCode: 0, Stdout: "1\n"})

	report, err := f.svc.Teardown(ctx, "myapp")
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, TeardownKept, report.Results[0].Status)
	assert.False(t, f.runner.CalledWith("sudo", "-u", "postgres", "psql", "-tAc", `DROP DATABASE "my_app"`))
}

func TestTeardownWithoutRecordFails(t *testing.T) {
	f := newFixture(t, nil)

	_, err := f.svc.Teardown(context.Background(), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to tear down")
}

func TestTeardownUndoFailureKeepsRecord(t *testing.T) {
	f := newFixture(t, nil, WithPrompter(ports.AutoApprove{}))
	ctx := context.Background()

	rec, err := registry.NewRecord("myapp", []deployment.Descriptor{
		deployment.MustNewDescriptor(deployment.KindServiceUnit, "myapp.service", "/etc/systemd/system/myapp.service"),
	})
	require.NoError(t, err)
	require.NoError(t, f.repo.Save(ctx, rec))

	f.runner.AddResult("systemctl", []string{"cat", "myapp.service"},
		ports.CommandResult{ExitCode: 0, Stdout: "[Unit]"})
	f.runner.AddResult("sudo", []string{"systemctl", "disable", "--now", "myapp.service"},
		ports.CommandResult{ExitCode: 1, Stderr: "Access denied"})

	report, err := f.svc.Teardown(ctx, "myapp")
	require.NoError(t, err)
	require.Len(t, report.Results, 1)
	assert.Equal(t, TeardownWarning, report.Results[0].Status)

	// The record survives so a later teardown can retry.
	assert.False(t, report.RecordDeleted)
	assert.True(t, f.repo.Exists(ctx, "myapp"))
}
