package certbot

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
	"github.com/chrisokoth/ops-toolkit/internal/domain/pipeline"
	"github.com/chrisokoth/ops-toolkit/internal/ports"
	"github.com/chrisokoth/ops-toolkit/internal/testutil/mocks"
)

func runCtx(p ports.Prompter) pipeline.RunContext {
	return pipeline.NewRunContext(context.Background()).WithPrompter(p)
}

func TestApplyIssuesCertificateForAllDomains(t *testing.T) {
	fs := mocks.NewFileSystem()
	runner := mocks.NewCommandRunner()
	runner.AddSuccess("sudo", "certbot", "--nginx", "--non-interactive", "--agree-tos", "--redirect",
		"-m", "ops@example.com", "-d", "example.com", "-d", "www.example.com")

	action := NewIssueAction([]string{"example.com", "www.example.com"}, "ops@example.com", fs, runner)
	require.NoError(t, action.Apply(runCtx(ports.DenyAll{})))
}

func TestApplyExistingCertificateDeclinedReissueIsKept(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddDir("/etc/letsencrypt/live/example.com")
	runner := mocks.NewCommandRunner()

	action := NewIssueAction([]string{"example.com"}, "ops@example.com", fs, runner)
	// Reissuing counts against CA rate limits; declining keeps the
	// existing certificate and succeeds.
	require.NoError(t, action.Apply(runCtx(ports.DenyAll{})))
	assert.Empty(t, runner.Calls())
}

func TestApplyRejectsInvalidDomain(t *testing.T) {
	fs := mocks.NewFileSystem()
	runner := mocks.NewCommandRunner()

	action := NewIssueAction([]string{"bad domain"}, "ops@example.com", fs, runner)
	require.Error(t, action.Apply(runCtx(ports.DenyAll{})))
	assert.Empty(t, runner.Calls())
}

func TestUndoAbsentCertificateIsSuccess(t *testing.T) {
	fs := mocks.NewFileSystem()
	runner := mocks.NewCommandRunner()

	action := NewIssueAction([]string{"example.com"}, "ops@example.com", fs, runner)
	require.NoError(t, action.Undo(runCtx(ports.AutoApprove{})))
	assert.Empty(t, runner.Calls())
}

func TestUndoDeletesWithConfirmation(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddDir("/etc/letsencrypt/live/example.com")
	runner := mocks.NewCommandRunner()
	runner.AddSuccess("sudo", "certbot", "delete", "--cert-name", "example.com", "--non-interactive")

	action := NewIssueAction([]string{"example.com"}, "ops@example.com", fs, runner)
	require.NoError(t, action.Undo(runCtx(ports.AutoApprove{})))

	assert.True(t, runner.CalledWith("sudo", "certbot", "delete", "--cert-name", "example.com"))
}

func TestDeleteActionFromDescriptor(t *testing.T) {
	fs := mocks.NewFileSystem()
	fs.AddDir("/etc/letsencrypt/live/example.com")
	runner := mocks.NewCommandRunner()
	runner.AddSuccess("sudo", "certbot", "delete", "--cert-name", "example.com", "--non-interactive")

	desc := deployment.MustNewDescriptor(deployment.KindCertificate, "example.com", "/etc/letsencrypt/live/example.com")
	action := NewDeleteActionFromDescriptor(desc, fs, runner)

	present, err := action.Present(runCtx(ports.DenyAll{}))
	require.NoError(t, err)
	assert.True(t, present)

	require.NoError(t, action.Undo(runCtx(ports.AutoApprove{})))
}
