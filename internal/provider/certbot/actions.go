// Package certbot provides actions that issue and delete TLS
// certificates through the certbot client. Issuance upgrades the
// HTTP-only vhost to TLS in place.
package certbot

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
	"github.com/chrisokoth/ops-toolkit/internal/domain/pipeline"
	"github.com/chrisokoth/ops-toolkit/internal/ports"
	"github.com/chrisokoth/ops-toolkit/internal/validation"
)

// liveDir is where certbot keeps material for issued certificates.
const liveDir = "/etc/letsencrypt/live"

// IssueAction obtains a certificate for the deployment's domains. An
// already-issued certificate is kept unless the operator explicitly
// confirms reissuing, which counts against CA rate limits.
type IssueAction struct {
	domains []string
	email   string
	desc    deployment.Descriptor
	fs      ports.FileSystem
	runner  ports.CommandRunner
}

// NewIssueAction creates an issue action. The first domain names the
// certificate.
func NewIssueAction(domains []string, email string, fs ports.FileSystem, runner ports.CommandRunner) *IssueAction {
	return &IssueAction{
		domains: domains,
		email:   email,
		desc:    deployment.MustNewDescriptor(deployment.KindCertificate, domains[0], filepath.Join(liveDir, domains[0])),
		fs:      fs,
		runner:  runner,
	}
}

// NewDeleteActionFromDescriptor reconstructs an undo-only action from a
// registry descriptor.
func NewDeleteActionFromDescriptor(desc deployment.Descriptor, fs ports.FileSystem, runner ports.CommandRunner) *IssueAction {
	return &IssueAction{
		domains: []string{desc.Identifier()},
		desc:    desc,
		fs:      fs,
		runner:  runner,
	}
}

// Descriptor returns the certificate descriptor.
func (a *IssueAction) Descriptor() deployment.Descriptor {
	return a.desc
}

// Apply issues the certificate via the nginx authenticator, which also
// rewrites the vhost for TLS and adds the HTTP redirect.
func (a *IssueAction) Apply(ctx pipeline.RunContext) error {
	for _, d := range a.domains {
		if err := validation.ValidateDomain(d); err != nil {
			return err
		}
	}

	if a.fs.Exists(filepath.Join(liveDir, a.domains[0])) {
		if !ctx.Confirm(fmt.Sprintf("Certificate for %s already exists. Reissue it? This counts against CA rate limits.", a.domains[0])) {
			ctx.Logger().Info(ctx.Context(), "keeping existing certificate", ports.F("domain", a.domains[0]))
			return nil
		}
	}

	args := []string{"certbot", "--nginx", "--non-interactive", "--agree-tos", "--redirect", "-m", a.email}
	for _, d := range a.domains {
		args = append(args, "-d", d)
	}

	result, err := a.runner.Run(ctx.Context(), "sudo", args...)
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("certbot failed for %s: %s", a.domains[0], strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Present reports whether certbot holds material for the certificate.
func (a *IssueAction) Present(_ pipeline.RunContext) (bool, error) {
	return a.fs.Exists(filepath.Join(liveDir, a.domains[0])), nil
}

// Undo deletes the certificate. An absent certificate is success; the
// deletion is gated by confirmation during cross-session teardown.
func (a *IssueAction) Undo(ctx pipeline.RunContext) error {
	name := a.domains[0]
	if err := validation.ValidateDomain(name); err != nil {
		return err
	}

	if !a.fs.Exists(filepath.Join(liveDir, name)) {
		return nil
	}

	if !ctx.Confirm(fmt.Sprintf("Delete certificate for %s?", name)) {
		ctx.Logger().Info(ctx.Context(), "certificate left in place", ports.F("domain", name))
		return nil
	}

	result, err := a.runner.Run(ctx.Context(), "sudo", "certbot", "delete", "--cert-name", name, "--non-interactive")
	if err != nil {
		return err
	}
	if !result.Success() {
		return fmt.Errorf("certbot delete %s failed: %s", name, strings.TrimSpace(result.Stderr))
	}
	return nil
}

// Ensure IssueAction implements pipeline.StatefulAction.
var _ pipeline.StatefulAction = (*IssueAction)(nil)
