package probe

import (
	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
	"github.com/chrisokoth/ops-toolkit/internal/domain/pipeline"
	"github.com/chrisokoth/ops-toolkit/internal/ports"
)

// Action exposes a probe run to the pipeline as a transient action: it
// gates commit versus rollback but leaves nothing behind, so the executor
// never records it in the ledger.
type Action struct {
	probe *Probe
	url   string
	desc  deployment.Descriptor
}

// NewAction creates a verification action for the URL.
func NewAction(p *Probe, url string) *Action {
	return &Action{
		probe: p,
		url:   url,
		desc:  deployment.MustNewDescriptor(deployment.KindHealthCheck, url, ""),
	}
}

// Descriptor returns the health-check descriptor.
func (a *Action) Descriptor() deployment.Descriptor {
	return a.desc
}

// Apply polls the target. Exhausting the retry budget yields a
// VerificationError, distinguished from ActionError because the deployed
// artifact exists but is unreachable or misbehaving.
func (a *Action) Apply(ctx pipeline.RunContext) error {
	result, err := a.probe.Check(ctx.Context(), a.url)
	if err != nil {
		return err
	}

	ctx.Logger().Info(ctx.Context(), "verification probe finished",
		ports.F("target", a.url),
		ports.F("attempts", result.Attempts),
		ports.F("last_status", result.LastStatus))

	if !result.Succeeded {
		return &pipeline.VerificationError{
			Target:     a.url,
			Attempts:   result.Attempts,
			LastStatus: result.LastStatus,
		}
	}
	return nil
}

// Undo is a no-op: the probe mutates nothing.
func (a *Action) Undo(_ pipeline.RunContext) error {
	return nil
}

// Transient marks the action as leaving nothing behind.
func (a *Action) Transient() bool {
	return true
}

// Ensure Action implements the transient pipeline action contract.
var _ pipeline.TransientAction = (*Action)(nil)
