package registry

import (
	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
)

// Ledger is the append-only in-memory log of descriptors applied during
// the current run. The executor appends immediately after each successful
// apply, so rollback is exact even when failure strikes mid-stage.
type Ledger struct {
	entries []deployment.Descriptor
}

// NewLedger creates an empty Ledger.
func NewLedger() *Ledger {
	return &Ledger{entries: make([]deployment.Descriptor, 0)}
}

// Append records an applied descriptor.
func (l *Ledger) Append(d deployment.Descriptor) {
	l.entries = append(l.entries, d)
}

// Entries returns the applied descriptors in apply order.
func (l *Ledger) Entries() []deployment.Descriptor {
	return append([]deployment.Descriptor(nil), l.entries...)
}

// Len returns the number of applied descriptors.
func (l *Ledger) Len() int {
	return len(l.entries)
}
