package registry

import (
	"context"
	"errors"
)

// Sentinel errors for registry persistence.
var (
	// ErrRecordNotFound indicates no committed record exists for the deployment.
	ErrRecordNotFound = errors.New("registry record not found")
	// ErrRecordCorrupt indicates the persisted record could not be decoded.
	ErrRecordCorrupt = errors.New("registry record corrupt")
	// ErrSaveFailed indicates the record could not be written.
	ErrSaveFailed = errors.New("failed to save registry record")
)

// Repository persists one Record per deployment name in a host-level state
// directory, outside the project tree. Writes must be atomic so a crash
// mid-write never leaves a half-written ledger.
type Repository interface {
	// Load reads the record for the deployment name.
	// Returns ErrRecordNotFound if none exists.
	Load(ctx context.Context, deploymentName string) (*Record, error)

	// Save writes the record atomically, replacing any previous record
	// for the same deployment name.
	Save(ctx context.Context, record *Record) error

	// Delete removes the record for the deployment name.
	// Deleting a missing record is not an error.
	Delete(ctx context.Context, deploymentName string) error

	// Exists returns true if a record exists for the deployment name.
	Exists(ctx context.Context, deploymentName string) bool

	// List returns all committed records on this host.
	List(ctx context.Context) ([]*Record, error)
}
