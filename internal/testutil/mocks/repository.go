package mocks

import (
	"context"
	"sync"

	"github.com/chrisokoth/ops-toolkit/internal/domain/registry"
)

// Repository is an in-memory test double for registry.Repository.
type Repository struct {
	mu      sync.RWMutex
	records map[string]*registry.Record
	saveErr error
}

// NewRepository creates a new Repository mock.
func NewRepository() *Repository {
	return &Repository{records: make(map[string]*registry.Record)}
}

// FailSaves makes every Save return err.
func (r *Repository) FailSaves(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveErr = err
}

// Load reads the record for the deployment name.
func (r *Repository) Load(_ context.Context, deploymentName string) (*registry.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if record, ok := r.records[deploymentName]; ok {
		return record, nil
	}
	return nil, registry.ErrRecordNotFound
}

// Save stores the record.
func (r *Repository) Save(_ context.Context, record *registry.Record) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.records[record.DeploymentName()] = record
	return nil
}

// Delete removes the record for the deployment name.
func (r *Repository) Delete(_ context.Context, deploymentName string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.records, deploymentName)
	return nil
}

// Exists returns true if a record exists for the deployment name.
func (r *Repository) Exists(_ context.Context, deploymentName string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.records[deploymentName]
	return ok
}

// List returns all stored records.
func (r *Repository) List(_ context.Context) ([]*registry.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	records := make([]*registry.Record, 0, len(r.records))
	for _, record := range r.records {
		records = append(records, record)
	}
	return records, nil
}

// Len returns the number of stored records.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.records)
}

// Ensure Repository implements registry.Repository.
var _ registry.Repository = (*Repository)(nil)
