// Package statedir provides adapters for registry persistence in a
// host-level state directory.
package statedir

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/chrisokoth/ops-toolkit/internal/domain/registry"
)

// DefaultDir is the host state directory registry records live in.
// It sits outside any project tree so records survive project changes.
const DefaultDir = "/var/lib/opskit"

// YAMLRepository implements registry.Repository using one YAML file per
// deployment name.
type YAMLRepository struct {
	dir string
}

// NewYAMLRepository creates a repository rooted at dir. An empty dir
// falls back to DefaultDir.
func NewYAMLRepository(dir string) *YAMLRepository {
	if dir == "" {
		dir = DefaultDir
	}
	return &YAMLRepository{dir: dir}
}

// Dir returns the state directory.
func (r *YAMLRepository) Dir() string {
	return r.dir
}

// recordPath returns the file a deployment's record is stored in.
func (r *YAMLRepository) recordPath(deploymentName string) string {
	return filepath.Join(r.dir, deploymentName+".yaml")
}

// Load reads the record for the deployment name.
func (r *YAMLRepository) Load(_ context.Context, deploymentName string) (*registry.Record, error) {
	data, err := os.ReadFile(r.recordPath(deploymentName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, registry.ErrRecordNotFound
		}
		return nil, fmt.Errorf("failed to read registry record: %w", err)
	}

	var dto registry.RecordDTO
	if err := yaml.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("%w: %w", registry.ErrRecordCorrupt, err)
	}

	record, err := registry.FromDTO(dto)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", registry.ErrRecordCorrupt, err)
	}

	return record, nil
}

// Save writes the record atomically via a temp file and rename, so a
// crash mid-write never leaves a half-written ledger.
func (r *YAMLRepository) Save(_ context.Context, record *registry.Record) error {
	dto := registry.ToDTO(record)

	data, err := yaml.Marshal(&dto)
	if err != nil {
		return fmt.Errorf("%w: %w", registry.ErrSaveFailed, err)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("%w: failed to create state directory: %w", registry.ErrSaveFailed, err)
	}

	path := r.recordPath(record.DeploymentName())
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", registry.ErrSaveFailed, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath) // Clean up temp file on failure
		return fmt.Errorf("%w: %w", registry.ErrSaveFailed, err)
	}

	return nil
}

// Delete removes the record for the deployment name. Missing records are
// not an error.
func (r *YAMLRepository) Delete(_ context.Context, deploymentName string) error {
	err := os.Remove(r.recordPath(deploymentName))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete registry record: %w", err)
	}
	return nil
}

// Exists returns true if a record exists for the deployment name.
func (r *YAMLRepository) Exists(_ context.Context, deploymentName string) bool {
	_, err := os.Stat(r.recordPath(deploymentName))
	return err == nil
}

// List returns all committed records in the state directory.
func (r *YAMLRepository) List(ctx context.Context) ([]*registry.Record, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read state directory: %w", err)
	}

	records := make([]*registry.Record, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".yaml")
		record, err := r.Load(ctx, name)
		if err != nil {
			// One corrupt file must not hide the remaining deployments;
			// Load on the bad name still reports the corruption.
			if errors.Is(err, registry.ErrRecordCorrupt) {
				continue
			}
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// Ensure YAMLRepository implements registry.Repository.
var _ registry.Repository = (*YAMLRepository)(nil)
