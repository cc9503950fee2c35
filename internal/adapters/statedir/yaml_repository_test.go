package statedir

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chrisokoth/ops-toolkit/internal/domain/deployment"
	"github.com/chrisokoth/ops-toolkit/internal/domain/registry"
)

func newRecord(t *testing.T, name string) *registry.Record {
	t.Helper()
	rec, err := registry.NewRecord(name, []deployment.Descriptor{
		deployment.MustNewDescriptor(deployment.KindPackage, "nginx", ""),
		deployment.MustNewDescriptor(deployment.KindServiceUnit, name+".service", "/etc/systemd/system/"+name+".service"),
	})
	require.NoError(t, err)
	return rec
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	repo := NewYAMLRepository(t.TempDir())
	ctx := context.Background()

	rec := newRecord(t, "myapp")
	require.NoError(t, repo.Save(ctx, rec))

	loaded, err := repo.Load(ctx, "myapp")
	require.NoError(t, err)
	assert.Equal(t, rec.ID(), loaded.ID())
	assert.Equal(t, rec.DeploymentName(), loaded.DeploymentName())
	assert.Equal(t, rec.Descriptors(), loaded.Descriptors())
}

func TestLoadMissingRecordReturnsNotFound(t *testing.T) {
	repo := NewYAMLRepository(t.TempDir())

	_, err := repo.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, registry.ErrRecordNotFound)
}

func TestLoadCorruptRecord(t *testing.T) {
	dir := t.TempDir()
	repo := NewYAMLRepository(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("{{{not yaml"), 0o644))

	_, err := repo.Load(context.Background(), "broken")
	assert.ErrorIs(t, err, registry.ErrRecordCorrupt)
}

func TestSaveLeavesNoTempFileBehind(t *testing.T) {
	dir := t.TempDir()
	repo := NewYAMLRepository(dir)
	require.NoError(t, repo.Save(context.Background(), newRecord(t, "myapp")))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "myapp.yaml", entries[0].Name())
}

func TestSaveReplacesPreviousRecord(t *testing.T) {
	repo := NewYAMLRepository(t.TempDir())
	ctx := context.Background()

	first := newRecord(t, "myapp")
	require.NoError(t, repo.Save(ctx, first))

	second, err := registry.NewRecord("myapp", []deployment.Descriptor{
		deployment.MustNewDescriptor(deployment.KindDatabase, "my_app", ""),
	})
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	loaded, err := repo.Load(ctx, "myapp")
	require.NoError(t, err)
	assert.Equal(t, second.ID(), loaded.ID())
	assert.Equal(t, 1, loaded.Len())
}

func TestDeleteIsIdempotent(t *testing.T) {
	repo := NewYAMLRepository(t.TempDir())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newRecord(t, "myapp")))
	require.NoError(t, repo.Delete(ctx, "myapp"))
	assert.False(t, repo.Exists(ctx, "myapp"))

	// Deleting again is not an error.
	assert.NoError(t, repo.Delete(ctx, "myapp"))
}

func TestExists(t *testing.T) {
	repo := NewYAMLRepository(t.TempDir())
	ctx := context.Background()

	assert.False(t, repo.Exists(ctx, "myapp"))
	require.NoError(t, repo.Save(ctx, newRecord(t, "myapp")))
	assert.True(t, repo.Exists(ctx, "myapp"))
}

func TestListReturnsAllRecords(t *testing.T) {
	repo := NewYAMLRepository(t.TempDir())
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newRecord(t, "alpha")))
	require.NoError(t, repo.Save(ctx, newRecord(t, "beta")))

	records, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 2)

	names := []string{records[0].DeploymentName(), records[1].DeploymentName()}
	assert.ElementsMatch(t, []string{"alpha", "beta"}, names)
}

func TestListSkipsCorruptRecords(t *testing.T) {
	dir := t.TempDir()
	repo := NewYAMLRepository(dir)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newRecord(t, "alpha")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("{{{not yaml"), 0o644))

	// A corrupt file is exactly when the operator needs list to work.
	records, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "alpha", records[0].DeploymentName())

	// The corruption still surfaces when the bad record is addressed.
	_, err = repo.Load(ctx, "broken")
	assert.True(t, errors.Is(err, registry.ErrRecordCorrupt))
}

func TestListMissingDirIsEmpty(t *testing.T) {
	repo := NewYAMLRepository(filepath.Join(t.TempDir(), "nonexistent"))

	records, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDefaultDirFallback(t *testing.T) {
	repo := NewYAMLRepository("")
	assert.Equal(t, DefaultDir, repo.Dir())
}

func TestFromDTOFailureSurfacesAsCorrupt(t *testing.T) {
	dir := t.TempDir()
	repo := NewYAMLRepository(dir)
	// Valid YAML, invalid record: unknown resource kind.
	content := "id: abc\ndeployment: myapp\nresources:\n  - kind: teleporter\n    identifier: x\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "myapp.yaml"), []byte(content), 0o644))

	_, err := repo.Load(context.Background(), "myapp")
	require.Error(t, err)
	assert.True(t, errors.Is(err, registry.ErrRecordCorrupt))
}
