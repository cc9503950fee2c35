package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadManifestYAML(t *testing.T) {
	path := writeManifest(t, "deploy.yaml", `
name: myapp
domain: example.com
work_dir: /srv/myapp
database_password: s3cret
email: ops@example.com
aliases:
  - www.example.com
frontend:
  name: myapp-web
  domain: app.example.com
  dist_dir: /srv/myapp-web/dist
`)

	params, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "myapp", params.Name)
	assert.Equal(t, []string{"www.example.com"}, params.Aliases)
	require.NotNil(t, params.Frontend)
	assert.Equal(t, "myapp-web", params.Frontend.Name)
}

func TestLoadManifestTOML(t *testing.T) {
	path := writeManifest(t, "deploy.toml", `
name = "myapp"
domain = "example.com"
work_dir = "/srv/myapp"
database_password = "s3cret"
email = "ops@example.com"
workers = 5

[frontend]
name = "myapp-web"
domain = "app.example.com"
dist_dir = "/srv/myapp-web/dist"
`)

	params, err := LoadManifest(path)
	require.NoError(t, err)
	assert.Equal(t, "myapp", params.Name)
	assert.Equal(t, 5, params.Workers)
	require.NotNil(t, params.Frontend)
	assert.Equal(t, "app.example.com", params.Frontend.Domain)
}

func TestLoadManifestUnsupportedExtension(t *testing.T) {
	path := writeManifest(t, "deploy.json", `{}`)

	_, err := LoadManifest(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported manifest format")
}

func TestLoadManifestMissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}
