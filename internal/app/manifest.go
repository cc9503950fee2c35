package app

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// LoadManifest reads deployment parameters from a YAML or TOML manifest
// file, chosen by extension. Flags applied on top of a manifest override
// its values; the caller merges before Validate.
func LoadManifest(path string) (*DeployParams, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	params := &DeployParams{}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, params); err != nil {
			return nil, fmt.Errorf("parse manifest %s: %w", path, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, params); err != nil {
			return nil, fmt.Errorf("parse manifest %s: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("unsupported manifest format %q: use .yaml, .yml or .toml", filepath.Ext(path))
	}

	return params, nil
}
