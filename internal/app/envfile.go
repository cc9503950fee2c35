package app

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/chrisokoth/ops-toolkit/internal/render"
)

// NormalizeEnv parses raw dotenv-style content and re-emits it in
// canonical KEY=value form: comments and blank lines stripped, quotes
// resolved, keys sorted so repeated runs write byte-identical files.
func NormalizeEnv(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}

	cfg, err := ini.LoadSources(ini.LoadOptions{
		SkipUnrecognizableLines: false,
	}, []byte(raw))
	if err != nil {
		return "", fmt.Errorf("invalid environment content: %w", err)
	}

	section := cfg.Section(ini.DefaultSection)
	keys := section.KeyStrings()
	sort.Strings(keys)

	pairs := make([]render.EnvPair, 0, len(keys))
	for _, key := range keys {
		pairs = append(pairs, render.EnvPair{Key: key, Value: section.Key(key).String()})
	}

	out, err := render.Render(render.TemplateEnvFile, render.EnvParams{Pairs: pairs})
	if err != nil {
		return "", fmt.Errorf("render environment file: %w", err)
	}
	return out, nil
}
