package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEnvSortsAndStripsComments(t *testing.T) {
	raw := "# database settings\nDB_HOST=localhost\n\nSECRET_KEY=abc123\n; legacy comment\nAPP_ENV=production\n"

	got, err := NormalizeEnv(raw)
	require.NoError(t, err)
	assert.Equal(t, "APP_ENV=production\nDB_HOST=localhost\nSECRET_KEY=abc123\n", got)
}

func TestNormalizeEnvResolvesQuotes(t *testing.T) {
	got, err := NormalizeEnv(`GREETING="hello world"`)
	require.NoError(t, err)
	assert.Equal(t, "GREETING=hello world\n", got)
}

func TestNormalizeEnvIsDeterministic(t *testing.T) {
	raw := "B=2\nA=1\nC=3\n"
	first, err := NormalizeEnv(raw)
	require.NoError(t, err)
	second, err := NormalizeEnv("A=1\nC=3\nB=2\n")
	require.NoError(t, err)
	assert.Equal(t, first, second, "key order in the input must not matter")
}

func TestNormalizeEnvEmptyInput(t *testing.T) {
	got, err := NormalizeEnv("   \n  ")
	require.NoError(t, err)
	assert.Empty(t, got)
}
