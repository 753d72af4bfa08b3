package cli

import (
	"errors"
	"testing"

	"github.com/runoshun/skillbeads/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCommand(t *testing.T) {
	// Setup
	env := newTestEnv(t)
	env.loader.SourceList = []domain.ConfigSource{
		{Path: "/home/u/.config/skillbeads/config.toml", Exists: false},
		{Path: "/repo/.skillbeads.toml", Exists: true},
	}

	// Execute
	stdout, _, err := env.run(t, "config")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, stdout, "[Loaded from]")
	assert.Contains(t, stdout, "- /home/u/.config/skillbeads/config.toml (not found)")
	assert.Contains(t, stdout, "- /repo/.skillbeads.toml\n")
	assert.Contains(t, stdout, "[Effective Config]")
	assert.Contains(t, stdout, "[bd]")
	assert.Contains(t, stdout, "binary = 'bd'")
	assert.Contains(t, stdout, "[fallback]")
	assert.NotContains(t, stdout, "Warnings")
}

func TestConfigCommand_LoadError(t *testing.T) {
	env := newTestEnv(t)
	env.loader.LoadErr = errors.New("boom")

	_, _, err := env.run(t, "config")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
