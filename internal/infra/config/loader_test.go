package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/runoshun/skillbeads/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoader_Load_Defaults(t *testing.T) {
	loader := NewLoaderWithGlobalDir(t.TempDir(), t.TempDir())

	cfg, err := loader.Load()
	require.NoError(t, err)

	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}

func TestLoader_Load_RepoConfigOnly(t *testing.T) {
	repoRoot := t.TempDir()
	globalDir := t.TempDir()

	writeFile(t, domain.RepoConfigPath(repoRoot), `
[bd]
binary = "/opt/bin/bd"
command_timeout = "8s"

[fallback]
enabled = false
prefix = "LOCAL"

[log]
level = "debug"
`)

	cfg, err := NewLoaderWithGlobalDir(repoRoot, globalDir).Load()
	require.NoError(t, err)

	assert.Equal(t, "/opt/bin/bd", cfg.BD.Binary)
	assert.Equal(t, "8s", cfg.BD.CommandTimeout)
	assert.Equal(t, "2s", cfg.BD.ProbeTimeout, "unset keys keep defaults")
	assert.False(t, cfg.Fallback.IsEnabled())
	assert.Equal(t, "LOCAL", cfg.Fallback.Prefix)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Empty(t, cfg.Warnings)
}

func TestLoader_Load_MergeRepoOverridesGlobal(t *testing.T) {
	repoRoot := t.TempDir()
	globalDir := t.TempDir()

	writeFile(t, filepath.Join(globalDir, domain.ConfigFileName), `
[bd]
probe_timeout = "1s"
availability_ttl = "30s"

[log]
level = "warn"
dir = "/tmp/global-logs"
`)
	writeFile(t, domain.RepoConfigPath(repoRoot), `
[bd]
availability_ttl = "0s"

[log]
level = "error"
`)

	cfg, err := NewLoaderWithGlobalDir(repoRoot, globalDir).Load()
	require.NoError(t, err)

	assert.Equal(t, "1s", cfg.BD.ProbeTimeout)
	assert.Equal(t, "0s", cfg.BD.AvailabilityTTL)
	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "/tmp/global-logs", cfg.Log.Dir)
}

func TestLoader_Load_IntegerDurationIsSeconds(t *testing.T) {
	repoRoot := t.TempDir()
	writeFile(t, domain.RepoConfigPath(repoRoot), `
[bd]
probe_timeout = 3
`)

	cfg, err := NewLoaderWithGlobalDir(repoRoot, "").Load()
	require.NoError(t, err)
	assert.Equal(t, "3s", cfg.BD.ProbeTimeout)
}

func TestLoader_Load_UnknownKeysBecomeWarnings(t *testing.T) {
	repoRoot := t.TempDir()
	writeFile(t, domain.RepoConfigPath(repoRoot), `
[bd]
binary = "bd"
retries = 3

[agents]
default = "claude"
`)

	cfg, err := NewLoaderWithGlobalDir(repoRoot, "").Load()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"unknown key in [bd]: retries",
		"unknown section: agents",
	}, cfg.Warnings)
}

func TestLoader_Load_InvalidDuration(t *testing.T) {
	repoRoot := t.TempDir()
	writeFile(t, domain.RepoConfigPath(repoRoot), `
[bd]
command_timeout = "later"
`)

	_, err := NewLoaderWithGlobalDir(repoRoot, "").Load()
	assert.ErrorIs(t, err, domain.ErrInvalidConfigValue)
}

func TestLoader_Load_InvalidTOML(t *testing.T) {
	repoRoot := t.TempDir()
	writeFile(t, domain.RepoConfigPath(repoRoot), "[bd\nbinary=")

	_, err := NewLoaderWithGlobalDir(repoRoot, "").Load()
	assert.Error(t, err)
}

func TestLoader_Sources(t *testing.T) {
	repoRoot := t.TempDir()
	globalDir := t.TempDir()
	writeFile(t, domain.RepoConfigPath(repoRoot), "")

	sources := NewLoaderWithGlobalDir(repoRoot, globalDir).Sources()
	require.Len(t, sources, 2)
	assert.Equal(t, filepath.Join(globalDir, domain.ConfigFileName), sources[0].Path)
	assert.False(t, sources[0].Exists)
	assert.Equal(t, domain.RepoConfigPath(repoRoot), sources[1].Path)
	assert.True(t, sources[1].Exists)
}

func TestLoader_MarshalRoundTrip(t *testing.T) {
	repoRoot := t.TempDir()
	data, err := toml.Marshal(domain.NewDefaultConfig())
	require.NoError(t, err)
	writeFile(t, domain.RepoConfigPath(repoRoot), string(data))

	cfg, err := NewLoaderWithGlobalDir(repoRoot, "").Load()
	require.NoError(t, err)
	assert.Empty(t, cfg.Warnings)
	assert.Equal(t, domain.NewDefaultConfig(), cfg)
}
