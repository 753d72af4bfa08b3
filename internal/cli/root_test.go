package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/runoshun/skillbeads/internal/app"
	"github.com/runoshun/skillbeads/internal/domain"
	"github.com/runoshun/skillbeads/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testEnv bundles a container wired to mocks with the mocks themselves.
type testEnv struct {
	container *app.Container
	bd        *testutil.MockTracker
	session   *testutil.MockTracker
	locator   *testutil.MockLocator
	loader    *testutil.MockConfigLoader
	workDir   string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	workDir := t.TempDir()
	env := &testEnv{
		bd:      testutil.NewMockTracker(domain.BackendBD),
		session: testutil.NewMockTracker(domain.BackendSession),
		locator: testutil.NewMockLocator(workDir),
		loader:  testutil.NewMockConfigLoader(),
		workDir: workDir,
	}
	env.container = app.NewWithDeps(
		app.Config{WorkDir: workDir, RepoRoot: workDir},
		env.bd, env.session, env.locator, env.loader,
	)
	return env
}

// run executes the root command with args and returns stdout and stderr.
func (e *testEnv) run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := NewRootCommand(e.container, "test-version")
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestNewRootCommand_HasCommands(t *testing.T) {
	root := NewRootCommand(nil, "test-version")

	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}

	for _, want := range []string{"status", "config", "create", "update", "close", "dep", "ready", "plan"} {
		assert.Contains(t, names, want)
	}
}

func TestNewRootCommand_Version(t *testing.T) {
	root := NewRootCommand(nil, "1.2.3")
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})

	require.NoError(t, root.Execute())
	assert.Contains(t, out.String(), "1.2.3")
}

func TestNewRootCommand_PrintsConfigWarnings(t *testing.T) {
	// Setup
	env := newTestEnv(t)
	env.container.AppConfig.Warnings = []string{"unknown key: bd.colour"}

	// Execute
	_, stderr, err := env.run(t, "status")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, stderr, "Warning: unknown key: bd.colour")
}

func TestExitError_Error(t *testing.T) {
	err := &ExitError{Code: 3}
	assert.Equal(t, "exit status 3", err.Error())
}

func TestStatusCommand_Available(t *testing.T) {
	env := newTestEnv(t)

	stdout, _, err := env.run(t, "status")

	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stdout, "available ("))
	assert.Contains(t, stdout, domain.BeadsDirName)
}

func TestStatusCommand_Unavailable(t *testing.T) {
	tests := []struct {
		probeErr error
		name     string
		want     string
	}{
		{domain.ErrToolMissing, "missing", "unavailable (bd not found in PATH)"},
		{domain.ErrToolUninitialized, "uninitialized", "unavailable (no .beads directory; run 'bd init')"},
		{domain.ErrTimeout, "timeout", "unavailable (bd did not answer in time)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.bd.ProbeErr = tt.probeErr

			stdout, _, err := env.run(t, "status")

			require.NoError(t, err)
			assert.Equal(t, tt.want+"\n", stdout)
		})
	}
}

func TestStatusCommand_Quiet(t *testing.T) {
	t.Run("available", func(t *testing.T) {
		env := newTestEnv(t)

		stdout, _, err := env.run(t, "status", "-q")

		require.NoError(t, err)
		assert.Empty(t, stdout)
	})

	t.Run("unavailable exits 1", func(t *testing.T) {
		env := newTestEnv(t)
		env.bd.ProbeErr = domain.ErrToolMissing

		stdout, _, err := env.run(t, "status", "--quiet")

		var exitErr *ExitError
		require.ErrorAs(t, err, &exitErr)
		assert.Equal(t, 1, exitErr.Code)
		assert.Empty(t, stdout)
	})
}
