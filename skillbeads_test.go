package skillbeads

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/runoshun/skillbeads/internal/domain"
	"github.com/runoshun/skillbeads/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBD is a tiny stand-in for bd that keeps issues in $FAKE_BD_STATE/issues
// as tab-separated id, title, priority and status, and dependency edges in
// $FAKE_BD_STATE/deps as issue id, depends-on id and type.
const fakeBD = `#!/bin/sh
state="$FAKE_BD_STATE"
echo "$*" >> "$state/calls"
[ -n "$FAKE_BD_SLOW" ] && sleep 5
exists() {
	awk -F'\t' -v id="$1" '$1 == id { found = 1 } END { exit !found }' "$state/issues"
}
cmd="$1"
shift
case "$cmd" in
list)
	exit 0
	;;
create)
	title=""
	priority=2
	while [ $# -gt 0 ]; do
		case "$1" in
		--title) title="$2"; shift ;;
		--priority) priority="$2"; shift ;;
		esac
		shift
	done
	n=$(( $(wc -l < "$state/issues") + 1 ))
	id=$(printf 'APP-%03d' "$n")
	printf '%s\t%s\t%s\topen\n' "$id" "$title" "$priority" >> "$state/issues"
	printf '{"id": "%s", "title": "%s"}\n' "$id" "$title"
	;;
update|close)
	id="$1"
	if ! exists "$id"; then
		echo "Error: issue $id not found" >&2
		exit 1
	fi
	status="$3"
	[ "$cmd" = close ] && status=closed
	awk -F'\t' -v OFS='\t' -v id="$id" -v s="$status" '$1 == id { $4 = s } { print }' "$state/issues" > "$state/tmp"
	mv "$state/tmp" "$state/issues"
	;;
dep)
	for id in "$2" "$3"; do
		if ! exists "$id"; then
			echo "Error: issue $id not found" >&2
			exit 1
		fi
	done
	printf '%s\t%s\t%s\n' "$2" "$3" "$5" >> "$state/deps"
	;;
ready)
	blocked=$(awk -F'\t' 'NR == FNR { status[$1] = $4; next } $3 == "blocks" && status[$2] != "closed" { print $1 }' "$state/issues" "$state/deps")
	awk -F'\t' -v blocked=" $(echo $blocked) " 'BEGIN { printf "[" } $4 != "closed" && index(blocked, " " $1 " ") == 0 { if (n++) printf ","; printf "{\"id\":\"%s\",\"title\":\"%s\",\"priority\":%s,\"status\":\"%s\"}", $1, $2, $3, $4 } END { print "]" }' "$state/issues"
	;;
*)
	echo "unknown command: $cmd" >&2
	exit 2
	;;
esac
`

type fakeEnv struct {
	project string // Initialized project with a .beads directory
	bare    string // Directory without .beads
	state   string
}

func setupFakeBD(t *testing.T) fakeEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake bd is a shell script")
	}

	binDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(binDir, "bd"), []byte(fakeBD), 0o755)) //nolint:gosec // Test executable
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))

	state := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(state, "issues"), nil, 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(state, "deps"), nil, 0o600))
	t.Setenv("FAKE_BD_STATE", state)
	t.Setenv("FAKE_BD_SLOW", "")
	t.Setenv(domain.BeadsDirEnv, "")

	project := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(project, domain.BeadsDirName), 0o750))

	return fakeEnv{project: project, bare: t.TempDir(), state: state}
}

func (e fakeEnv) calls(t *testing.T) []string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(e.state, "calls"))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func TestClient_Scenario(t *testing.T) {
	env := setupFakeBD(t)
	ctx := context.Background()
	client := New(WithDir(env.project))

	require.True(t, client.IsAvailable(ctx))

	priority := 1
	id, ok := client.CreateIssue(ctx, CreateOptions{Title: "Add logging", Type: TypeTask, Priority: &priority})
	require.True(t, ok)
	assert.Equal(t, "APP-001", id)

	ready := client.GetReadyIssues(ctx, ReadyFilter{})
	require.Len(t, ready, 1)
	assert.Equal(t, "APP-001", ready[0].ID)
	assert.Equal(t, "Add logging", ready[0].Title)
	assert.Equal(t, 1, ready[0].Priority)

	assert.True(t, client.UpdateStatus(ctx, id, StatusInProgress))
	assert.True(t, client.CloseIssue(ctx, id, "Done"))
	assert.Empty(t, client.GetReadyIssues(ctx, ReadyFilter{}))

	calls := env.calls(t)
	assert.Contains(t, calls, "create --title Add logging --type task --priority 1 --json")
	assert.Contains(t, calls, "update APP-001 --status in_progress")
	assert.Contains(t, calls, "close APP-001 --reason Done")
}

func issueIDs(issues []Issue) []string {
	ids := make([]string, 0, len(issues))
	for _, issue := range issues {
		ids = append(ids, issue.ID)
	}
	return ids
}

func TestClient_DependencyReadiness(t *testing.T) {
	// Setup
	env := setupFakeBD(t)
	ctx := context.Background()
	client := New(WithDir(env.project))

	schema, ok := client.CreateIssue(ctx, CreateOptions{Title: "Design schema"})
	require.True(t, ok)
	api, ok := client.CreateIssue(ctx, CreateOptions{Title: "Build API"})
	require.True(t, ok)
	docs, ok := client.CreateIssue(ctx, CreateOptions{Title: "Write docs"})
	require.True(t, ok)

	// Execute
	require.True(t, client.AddDependency(ctx, api, schema, DepBlocks))
	require.True(t, client.AddDependency(ctx, docs, schema, DepRelated))

	// Assert
	assert.Equal(t, []string{schema, docs}, issueIDs(client.GetReadyIssues(ctx, ReadyFilter{})), "blocked issue is not ready")

	require.True(t, client.CloseIssue(ctx, schema, ""))
	assert.Equal(t, []string{api, docs}, issueIDs(client.GetReadyIssues(ctx, ReadyFilter{})), "closing the blocker frees it")

	assert.False(t, client.AddDependency(ctx, api, "APP-404", DepBlocks))

	calls := env.calls(t)
	assert.Contains(t, calls, "dep add APP-002 APP-001 --type blocks")
	assert.Contains(t, calls, "dep add APP-003 APP-001 --type related")
	assert.Contains(t, calls, "close APP-001 --reason Completed")
}

func TestClient_CreateNormalizesType(t *testing.T) {
	env := setupFakeBD(t)
	client := New(WithDir(env.project))

	_, ok := client.CreateIssue(context.Background(), CreateOptions{Title: "x", Type: "Feature"})

	require.True(t, ok)
	assert.Contains(t, env.calls(t), "create --title x --type feature --json")
}

func TestClient_NestedRepository(t *testing.T) {
	// Setup
	env := setupFakeBD(t)
	_, err := git.PlainInit(env.project, false)
	require.NoError(t, err)
	sub := filepath.Join(env.project, "vendor", "lib")
	require.NoError(t, os.MkdirAll(sub, 0o750))
	_, err = git.PlainInit(sub, false)
	require.NoError(t, err)

	// Execute
	available := New(WithDir(sub)).IsAvailable(context.Background())

	// Assert
	assert.True(t, available, ".beads above a nested repository is found as bd finds it")
	assert.Equal(t, []string{"list --limit 1"}, env.calls(t))
}

func TestClient_UnknownIssue(t *testing.T) {
	env := setupFakeBD(t)
	client := New(WithDir(env.project))

	assert.False(t, client.UpdateStatus(context.Background(), "APP-404", StatusClosed))
	assert.False(t, client.CloseIssue(context.Background(), "APP-404", ""))
}

func TestClient_Uninitialized(t *testing.T) {
	env := setupFakeBD(t)
	ctx := context.Background()
	client := New(WithDir(env.bare))

	assert.False(t, client.IsAvailable(ctx))
	id, ok := client.CreateIssue(ctx, CreateOptions{Title: "x"})
	assert.False(t, ok)
	assert.Empty(t, id)
	assert.False(t, client.UpdateStatus(ctx, "APP-001", StatusOpen))
	assert.False(t, client.CloseIssue(ctx, "APP-001", ""))
	assert.False(t, client.AddDependency(ctx, "APP-002", "APP-001", ""))

	ready := client.GetReadyIssues(ctx, ReadyFilter{})
	assert.NotNil(t, ready)
	assert.Empty(t, ready)

	assert.Empty(t, env.calls(t), "bd must not be spawned without a .beads directory")
}

func TestClient_BinaryMissing(t *testing.T) {
	env := setupFakeBD(t)
	client := New(WithDir(env.project), WithBinary("bd-not-installed-anywhere"))

	assert.False(t, client.IsAvailable(context.Background()))
	_, ok := client.CreateIssue(context.Background(), CreateOptions{Title: "x"})
	assert.False(t, ok)
}

func TestClient_FollowsWorkingDirectory(t *testing.T) {
	env := setupFakeBD(t)
	ctx := context.Background()
	client := New()

	t.Chdir(env.project)
	assert.True(t, client.IsAvailable(ctx))

	t.Chdir(env.bare)
	assert.False(t, client.IsAvailable(ctx))

	t.Chdir(filepath.Join(env.project, domain.BeadsDirName))
	assert.True(t, client.IsAvailable(ctx), "marker is found walking up")
}

func TestClient_ProbeTimeout(t *testing.T) {
	env := setupFakeBD(t)
	t.Setenv("FAKE_BD_SLOW", "1")
	client := New(WithDir(env.project), WithTimeouts(200*time.Millisecond, 200*time.Millisecond))

	start := time.Now()
	assert.False(t, client.IsAvailable(context.Background()))
	assert.Less(t, time.Since(start), 4*time.Second)
}

func TestClient_Silent(t *testing.T) {
	env := setupFakeBD(t)
	logger := &testutil.MockLogger{}
	client := New(WithDir(env.bare), WithLogger(logger))

	assert.False(t, client.IsAvailable(context.Background()))
	require.NotEmpty(t, logger.Entries)
	for _, e := range logger.Entries {
		assert.Equal(t, "debug", e.Level)
	}
}

func TestClient_NeutralValues(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		err  error
		name string
	}{
		{domain.ErrToolMissing, "missing"},
		{domain.ErrToolUninitialized, "uninitialized"},
		{domain.ErrInvocationFailed, "invocation failed"},
		{domain.ErrOutputUnparseable, "unparseable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := testutil.NewMockTracker("bd")
			tracker.ProbeErr = tt.err
			tracker.CreateErr = tt.err
			tracker.UpdateErr = tt.err
			tracker.CloseErr = tt.err
			tracker.DepErr = tt.err
			tracker.ReadyErr = tt.err
			client := newWithTracker(tracker, domain.NopLogger{})

			assert.False(t, client.IsAvailable(ctx))
			id, ok := client.CreateIssue(ctx, CreateOptions{Title: "x"})
			assert.False(t, ok)
			assert.Empty(t, id)
			assert.False(t, client.UpdateStatus(ctx, "A-1", StatusOpen))
			assert.False(t, client.CloseIssue(ctx, "A-1", ""))
			assert.False(t, client.AddDependency(ctx, "A-2", "A-1", DepBlocks))
			assert.Equal(t, []Issue{}, client.GetReadyIssues(ctx, ReadyFilter{}))
		})
	}
}

func TestClient_Success(t *testing.T) {
	ctx := context.Background()
	tracker := testutil.NewMockTracker("bd")
	client := newWithTracker(tracker, domain.NopLogger{})

	assert.True(t, client.IsAvailable(ctx))
	id, ok := client.CreateIssue(ctx, CreateOptions{Title: "x"})
	assert.True(t, ok)
	assert.Equal(t, "MOCK-001", id)
	assert.True(t, client.AddDependency(ctx, "MOCK-002", id, ""))
	assert.Equal(t, []Issue{}, client.GetReadyIssues(ctx, ReadyFilter{}), "nil from tracker becomes empty")
}

func TestWithConfig(t *testing.T) {
	env := setupFakeBD(t)
	cfg := domain.NewDefaultConfig()
	cfg.BD.Binary = "bd-not-installed-anywhere"

	client := New(WithDir(env.project), WithConfig(cfg))
	assert.False(t, client.IsAvailable(context.Background()))

	client = New(WithDir(env.project), WithConfig(nil))
	assert.True(t, client.IsAvailable(context.Background()))
}
