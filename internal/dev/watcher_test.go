package dev

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vango-dev/routegen/pkg/router"
)

func startWatcher(t *testing.T, root string, ignore ...string) *Watcher {
	t.Helper()
	w, err := NewWatcher(WatcherConfig{
		Root:        root,
		Conventions: router.Conventions{Ignore: ignore},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go w.Start(ctx)
	t.Cleanup(cancel)
	return w
}

// waitFor reads events until one matches op and path.
func waitFor(t *testing.T, w *Watcher, op Op, path string) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case ev := <-w.Events():
			if ev.Op == op && ev.Path == path {
				return
			}
		case <-deadline:
			t.Fatalf("timeout waiting for %s %s", op, path)
		}
	}
}

func assertQuiet(t *testing.T, w *Watcher, wait time.Duration) {
	t.Helper()
	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event %s %s", ev.Op, ev.Path)
	case <-time.After(wait):
	}
}

func TestWatcherFileAddRemove(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	file := filepath.Join(root, "about.tsx")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	waitFor(t, w, OpFileAdded, file)

	require.NoError(t, os.Remove(file))
	waitFor(t, w, OpFileRemoved, file)
}

func TestWatcherIgnoresWrites(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "index.tsx")
	require.NoError(t, os.WriteFile(file, []byte("a"), 0o644))
	w := startWatcher(t, root)

	require.NoError(t, os.WriteFile(file, []byte("b"), 0o644))
	require.NoError(t, os.Chmod(file, 0o600))
	assertQuiet(t, w, 200*time.Millisecond)
}

func TestWatcherNewDirectories(t *testing.T) {
	root := t.TempDir()
	w := startWatcher(t, root)

	dir := filepath.Join(root, "users")
	require.NoError(t, os.Mkdir(dir, 0o755))
	waitFor(t, w, OpDirAdded, dir)
	require.Eventually(t, func() bool { return w.watchedDirs() == 2 }, time.Second, 10*time.Millisecond)

	file := filepath.Join(dir, "[id].tsx")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	waitFor(t, w, OpFileAdded, file)

	require.NoError(t, os.RemoveAll(dir))
	waitFor(t, w, OpDirRemoved, dir)
	assert.Equal(t, 1, w.watchedDirs())
}

func TestWatcherRenameIsRemoval(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "old.tsx")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	w := startWatcher(t, root)

	renamed := filepath.Join(root, "new.tsx")
	require.NoError(t, os.Rename(file, renamed))
	waitFor(t, w, OpFileRemoved, file)
	waitFor(t, w, OpFileAdded, renamed)
}

func TestWatcherIgnored(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(root, "node_modules"), 0o755))
	w := startWatcher(t, root, "__tests__")

	assert.Equal(t, 1, w.watchedDirs(), "node_modules is not watched")

	require.NoError(t, os.WriteFile(filepath.Join(root, ".DS_Store"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(root, "__tests__"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "node_modules", "pkg.js"), nil, 0o644))
	assertQuiet(t, w, 200*time.Millisecond)
}

func TestNewWatcherErrors(t *testing.T) {
	_, err := NewWatcher(WatcherConfig{Root: filepath.Join(t.TempDir(), "missing")})
	assert.ErrorIs(t, err, os.ErrNotExist)

	file := filepath.Join(t.TempDir(), "routes.tsx")
	require.NoError(t, os.WriteFile(file, nil, 0o644))
	_, err = NewWatcher(WatcherConfig{Root: file})
	assert.ErrorIs(t, err, router.ErrNotDirectory)
}

func TestShouldIgnore(t *testing.T) {
	m := newIgnoreMatcher("/app/src/routes", router.Conventions{
		Ignore: []string{"__tests__", "*.stories.tsx", "admin/internal"},
	})

	tests := []struct {
		path   string
		ignore bool
	}{
		{"/app/src/routes", false},
		{"/app/src/routes/about.tsx", false},
		{"/app/src/routes/.hidden.tsx", true},
		{"/app/src/routes/users/.cache/x.tsx", true},
		{"/app/src/routes/node_modules/pkg/index.js", true},
		{"/app/src/routes/__tests__/about.test.tsx", true},
		{"/app/src/routes/button.stories.tsx", true},
		{"/app/src/routes/admin/internal/index.tsx", true},
		{"/app/src/routes/admin/index.tsx", false},
		{"/app/src/other/about.tsx", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.ignore, m.shouldIgnore(tt.path))
		})
	}
}

func TestOpString(t *testing.T) {
	assert.Equal(t, "startup", OpStartup.String())
	assert.Equal(t, "file_added", OpFileAdded.String())
	assert.Equal(t, "file_removed", OpFileRemoved.String())
	assert.Equal(t, "dir_added", OpDirAdded.String())
	assert.Equal(t, "dir_removed", OpDirRemoved.String())
	assert.Equal(t, "unknown", Op(42).String())
}
