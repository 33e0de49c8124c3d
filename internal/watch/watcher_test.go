package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWatcher(t *testing.T) (*Watcher, <-chan string) {
	t.Helper()
	changes := make(chan string, 16)
	w, err := New(func(dir string) { changes <- dir }, 20*time.Millisecond)
	require.NoError(t, err, "New watcher creation failed")
	t.Cleanup(func() { _ = w.Close() })
	return w, changes
}

func TestWatcherReportsImageChanges(t *testing.T) {
	dir := t.TempDir()
	w, changes := newTestWatcher(t)
	require.NoError(t, w.Watch(dir))
	assert.Equal(t, dir, w.Dir())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "new.png"), []byte("x"), 0o644))

	select {
	case got := <-changes:
		assert.Equal(t, dir, got)
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for change notification")
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	w, changes := newTestWatcher(t)
	require.NoError(t, w.Watch(dir))

	for _, name := range []string{"a.png", "b.png", "c.jpg"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	select {
	case <-changes:
	case <-time.After(3 * time.Second):
		t.Fatal("timeout waiting for change notification")
	}
	select {
	case <-changes:
		t.Fatal("burst should produce a single notification")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestWatcherRetargetStopsOldDirectory(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	w, changes := newTestWatcher(t)
	require.NoError(t, w.Watch(first))
	require.NoError(t, w.Watch(second))

	require.NoError(t, os.WriteFile(filepath.Join(first, "old.png"), []byte("x"), 0o644))
	select {
	case got := <-changes:
		t.Fatalf("unexpected notification for %s", got)
	case <-time.After(200 * time.Millisecond):
	}

	require.NoError(t, w.Watch(""))
	assert.Equal(t, "", w.Dir())
}

func TestRelevantFiltersEvents(t *testing.T) {
	cases := []struct {
		event fsnotify.Event
		want  bool
	}{
		{fsnotify.Event{Name: "/p/a.png", Op: fsnotify.Create}, true},
		{fsnotify.Event{Name: "/p/A.JPG", Op: fsnotify.Remove}, true},
		{fsnotify.Event{Name: "/p/a.png", Op: fsnotify.Chmod}, false},
		{fsnotify.Event{Name: "/p/notes.txt", Op: fsnotify.Create}, false},
		{fsnotify.Event{Name: "/p/.vimview_trash", Op: fsnotify.Create}, false},
		{fsnotify.Event{Name: "/p/.hidden.png", Op: fsnotify.Write}, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, relevant(tc.event), "event %v", tc.event)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	w, _ := newTestWatcher(t)
	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
}
