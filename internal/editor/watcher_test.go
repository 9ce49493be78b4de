package editor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitChanged(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case <-w.Changed():
	case <-time.After(5 * time.Second):
		t.Fatal("watcher reported no change")
	}
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "renderer.yaml")
	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	assert.Nil(t, w.Drain())
	require.NoError(t, os.WriteFile(path, []byte("renderer: x\n"), 0o644))
	waitChanged(t, w)

	assert.Equal(t, []string{w.Path()}, w.Drain())
	assert.Nil(t, w.Drain(), "drained once")
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(filepath.Join(dir, "renderer.yaml"))
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x"), 0o644))
	select {
	case <-w.Changed():
		t.Fatal("sibling write reported")
	case <-time.After(200 * time.Millisecond):
	}
	assert.Nil(t, w.Drain())
}

func TestWatcherCloseTwice(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "renderer.yaml"))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.NotPanics(t, func() { assert.NoError(t, w.Close()) })
	assert.Nil(t, w.Drain())
}

func TestWatcherMissingDirectory(t *testing.T) {
	_, err := NewWatcher(filepath.Join(t.TempDir(), "missing", "renderer.yaml"))
	assert.Error(t, err)
}
