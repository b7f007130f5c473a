package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string) *Watcher {
	t.Helper()

	w, err := New(path, nil, Options{SettleDelay: 50 * time.Millisecond})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = w.Start(ctx) }()

	t.Cleanup(func() {
		cancel()
		_ = w.Stop()
	})
	return w
}

func waitEvent(t *testing.T, w *Watcher) Event {
	t.Helper()

	select {
	case ev := <-w.Events():
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
		return Event{}
	}
}

func TestWatcher_ReportsSettledWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bestsellers.csv")
	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("Name,Author\n"), 0o600))

	ev := waitEvent(t, w)
	assert.Equal(t, EventChanged, ev.Type)
	assert.Equal(t, path, ev.Path)
	assert.Equal(t, int64(len("Name,Author\n")), ev.Size)
}

func TestWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bestsellers.csv")
	w := startWatcher(t, path)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.csv"), []byte("x"), 0o600))

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event %v for %s", ev.Type, ev.Path)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_ReportsRemoval(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bestsellers.csv")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))
	w := startWatcher(t, path)

	require.NoError(t, os.Remove(path))

	ev := waitEvent(t, w)
	assert.Equal(t, EventRemoved, ev.Type)
}

func TestWatcher_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "nope", "bestsellers.csv"), nil, Options{})
	assert.Error(t, err)
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := New(filepath.Join(t.TempDir(), "bestsellers.csv"), nil, Options{})
	require.NoError(t, err)

	assert.NoError(t, w.Stop())
	assert.NoError(t, w.Stop())

	_, open := <-w.Events()
	assert.False(t, open)
}

func TestOptions_Defaults(t *testing.T) {
	opts := Options{}
	opts.setDefaults()
	assert.Equal(t, DefaultSettleDelay, opts.SettleDelay)

	opts = Options{SettleDelay: time.Second}
	opts.setDefaults()
	assert.Equal(t, time.Second, opts.SettleDelay)
}

func TestEventType_String(t *testing.T) {
	assert.Equal(t, "changed", EventChanged.String())
	assert.Equal(t, "removed", EventRemoved.String())
	assert.Equal(t, "unknown", EventType(9).String())
}
