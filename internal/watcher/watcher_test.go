package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func newTestWatcher(t *testing.T) (*Watcher, chan Event) {
	t.Helper()
	events := make(chan Event, 16)
	w, err := New(func(e Event) { events <- e }, WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { w.Close() })
	return w, events
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestWatchDebouncesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	writeFile(t, path, "one")

	w, events := newTestWatcher(t)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	writeFile(t, path, "two")
	writeFile(t, path, "three")

	select {
	case e := <-events:
		if e.Path != path {
			t.Errorf("expected path %s, got %s", path, e.Path)
		}
		if !e.Op.Has(OpWrite) {
			t.Errorf("expected write op, got %s", e.Op)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}

	select {
	case e := <-events:
		t.Errorf("expected a single debounced event, got extra %+v", e)
	case <-time.After(300 * time.Millisecond):
	}
	if got := w.Stats().Delivered; got != 1 {
		t.Errorf("expected 1 delivered event, got %d", got)
	}
}

func TestWatchIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	writeFile(t, path, "one")

	w, events := newTestWatcher(t)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}

	writeFile(t, filepath.Join(dir, "other.txt"), "noise")
	select {
	case e := <-events:
		t.Errorf("unexpected event %+v", e)
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatchErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "doc.txt")
	writeFile(t, path, "x")

	w, _ := newTestWatcher(t)

	if err := w.Watch(filepath.Join(dir, "missing.txt")); !errors.Is(err, ErrPathNotExist) {
		t.Errorf("expected ErrPathNotExist, got %v", err)
	}
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	if err := w.Watch(path); !errors.Is(err, ErrAlreadyWatching) {
		t.Errorf("expected ErrAlreadyWatching, got %v", err)
	}
	if !w.IsWatching(path) {
		t.Error("expected IsWatching true")
	}
	if err := w.Unwatch(path); err != nil {
		t.Fatalf("Unwatch: %v", err)
	}
	if err := w.Unwatch(path); !errors.Is(err, ErrNotWatching) {
		t.Errorf("expected ErrNotWatching, got %v", err)
	}
	if w.Stats().WatchedFiles != 0 {
		t.Errorf("expected no watched files, got %d", w.Stats().WatchedFiles)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := w.Watch(path); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestConvertOp(t *testing.T) {
	tests := []struct {
		in   fsnotify.Op
		want Op
	}{
		{fsnotify.Create, OpCreate},
		{fsnotify.Write, OpWrite},
		{fsnotify.Write | fsnotify.Chmod, OpWrite | OpChmod},
		{fsnotify.Remove, OpRemove},
		{fsnotify.Rename, OpRename},
		{0, 0},
	}
	for _, tt := range tests {
		if got := convertOp(tt.in); got != tt.want {
			t.Errorf("convertOp(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOpString(t *testing.T) {
	if got := OpWrite.String(); got != "WRITE" {
		t.Errorf("expected WRITE, got %s", got)
	}
	if got := (OpCreate | OpWrite).String(); got != "CREATE|WRITE" {
		t.Errorf("expected CREATE|WRITE, got %s", got)
	}
	if got := Op(0).String(); got != "UNKNOWN" {
		t.Errorf("expected UNKNOWN, got %s", got)
	}
}
