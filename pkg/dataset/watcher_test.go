package dataset

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherReportsMatchingWrites(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir, "*.jsonl", nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to register.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "data.jsonl")
	if err := os.WriteFile(path, []byte(`{"target":[1]}`+"\n"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	select {
	case got := <-w.Changes():
		if got != path {
			t.Errorf("change path = %q, want %q", got, path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change notification for a matching write")
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Run() = %v, want context.Canceled", err)
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w := NewWatcher(dir, "*.jsonl", nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	select {
	case got := <-w.Changes():
		t.Errorf("unexpected change notification %q for a non-matching file", got)
	case <-time.After(600 * time.Millisecond):
	}
}
