package watch

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func startWatcher(t *testing.T, dir string) *Watcher {
	t.Helper()

	w, err := New(dir, 30*time.Millisecond, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	t.Cleanup(func() {
		if err := w.Stop(); err != nil {
			t.Errorf("Stop() error: %v", err)
		}
	})
	return w
}

func awaitReload(t *testing.T, w *Watcher) {
	t.Helper()

	select {
	case <-w.Reloads():
	case <-time.After(3 * time.Second):
		t.Fatal("no reload signal within 3s")
	}
}

func TestWriteTriggersReload(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	if err := os.WriteFile(filepath.Join(dir, "notes.json"), []byte(`[]`), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	awaitReload(t, w)
}

func TestBurstCoalesces(t *testing.T) {
	dir := t.TempDir()
	w := startWatcher(t, dir)

	path := filepath.Join(dir, "notes.json")
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte(`[]`), 0o644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
	}
	awaitReload(t, w)

	// The burst already settled; no second signal should follow.
	select {
	case _, open := <-w.Reloads():
		if open {
			t.Error("burst produced a second reload signal")
		}
	case <-time.After(200 * time.Millisecond):
	}
}

func TestStartTwice(t *testing.T) {
	w := startWatcher(t, t.TempDir())
	if err := w.Start(); err == nil {
		t.Error("second Start() = nil error, want already-running failure")
	}
}

func TestStopClosesReloads(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir, 30*time.Millisecond, log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Fatalf("Stop() error: %v", err)
	}

	select {
	case _, open := <-w.Reloads():
		if open {
			t.Error("Reloads() yielded a value after Stop")
		}
	case <-time.After(time.Second):
		t.Error("Reloads() not closed after Stop")
	}
}
