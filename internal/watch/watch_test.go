// SPDX-License-Identifier: MIT

package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

const showsFile = "config_shows.json"

func startWatcher(t *testing.T, dir string, debounce time.Duration) (*Watcher, context.CancelFunc) {
	t.Helper()

	w := New(dir, debounce, map[string]string{
		showsFile: "shows",
	})

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		cancel()
		t.Fatalf("Start() error = %v", err)
	}
	return w, cancel
}

func expectChange(t *testing.T, w *Watcher, want string, timeout time.Duration) {
	t.Helper()
	select {
	case got, ok := <-w.Changes():
		if !ok {
			t.Fatal("change channel closed unexpectedly")
		}
		if got != want {
			t.Fatalf("change = %q, want %q", got, want)
		}
	case <-time.After(timeout):
		t.Fatalf("no change notification within %v", timeout)
	}
}

func expectSilence(t *testing.T, w *Watcher, window time.Duration) {
	t.Helper()
	select {
	case got, ok := <-w.Changes():
		if ok {
			t.Fatalf("unexpected change notification %q", got)
		}
	case <-time.After(window):
	}
}

func TestWatcherReportsExternalChange(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	w, cancel := startWatcher(t, dir, 50*time.Millisecond)
	defer cancel()

	path := filepath.Join(dir, showsFile)
	if err := os.WriteFile(path, []byte(`{}`), 0600); err != nil {
		t.Fatal(err)
	}

	expectChange(t, w, "shows", 2*time.Second)
}

func TestWatcherIgnoresUntrackedFiles(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	w, cancel := startWatcher(t, dir, 50*time.Millisecond)
	defer cancel()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}
	// Pending-save temp names must not match either.
	if err := os.WriteFile(filepath.Join(dir, ".config_shows.json-tmp"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	expectSilence(t, w, 300*time.Millisecond)

	// The tracked document still gets through afterwards.
	if err := os.WriteFile(filepath.Join(dir, showsFile), []byte(`{}`), 0600); err != nil {
		t.Fatal(err)
	}
	expectChange(t, w, "shows", 2*time.Second)
}

func TestWatcherCoalescesBursts(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	w, cancel := startWatcher(t, dir, 100*time.Millisecond)
	defer cancel()

	path := filepath.Join(dir, showsFile)
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte(`{}`), 0600); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}

	expectChange(t, w, "shows", 2*time.Second)
	expectSilence(t, w, 300*time.Millisecond)
}

func TestWatcherSuppressesOwnSaves(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	w, cancel := startWatcher(t, dir, 50*time.Millisecond)
	defer cancel()

	w.MarkSelfWrite(showsFile)
	if err := os.WriteFile(filepath.Join(dir, showsFile), []byte(`{}`), 0600); err != nil {
		t.Fatal(err)
	}

	expectSilence(t, w, 300*time.Millisecond)

	// The mark is consumed; the next change is external again.
	if err := os.WriteFile(filepath.Join(dir, showsFile), []byte(`{"a":{}}`), 0600); err != nil {
		t.Fatal(err)
	}
	expectChange(t, w, "shows", 2*time.Second)
}

func TestWatcherClosesChannelOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	dir := t.TempDir()
	w, cancel := startWatcher(t, dir, 50*time.Millisecond)

	cancel()

	select {
	case _, ok := <-w.Changes():
		if ok {
			t.Fatal("expected closed channel, got notification")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("change channel not closed after cancellation")
	}
}

func TestWatcherStartFailsOnMissingDir(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "absent"), 50*time.Millisecond, nil)

	if err := w.Start(context.Background()); err == nil {
		t.Fatal("expected error for missing directory, got nil")
	}
}
