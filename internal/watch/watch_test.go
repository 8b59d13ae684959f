package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

const testDebounce = 50 * time.Millisecond

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// waitFor returns true if ch receives within d.
func waitFor(ch <-chan struct{}, d time.Duration) bool {
	select {
	case <-ch:
		return true
	case <-time.After(d):
		return false
	}
}

func TestNew_Validation(t *testing.T) {
	if _, err := New(Config{Files: []string{"x"}}); err == nil {
		t.Error("New() without OnChange should fail")
	}
	noop := func(context.Context) error { return nil }
	if _, err := New(Config{OnChange: noop}); err == nil {
		t.Error("New() without inputs should fail")
	}
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	table := filepath.Join(dir, "dashboard.csv")
	writeFile(t, table, "doi\n")

	calls := make(chan struct{}, 10)
	w, err := New(Config{
		Files:    []string{table},
		Debounce: testDebounce,
		OnChange: func(context.Context) error {
			calls <- struct{}{}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		writeFile(t, table, "doi\n10.1/x\n")
	}

	if !waitFor(calls, 2*time.Second) {
		t.Fatal("OnChange not called after write burst")
	}
	if waitFor(calls, 4*testDebounce) {
		t.Error("OnChange called more than once for one burst")
	}

	stats := w.Stats()
	if stats.Rebuilds != 1 {
		t.Errorf("Rebuilds = %d, want 1", stats.Rebuilds)
	}
	if stats.Events == 0 {
		t.Error("Events = 0, want > 0")
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	table := filepath.Join(dir, "dashboard.csv")
	writeFile(t, table, "doi\n")

	calls := make(chan struct{}, 10)
	w, err := New(Config{
		Files:    []string{table},
		Debounce: testDebounce,
		OnChange: func(context.Context) error {
			calls <- struct{}{}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	writeFile(t, filepath.Join(dir, "explorer.html"), "<html></html>")

	if waitFor(calls, 6*testDebounce) {
		t.Error("OnChange called for a file that is not an input")
	}
}

func TestWatcher_DirectoryInputs(t *testing.T) {
	defer goleak.VerifyNone(t)

	meta := t.TempDir()
	calls := make(chan struct{}, 10)
	w, err := New(Config{
		Dirs:     []string{meta},
		Debounce: testDebounce,
		OnChange: func(context.Context) error {
			calls <- struct{}{}
			return errors.New("rebuild failed")
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	writeFile(t, filepath.Join(meta, "10.1_x.json"), `{"title":"T"}`)

	if !waitFor(calls, 2*time.Second) {
		t.Fatal("OnChange not called for new side-file")
	}
	// Give the loop a moment to record the failure.
	deadline := time.Now().Add(time.Second)
	for w.Stats().Errors == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if w.Stats().Errors == 0 {
		t.Error("failed rebuild not counted")
	}
}

func TestWatcher_ContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := New(Config{
		Dirs:     []string{t.TempDir()},
		OnChange: func(context.Context) error { return nil },
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	cancel()

	if !waitFor(w.Done(), time.Second) {
		t.Fatal("event loop did not exit on cancel")
	}
	w.Stop()
	w.Stop()
}

func TestWatcher_StartMissingDirectory(t *testing.T) {
	defer goleak.VerifyNone(t)

	w, err := New(Config{
		Dirs:     []string{filepath.Join(t.TempDir(), "missing")},
		OnChange: func(context.Context) error { return nil },
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := w.Start(context.Background()); err == nil {
		t.Error("Start() should fail for a missing directory")
	}
	w.Stop()
}
