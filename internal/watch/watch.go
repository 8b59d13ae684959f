// Package watch rebuilds outputs when their input files change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the inputs must be quiet before a rebuild.
const DefaultDebounce = 300 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	Files    []string // Individual input files
	Dirs     []string // Directories where any change counts
	Debounce time.Duration
	OnChange func(ctx context.Context) error
	Logger   *zap.Logger
}

// Stats counts watcher activity.
type Stats struct {
	Events   int
	Rebuilds int
	Errors   int
}

// Watcher calls OnChange once per burst of filesystem changes. Files are
// watched through their parent directory so editors that save by rename
// are still seen. OnChange runs on the watcher goroutine, never
// concurrently with itself.
type Watcher struct {
	mu        sync.Mutex
	watcher   *fsnotify.Watcher
	files     map[string]bool
	dirs      map[string]bool
	debounce  time.Duration
	onChange  func(ctx context.Context) error
	logger    *zap.Logger
	stopCh    chan struct{}
	doneCh    chan struct{}
	closeOnce sync.Once
	running   bool
	pending   bool
	lastEvent time.Time
	stats     Stats
}

// New creates a Watcher. Call Start to begin watching.
func New(cfg Config) (*Watcher, error) {
	if cfg.OnChange == nil {
		return nil, fmt.Errorf("watch: OnChange is required")
	}
	if len(cfg.Files) == 0 && len(cfg.Dirs) == 0 {
		return nil, fmt.Errorf("watch: nothing to watch")
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &Watcher{
		watcher:  fw,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		debounce: cfg.Debounce,
		onChange: cfg.OnChange,
		logger:   cfg.Logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}

	for _, f := range cfg.Files {
		w.files[cleanPath(f)] = true
	}
	for _, d := range cfg.Dirs {
		w.dirs[cleanPath(d)] = true
	}

	return w, nil
}

func cleanPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// Start registers the watches and begins the event loop.
// It is non-blocking; calling it twice is a no-op.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	watched := make(map[string]bool)
	add := func(dir string) error {
		if watched[dir] {
			return nil
		}
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		watched[dir] = true
		w.logger.Debug("watching directory", zap.String("dir", dir))
		return nil
	}

	for f := range w.files {
		if err := add(filepath.Dir(f)); err != nil {
			w.abort()
			return err
		}
	}
	for d := range w.dirs {
		if err := add(d); err != nil {
			w.abort()
			return err
		}
	}

	go w.run(ctx)
	return nil
}

// abort undoes a failed Start.
func (w *Watcher) abort() {
	w.mu.Lock()
	w.running = false
	w.mu.Unlock()
	w.closeWatcher()
}

// Stop stops the event loop, waits for it to exit and releases the
// underlying watcher. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.mu.Lock()
	running := w.running
	w.running = false
	w.mu.Unlock()

	if running {
		close(w.stopCh)
		<-w.doneCh
	}
	w.closeWatcher()
}

// Done is closed when the event loop exits.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

func (w *Watcher) closeWatcher() {
	w.closeOnce.Do(func() {
		if err := w.watcher.Close(); err != nil {
			w.logger.Warn("closing file watcher", zap.Error(err))
		}
	})
}

// Stats returns a snapshot of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounce / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("file watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-ticker.C:
			w.flush(ctx)
		}
	}
}

// handleEvent marks a rebuild as pending when event touches an input.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op == fsnotify.Chmod || !w.relevant(event.Name) {
		return
	}

	w.logger.Debug("input changed", zap.String("path", event.Name), zap.String("op", event.Op.String()))

	w.mu.Lock()
	w.stats.Events++
	w.pending = true
	w.lastEvent = time.Now()
	w.mu.Unlock()
}

func (w *Watcher) relevant(name string) bool {
	p := cleanPath(name)
	return w.files[p] || w.dirs[filepath.Dir(p)]
}

// flush runs OnChange once the pending burst has been quiet for the
// debounce interval.
func (w *Watcher) flush(ctx context.Context) {
	w.mu.Lock()
	if !w.pending || time.Since(w.lastEvent) < w.debounce {
		w.mu.Unlock()
		return
	}
	w.pending = false
	w.mu.Unlock()

	err := w.onChange(ctx)

	w.mu.Lock()
	w.stats.Rebuilds++
	if err != nil {
		w.stats.Errors++
	}
	w.mu.Unlock()

	if err != nil {
		w.logger.Error("rebuild failed", zap.Error(err))
	}
}
