// Package watch re-runs generation when Go sources under the watched trees
// change.
package watch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before a run.
const DefaultDebounce = 500 * time.Millisecond

// Config selects the watched trees.
type Config struct {
	// Roots are watched recursively.
	Roots []string
	// Exclude lists trees whose events are ignored, typically the output
	// directory.
	Exclude []string
	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration
}

// Watcher calls a function after Go files change. Calls never overlap.
type Watcher struct {
	roots    []string
	exclude  []string
	debounce time.Duration
	onChange func(context.Context) error
	logger   *slog.Logger
	fs       *fsnotify.Watcher

	mu    sync.Mutex
	timer *time.Timer
	// running serializes onChange calls.
	running sync.Mutex
	once    sync.Once
}

// New watches every directory under cfg.Roots except the excluded trees.
// A nil logger means slog.Default().
func New(cfg Config, onChange func(context.Context) error, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}

	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	w := &Watcher{
		debounce: cfg.Debounce,
		onChange: onChange,
		logger:   logger,
		fs:       fs,
	}

	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	if w.roots, err = absAll(cfg.Roots); err == nil {
		w.exclude, err = absAll(cfg.Exclude)
	}

	for _, root := range w.roots {
		if err != nil {
			break
		}

		err = w.addRecursive(root)
	}

	if err != nil {
		_ = fs.Close()

		return nil, err
	}

	return w, nil
}

func absAll(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", p, err)
		}

		out = append(out, abs)
	}

	return out, nil
}

// Run dispatches events until ctx is done, then closes the watcher and
// waits for a pending call to finish.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return errors.New("watcher events channel closed")
			}

			w.handle(ctx, event)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return errors.New("watcher errors channel closed")
			}

			w.logger.Error("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if w.excluded(event.Name) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.addRecursive(event.Name); err != nil {
				w.logger.Warn("failed to watch new directory", "path", event.Name, "error", err)
			}

			return
		}
	}

	if !strings.HasSuffix(event.Name, ".go") || event.Op == fsnotify.Chmod {
		return
	}

	w.logger.Debug("file event", "op", event.Op.String(), "path", event.Name)
	w.schedule(ctx)
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}

	w.timer = time.AfterFunc(w.debounce, func() {
		w.running.Lock()
		defer w.running.Unlock()

		if ctx.Err() != nil {
			return
		}

		w.logger.Info("changes detected, regenerating")

		if err := w.onChange(ctx); err != nil {
			w.logger.Error("regeneration failed", "error", err)
		}
	})
}

// Close stops the timer and releases the watcher. It is safe to call more
// than once.
func (w *Watcher) Close() error {
	var err error

	w.once.Do(func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		w.mu.Unlock()

		// wait for an in-flight call
		w.running.Lock()
		err = w.fs.Close()
		w.running.Unlock()
	})

	return err
}

func (w *Watcher) excluded(path string) bool {
	for _, ex := range w.exclude {
		if path == ex || strings.HasPrefix(path, ex+string(filepath.Separator)) {
			return true
		}
	}

	return false
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if w.excluded(path) {
			w.logger.Debug("excluding directory", "path", path)

			return filepath.SkipDir
		}

		if err := w.fs.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}

		return nil
	})
}
