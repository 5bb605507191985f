package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDebounce = 50 * time.Millisecond
	settle       = 300 * time.Millisecond
	waitFor      = 3 * time.Second
	tick         = 10 * time.Millisecond
)

func writeFile(t *testing.T, path string) {
	t.Helper()

	require.NoError(t, os.WriteFile(path, []byte("package x\n"), 0o600))
}

func startWatcher(t *testing.T, cfg Config, onChange func(context.Context) error) {
	t.Helper()

	w, err := New(cfg, onChange, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() { done <- w.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
	})
}

func TestWatcher_DebouncesGoChanges(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "mappers")
	require.NoError(t, os.Mkdir(out, 0o755))

	var runs atomic.Int32

	startWatcher(t, Config{Roots: []string{root}, Exclude: []string{out}, Debounce: testDebounce},
		func(context.Context) error {
			runs.Add(1)

			return nil
		})

	writeFile(t, filepath.Join(root, "user.go"))
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, waitFor, tick)

	writeFile(t, filepath.Join(root, "notes.txt"))
	writeFile(t, filepath.Join(out, "user_mapper.go"))
	time.Sleep(settle)
	assert.Equal(t, int32(1), runs.Load(), "non-Go and excluded files are ignored")

	for range 5 {
		writeFile(t, filepath.Join(root, "user.go"))
	}

	assert.Eventually(t, func() bool { return runs.Load() == 2 }, waitFor, tick)
	time.Sleep(settle)
	assert.Equal(t, int32(2), runs.Load(), "a burst of writes triggers one run")
}

func TestWatcher_NewDirectories(t *testing.T) {
	root := t.TempDir()

	var runs atomic.Int32

	startWatcher(t, Config{Roots: []string{root}, Debounce: testDebounce},
		func(context.Context) error {
			runs.Add(1)

			return nil
		})

	sub := filepath.Join(root, "billing")
	require.NoError(t, os.Mkdir(sub, 0o755))
	time.Sleep(settle)
	assert.Zero(t, runs.Load())

	writeFile(t, filepath.Join(sub, "invoice.go"))
	assert.Eventually(t, func() bool { return runs.Load() == 1 }, waitFor, tick)
}

func TestWatcher_RunsNeverOverlap(t *testing.T) {
	root := t.TempDir()

	var active, maxActive, runs atomic.Int32

	startWatcher(t, Config{Roots: []string{root}, Debounce: time.Millisecond},
		func(context.Context) error {
			n := active.Add(1)
			defer active.Add(-1)

			for {
				m := maxActive.Load()
				if n <= m || maxActive.CompareAndSwap(m, n) {
					break
				}
			}

			runs.Add(1)
			time.Sleep(100 * time.Millisecond)

			return nil
		})

	for range 4 {
		writeFile(t, filepath.Join(root, "user.go"))
		time.Sleep(30 * time.Millisecond)
	}

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, waitFor, tick)
	assert.Equal(t, int32(1), maxActive.Load())
}

func TestNew_MissingRoot(t *testing.T) {
	_, err := New(Config{Roots: []string{filepath.Join(t.TempDir(), "missing")}}, nil, nil)
	assert.Error(t, err)
}
