// Package watch rebuilds an Index whenever its underlying block files
// change on disk and atomically swaps a pointer to the active Index,
// so concurrent readers never observe a torn or partially loaded
// update. It never mutates a loaded index.Index in place — spec.md §3
// requires every loaded Index to be immutable for its lifetime — it
// only ever replaces which Index a Watcher currently points at.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/soundhash/fpindex/index"
)

// Watcher watches a fixed, ordered list of block paths and keeps an
// Index current as those files are rewritten (e.g. by `fpindex build`
// run against the same paths). Reads of the current Index never
// block on a rebuild in progress.
type Watcher struct {
	log      *slog.Logger
	paths    []string
	debounce time.Duration
	current  atomic.Pointer[index.Index]
	cancel   context.CancelFunc
	stopped  chan struct{}

	mu            sync.Mutex
	debounceTimer *time.Timer
}

// New creates a Watcher over paths. debounce coalesces bursts of
// filesystem events (e.g. an editor's write-then-rename) into a
// single reload; zero selects a 500ms default.
func New(log *slog.Logger, paths []string, debounce time.Duration) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("watch: paths must not be empty")
	}
	if debounce == 0 {
		debounce = 500 * time.Millisecond
	}
	return &Watcher{log: log, paths: paths, debounce: debounce, stopped: make(chan struct{})}, nil
}

// Paths returns the watcher's configured block paths.
func (w *Watcher) Paths() []string { return w.paths }

// Current returns the most recently loaded Index, or nil before the
// first successful load.
func (w *Watcher) Current() *index.Index { return w.current.Load() }

// Start performs the initial load and then watches paths for changes
// until ctx is cancelled or Stop is called. The initial load must
// succeed; Start returns its error otherwise.
func (w *Watcher) Start(ctx context.Context) error {
	ix, err := index.Load(w.paths)
	if err != nil {
		return fmt.Errorf("watch: initial load: %w", err)
	}
	w.current.Store(ix)
	w.log.Info("watch: loaded initial index", "paths", w.paths, "songs", ix.SongCount())

	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	go w.watchLoop(watchCtx)
	return nil
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.stopped)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.log.Error("watch: creating fsnotify watcher", "error", err)
		return
	}
	defer fw.Close()

	// Watch each block's directory, not the file: BuildAndWriteBlock
	// renames a new file over the old one, which shows up as a Create
	// in the directory. Events for other files there are ignored.
	watched := make(map[string]bool, len(w.paths))
	for _, p := range w.paths {
		watched[filepath.Clean(p)] = true
		if err := fw.Add(filepath.Dir(p)); err != nil {
			w.log.Error("watch: adding directory", "path", p, "error", err)
			return
		}
	}

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fw.Events:
			if !ok {
				return
			}
			if watched[filepath.Clean(event.Name)] && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.scheduleReload(ctx)
			}

		case err, ok := <-fw.Errors:
			if !ok {
				return
			}
			w.log.Error("watch: fsnotify error", "error", err)
		}
	}
}

func (w *Watcher) scheduleReload(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debounce, func() {
		w.reload(ctx)
	})
}

// reload loads a fresh Index from w.paths and swaps it in. The
// previous Index is closed only after the swap, so a reader holding
// it from before the swap still sees consistent data for the
// duration of its own call.
func (w *Watcher) reload(ctx context.Context) {
	ix, err := index.Load(w.paths)
	if err != nil {
		w.log.Error("watch: reload failed, keeping previous index", "error", err)
		return
	}
	prev := w.current.Swap(ix)
	w.log.Info("watch: reloaded index", "songs", ix.SongCount())
	if prev != nil {
		prev.Close()
	}
}

// Stop cancels the watch loop and waits up to 5 seconds for it to
// exit.
func (w *Watcher) Stop() error {
	if w.cancel == nil {
		// Start was never called; there is no watch loop to wait on.
		return nil
	}
	w.cancel()
	select {
	case <-w.stopped:
		return nil
	case <-time.After(5 * time.Second):
		return fmt.Errorf("watch: timed out waiting for watcher to stop")
	}
}
