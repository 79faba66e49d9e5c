// Filesystem watcher for the lexicon override directory. Reloads the whole
// library once writes have settled, so a batch of copied files triggers a
// single reload.
package lexicon

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reloads a Library when its override directory changes.
type Watcher struct {
	lib *Library
	dir string
	log *zap.Logger

	watcher     *fsnotify.Watcher
	debounceDur time.Duration

	mu      sync.Mutex
	pending map[string]time.Time
	running bool

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewWatcher creates a watcher over the library's override directory.
func NewWatcher(lib *Library, dir string, log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		lib:         lib,
		dir:         dir,
		log:         log,
		watcher:     fsw,
		debounceDur: 500 * time.Millisecond, // editors and copies save in bursts
		pending:     make(map[string]time.Time),
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking: the event loop runs in a goroutine
// until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	if err := w.watcher.Add(w.dir); err != nil {
		w.mu.Lock()
		w.running = false
		w.mu.Unlock()
		return err
	}
	w.log.Info("watching lexicon overrides", zap.String("dir", w.dir))

	go w.run(ctx)
	return nil
}

// Stop halts the event loop and closes the underlying watcher.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		w.log.Warn("closing lexicon watcher", zap.Error(err))
	}
}

// run is the watcher event loop.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(100 * time.Millisecond)
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
			w.log.Warn("lexicon watcher error", zap.Error(err))

		case <-ticker.C:
			w.reloadSettled()
		}
	}
}

// handleEvent records a yaml change for debounced processing.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !strings.HasSuffix(event.Name, ".yaml") {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return // ignore chmod
	}

	w.mu.Lock()
	w.pending[event.Name] = time.Now()
	w.mu.Unlock()
}

// reloadSettled reloads once when every pending change has settled past the
// debounce window. A failed reload keeps the previous locale set.
func (w *Watcher) reloadSettled() {
	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	now := time.Now()
	for _, at := range w.pending {
		if now.Sub(at) < w.debounceDur {
			w.mu.Unlock()
			return
		}
	}
	changed := len(w.pending)
	w.pending = make(map[string]time.Time)
	w.mu.Unlock()

	if err := w.lib.Reload(); err != nil {
		w.log.Warn("lexicon reload failed, keeping previous set",
			zap.Int("changed_files", changed),
			zap.Error(err),
		)
	}
}
