// Package watch observes the data directory for external rewrites of the
// notes file and emits debounced reload events.
//
// The session owns the in-memory collection, but another process (a second
// terminal, a sync job) can rewrite the durable store underneath it. The
// watcher batches rapid file events together and emits one reload signal
// per quiet window.
package watch

import (
	"context"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits before emitting a reload
// after the last observed change.
const DefaultDebounce = 250 * time.Millisecond

// Watcher monitors a directory and signals when its contents changed.
type Watcher struct {
	dir      string
	debounce time.Duration
	logger   *log.Logger

	watcher *fsnotify.Watcher
	reloads chan struct{}

	mu      sync.Mutex
	pending time.Time
	running bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a watcher over dir. If logger is nil, a default stderr
// logger is used.
func New(dir string, debounce time.Duration, logger *log.Logger) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = log.New(os.Stderr, "[watch] ", log.LstdFlags)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Watcher{
		dir:      dir,
		debounce: debounce,
		logger:   logger,
		watcher:  fsw,
		reloads:  make(chan struct{}, 1),
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start begins watching. Reload signals arrive on Reloads() until Stop.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return fmt.Errorf("watcher already running")
	}
	if err := w.watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", w.dir, err)
	}
	w.running = true

	w.wg.Add(2)
	go w.processEvents()
	go w.processQueue()
	return nil
}

// Stop stops watching and releases resources. It blocks until the event
// goroutines have exited.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = false
	w.mu.Unlock()

	w.cancel()
	if err := w.watcher.Close(); err != nil {
		return fmt.Errorf("failed to close watcher: %w", err)
	}
	w.wg.Wait()
	close(w.reloads)
	return nil
}

// Reloads returns the channel signalling that the store changed on disk.
// The channel is closed when the watcher stops.
func (w *Watcher) Reloads() <-chan struct{} {
	return w.reloads
}

// processEvents queues raw fsnotify events with a timestamp.
func (w *Watcher) processEvents() {
	defer w.wg.Done()

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.mu.Lock()
			w.pending = time.Now()
			w.mu.Unlock()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Printf("Watcher error: %v", err)
		}
	}
}

// processQueue emits one reload per quiet window.
func (w *Watcher) processQueue() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			w.mu.Lock()
			ready := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
			if ready {
				w.pending = time.Time{}
			}
			w.mu.Unlock()

			if ready {
				select {
				case w.reloads <- struct{}{}:
				default:
					// A reload is already queued; coalesce.
				}
			}
		}
	}
}
