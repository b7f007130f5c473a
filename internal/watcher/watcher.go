// Package watcher reports settled changes to a single file using fsnotify.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors one file. It watches the parent directory so that the
// file may be created after the watcher starts and editors that save by
// renaming a temp file over it are still seen.
type Watcher struct {
	logger *slog.Logger
	opts   Options
	path   string
	fsw    *fsnotify.Watcher

	mu      sync.Mutex // protects pending
	pending *pendingEvent

	events   chan Event
	errors   chan error
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// pendingEvent tracks a write that may still be in progress.
type pendingEvent struct {
	size    int64
	modTime time.Time
	timer   *time.Timer
}

// New creates a watcher for path. The parent directory must exist.
func New(path string, logger *slog.Logger, opts Options) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	opts.setDefaults()

	path, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}

	logger.Info("watching dataset file", "path", path, "settle_delay", opts.SettleDelay)

	return &Watcher{
		logger: logger,
		opts:   opts,
		path:   path,
		fsw:    fsw,
		events: make(chan Event, 16),
		errors: make(chan error, 4),
		done:   make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Start processes file system events until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.wg.Add(1)
	defer w.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.done:
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			select {
			case w.errors <- err:
			default:
				w.logger.Warn("dropping watcher error", "error", err)
			}
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event) {
	if filepath.Clean(event.Name) != w.path {
		return
	}

	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		w.cancelPending()
		w.emit(Event{Type: EventRemoved, Path: w.path})
	case event.Op&(fsnotify.Write|fsnotify.Create) != 0:
		w.startSettling()
	}
}

// startSettling (re)starts the settle timer for the watched file.
func (w *Watcher) startSettling() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.timer.Stop()
		w.pending = nil
	}

	info, err := os.Stat(w.path)
	if err != nil || info.IsDir() {
		return
	}

	w.pending = &pendingEvent{size: info.Size(), modTime: info.ModTime()}
	w.pending.timer = time.AfterFunc(w.opts.SettleDelay, w.checkSettled)
}

// checkSettled emits a change once size and mtime stop moving.
func (w *Watcher) checkSettled() {
	w.mu.Lock()
	defer w.mu.Unlock()

	pending := w.pending
	if pending == nil {
		return
	}

	info, err := os.Stat(w.path)
	if err != nil {
		w.pending = nil
		w.emit(Event{Type: EventRemoved, Path: w.path})
		return
	}

	if info.Size() != pending.size || !info.ModTime().Equal(pending.modTime) {
		pending.size = info.Size()
		pending.modTime = info.ModTime()
		pending.timer = time.AfterFunc(w.opts.SettleDelay, w.checkSettled)
		return
	}

	w.pending = nil
	w.emit(Event{
		Type:    EventChanged,
		Path:    w.path,
		Size:    info.Size(),
		ModTime: info.ModTime(),
	})
}

func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.pending != nil {
		w.pending.timer.Stop()
		w.pending = nil
	}
}

// emit sends an event unless the watcher is stopping.
func (w *Watcher) emit(event Event) {
	select {
	case <-w.done:
		return
	default:
	}
	select {
	case w.events <- event:
	case <-w.done:
	}
}

// Events returns the channel of settled events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Errors returns the channel of backend errors.
func (w *Watcher) Errors() <-chan error {
	return w.errors
}

// Stop stops the watcher and closes its channels. It is safe to call more than once.
func (w *Watcher) Stop() error {
	var err error
	w.stopOnce.Do(func() {
		close(w.done)
		w.cancelPending()
		err = w.fsw.Close()
		w.wg.Wait()
		close(w.events)
		close(w.errors)
	})
	return err
}
