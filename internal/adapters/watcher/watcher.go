// Package watcher reports changes to a sheet file using fsnotify.
package watcher

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/flock/internal/core/domain"
	"go.trai.ch/flock/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

const eventChannelBuffer = 16

// Watcher implements ports.Watcher. It watches the directory holding the sheet, since
// editors often replace a file instead of writing it in place.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	logger    ports.Logger
	target    string

	mu     sync.Mutex
	closed bool
	events chan ports.WatchEvent
}

// NewWatcher creates a watcher whose events are debounced by window.
func NewWatcher(window time.Duration, logger ports.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrWatchFailed.Error())
	}
	w := &Watcher{
		fsWatcher: fsw,
		logger:    logger,
		events:    make(chan ports.WatchEvent, eventChannelBuffer),
	}
	w.debouncer = NewDebouncer(window, w.emit)
	return w, nil
}

// Start begins watching path.
func (w *Watcher) Start(ctx context.Context, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "path", path)
	}
	if _, err := os.Stat(abs); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "path", path)
	}
	if err := w.fsWatcher.Add(filepath.Dir(abs)); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrWatchFailed.Error()), "path", path)
	}
	w.target = abs

	go w.processEvents(ctx)
	return nil
}

// Stop stops the watcher. Events ends once pending events are delivered.
func (w *Watcher) Stop() error {
	return w.fsWatcher.Close()
}

// Events yields debounced change events until the watcher stops.
func (w *Watcher) Events() iter.Seq[ports.WatchEvent] {
	return func(yield func(ports.WatchEvent) bool) {
		for event := range w.events {
			if !yield(event) {
				return
			}
		}
	}
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer w.finish()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			if relevant(event) && filepath.Clean(event.Name) == w.target {
				w.debouncer.Add(event.Name)
			}
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher: " + err.Error())
		}
	}
}

// emit delivers one batch. Batches arriving after shutdown, or while the consumer is
// still busy with a full buffer, are dropped; the next reload reads the latest file anyway.
func (w *Watcher) emit(paths []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	select {
	case w.events <- ports.WatchEvent{Paths: paths}:
	default:
	}
}

func (w *Watcher) finish() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.closed = true
	close(w.events)
}

// relevant reports whether event may have changed the file contents.
func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
