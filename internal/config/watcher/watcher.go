// Package watcher provides live reload for rule files. Changes to a
// watched file are debounced and delivered to a reload handler, which
// typically feeds the scheduler's reconfiguration entry point.
package watcher

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dshills/hilite/internal/diag"
)

// ErrWatcherClosed is returned by Watch after Close.
var ErrWatcherClosed = errors.New("watcher is closed")

// Handler is called with the path of a changed rule file.
type Handler func(path string)

// Watcher monitors rule files via fsnotify.
type Watcher struct {
	mu sync.Mutex

	fsw     *fsnotify.Watcher
	handler Handler

	// debounce coalesces rapid write bursts (editors often emit several
	// events per save).
	debounce time.Duration
	pending  map[string]*time.Timer

	closed  bool
	closeCh chan struct{}
	wg      sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the event coalescing window.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// New creates a watcher delivering change events to the handler.
func New(handler Handler, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		handler:  handler,
		debounce: 100 * time.Millisecond,
		pending:  make(map[string]*time.Timer),
		closeCh:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	w.wg.Add(1)
	go w.processLoop()

	return w, nil
}

// Watch adds a file to the watch list.
func (w *Watcher) Watch(path string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWatcherClosed
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	return w.fsw.Add(absPath)
}

// Close stops the watcher and cancels pending deliveries.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
	close(w.closeCh)
	w.mu.Unlock()

	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

// processLoop consumes fsnotify events until close.
func (w *Watcher) processLoop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.closeCh:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				w.queue(event.Name)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			diag.Warnf(diag.CatConfig, "watch error: %v", err)
		}
	}
}

// queue schedules a debounced delivery for the path, resetting any timer
// already pending for it.
func (w *Watcher) queue(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}

	if timer, ok := w.pending[path]; ok {
		timer.Reset(w.debounce)
		return
	}
	w.pending[path] = time.AfterFunc(w.debounce, func() {
		w.deliver(path)
	})
}

// deliver invokes the handler under panic recovery so a faulty handler
// cannot take down the watcher.
func (w *Watcher) deliver(path string) {
	w.mu.Lock()
	delete(w.pending, path)
	closed := w.closed
	handler := w.handler
	w.mu.Unlock()

	if closed || handler == nil {
		return
	}

	defer func() {
		_ = recover()
	}()
	handler(path)
}
