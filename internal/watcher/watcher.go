// Package watcher triggers ingestion when documents land in the pending
// directory.
package watcher

import (
	"context"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/mesrag/mesrag/internal/extract"
	"go.uber.org/zap"
)

const defaultDebounce = 400 * time.Millisecond

// Watcher watches the pending directory and invokes the import callback when
// supported documents appear. Events are debounced so that a burst of file
// drops results in a single import pass, which then picks up the whole
// directory.
type Watcher struct {
	dir      string
	onImport func()
	debounce time.Duration
	watcher  *fsnotify.Watcher
	logger   *zap.Logger

	mu       sync.Mutex
	timer    *time.Timer
	done     chan struct{}
	started  bool
	stopOnce sync.Once
}

// NewWatcher creates a watcher over dir. onImport is called after the
// debounce window whenever a supported file is created or written.
func NewWatcher(dir string, onImport func(), logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		dir:      dir,
		onImport: onImport,
		debounce: defaultDebounce,
		logger:   logger,
		done:     make(chan struct{}),
	}
}

// Start starts the watcher. It runs until ctx is cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.started {
		w.mu.Unlock()
		return nil
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return err
	}
	if err := fw.Add(w.dir); err != nil {
		_ = fw.Close()
		w.mu.Unlock()
		return err
	}
	w.watcher = fw
	w.started = true
	w.mu.Unlock()
	w.logger.Info("watching pending directory", zap.String("dir", w.dir))
	go w.run(ctx)
	return nil
}

func (w *Watcher) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			w.Stop()
			return
		case <-w.done:
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			if err != nil {
				w.logger.Debug("watcher error", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}
	if !extract.SupportedExtension(ev.Name) {
		return
	}
	w.logger.Debug("pending file event", zap.String("op", ev.Op.String()), zap.String("path", ev.Name))
	w.scheduleImport()
}

func (w *Watcher) scheduleImport() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.onImport)
}

// Stop stops the watcher and cancels any pending import trigger.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		if w.timer != nil {
			w.timer.Stop()
		}
		if w.watcher != nil {
			_ = w.watcher.Close()
		}
		w.mu.Unlock()
		close(w.done)
	})
}
