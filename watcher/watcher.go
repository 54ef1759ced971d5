package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet window used by NewWatcher.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changes to a fixed set of files. It watches their parent
// directories so files replaced by rename keep being tracked.
type Watcher struct {
	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	targets   map[string]bool
	logger    *slog.Logger
}

// NewWatcher watches files, which need not exist yet; their directories must.
func NewWatcher(files []string, logger *slog.Logger) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		debouncer: NewDebouncer(DefaultDebounce),
		targets:   make(map[string]bool),
		logger:    logger,
	}

	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("resolving %s: %w", file, err)
		}
		w.targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			fsWatcher.Close()
			return nil, fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	return w, nil
}

// Events delivers debounced batches of changes to the watched files.
func (w *Watcher) Events() <-chan []DebouncedEvent {
	return w.debouncer.Output()
}

// Start forwards events until ctx is done or the watcher is closed, then
// closes Events. Call it in a goroutine.
func (w *Watcher) Start(ctx context.Context) {
	defer w.debouncer.Stop()
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := filepath.Clean(event.Name)
	if !w.targets[path] {
		return
	}

	var op EventOp
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpWrite
	case event.Has(fsnotify.Remove):
		op = OpRemove
	case event.Has(fsnotify.Rename):
		op = OpRename
	default:
		return
	}

	w.logger.Debug("watched file changed", "path", path, "op", op)
	w.debouncer.Add(path, op)
}

// Close stops the underlying fsnotify watcher.
func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}
