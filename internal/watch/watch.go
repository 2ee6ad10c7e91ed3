// Package watch re-runs an action whenever an input file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"anm-exporter/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events an editor save produces.
const DefaultDebounce = 200 * time.Millisecond

// Watcher observes a single file. The parent directory is watched so that
// atomic replace-on-save is seen as a change.
type Watcher struct {
	watcher  *fsnotify.Watcher
	file     string
	debounce time.Duration
	log      logging.Logger
}

// New starts watching path. A non-positive debounce means DefaultDebounce.
func New(path string, debounce time.Duration, log logging.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve %s: %w", path, err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}
	if err := fw.Add(filepath.Dir(abs)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch: add %s: %w", filepath.Dir(abs), err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logging.Nop()
	}
	return &Watcher{watcher: fw, file: abs, debounce: debounce, log: log}, nil
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.file {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

// Run calls fn after each change until ctx is cancelled or the watcher is
// closed. Errors from fn are logged and do not stop the loop.
func (w *Watcher) Run(ctx context.Context, fn func() error) error {
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("input changed", logging.F("file", ev.Name), logging.F("op", ev.Op.String()))
			timer.Reset(w.debounce)

		case <-timer.C:
			if err := fn(); err != nil {
				w.log.Error("rebuild failed", logging.F("file", w.file), logging.F("error", err.Error()))
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("file monitoring error", logging.F("error", err.Error()))
		}
	}
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
