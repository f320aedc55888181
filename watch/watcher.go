// Package watch re-runs document assembly when element or configuration
// files change on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long to wait for further changes before firing.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a set of directories and invokes a callback after file
// changes settle. Events are debounced: a burst of writes produces one
// callback invocation.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	exts     map[string]struct{}
	logger   *slog.Logger
}

// New creates a Watcher over dirs. Only files with one of exts (defaults to
// .json) trigger the callback.
func New(dirs []string, debounce time.Duration, exts []string, logger *slog.Logger) (*Watcher, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if len(exts) == 0 {
		exts = []string{".json"}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		exts:     make(map[string]struct{}, len(exts)),
		logger:   logger,
	}
	for _, ext := range exts {
		w.exts[ext] = struct{}{}
	}
	return w, nil
}

// Run blocks, invoking onChange after each settled burst of relevant file
// events, until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer w.fsw.Close()

	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file change", "path", event.Name, "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-fire:
			fire = nil
			onChange()
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	_, ok := w.exts[filepath.Ext(event.Name)]
	return ok
}
