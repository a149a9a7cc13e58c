// Package watch regenerates documentation when its inputs change.
//
// Files are watched through their parent directory, which survives editors
// that replace a file on save. Directories are watched as a whole. Bursts of
// events are coalesced by a debounce timer and every trigger runs a full
// regeneration.
package watch

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"git.home.luguber.info/inful/xmldocmd/internal/foundation/errors"
	"git.home.luguber.info/inful/xmldocmd/internal/logfields"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when no debounce is configured.
const DefaultDebounce = 500 * time.Millisecond

// RunFunc performs one full regeneration.
type RunFunc func(ctx context.Context) error

// Watcher monitors input paths and calls a RunFunc after they settle.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	run      RunFunc

	mu    sync.Mutex
	files map[string]bool // absolute file paths of interest
	dirs  map[string]bool // watched directories whose whole content matters
}

// New watches paths. Each path may be a file or a directory; empty paths are
// ignored. A path that does not exist is an error.
func New(paths []string, debounce time.Duration, run RunFunc) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create file watcher").Build()
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: debounce,
		run:      run,
		files:    map[string]bool{},
		dirs:     map[string]bool{},
	}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := w.add(p); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) add(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to resolve watch path").
			WithContext("path", path).
			Build()
	}
	info, err := os.Stat(abs)
	if err != nil {
		return errors.WrapError(err, errors.CategoryNotFound, "watch path does not exist").
			WithContext("path", path).
			Build()
	}

	target := abs
	w.mu.Lock()
	if info.IsDir() {
		w.dirs[abs] = true
	} else {
		w.files[abs] = true
		target = filepath.Dir(abs)
	}
	w.mu.Unlock()

	if err := w.fsw.Add(target); err != nil {
		return errors.WrapError(err, errors.CategoryFileSystem, "failed to watch directory").
			WithContext("path", target).
			Build()
	}
	return nil
}

// relevant reports whether an event on name concerns a watched input.
func (w *Watcher) relevant(name string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.files[abs] || w.dirs[filepath.Dir(abs)] || w.dirs[abs]
}

// Run blocks until ctx is done. Regenerations run on the calling goroutine,
// so they never overlap; events arriving meanwhile trigger one more run.
// A failed regeneration is logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.fsw.Close() }()

	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			slog.Debug("Input change detected", logfields.Path(event.Name), slog.String("op", event.Op.String()))
			timer.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Error("File watcher error", logfields.Error(err))
		case <-timer.C:
			slog.Info("Inputs changed, regenerating")
			if err := w.run(ctx); err != nil {
				slog.Error("Regeneration failed", logfields.Error(err))
			}
		}
	}
}
