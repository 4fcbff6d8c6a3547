package logarchive

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const DefaultDebounce = 200 * time.Millisecond

// Watcher reloads a corpus directory whenever files below it change.
type Watcher struct {
	loader   *Loader
	dir      string
	debounce time.Duration
}

func NewWatcher(loader *Loader, dir string, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{loader: loader, dir: dir, debounce: debounce}
}

// Run loads the corpus once and then once per batch of file system events,
// handing every result to fn. It blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context, fn func(*Result)) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	if err := w.addRecursive(fsw, w.dir); err != nil {
		return err
	}
	if err := w.reload(ctx, fn); err != nil {
		return err
	}

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	logger := w.loader.logger

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				if err := w.addRecursive(fsw, event.Name); err != nil {
					logger.Warn("watching new directory failed", zap.String("path", event.Name), zap.Error(err))
				}
			}
			if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
				continue
			}
			logger.Debug("corpus change", zap.String("path", event.Name), zap.String("op", event.Op.String()))
			timer.Reset(w.debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))

		case <-timer.C:
			if err := w.reload(ctx, fn); err != nil {
				if ctx.Err() != nil {
					return nil
				}
				logger.Warn("reloading corpus failed", zap.Error(err))
			}
		}
	}
}

func (w *Watcher) reload(ctx context.Context, fn func(*Result)) error {
	result, err := w.loader.LoadDir(ctx, w.dir)
	if err != nil {
		return err
	}
	fn(result)
	return nil
}

// addRecursive watches path and every directory below it that is not
// excluded. Non-directories are ignored.
func (w *Watcher) addRecursive(fsw *fsnotify.Watcher, path string) error {
	root := filepath.Clean(w.dir)
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == path {
				return fmt.Errorf("watching %s: %w", p, err)
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if rel, err := filepath.Rel(root, p); err == nil && rel != "." && w.loader.excluded(filepath.ToSlash(rel)) {
			return filepath.SkipDir
		}
		if err := fsw.Add(p); err != nil {
			return fmt.Errorf("watching %s: %w", p, err)
		}
		return nil
	})
}
