package cli

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/syssam/veloxcheck/model/load"
)

// debounce is the quiet period after the last change before re-validating.
const debounce = 100 * time.Millisecond

// watch runs run once and again after every change to a model file under
// paths, until ctx is done. Errors of run are logged, not returned.
func watch(ctx context.Context, w io.Writer, logger *slog.Logger, paths []string, run func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, p := range paths {
		if err := watchPath(watcher, p); err != nil {
			return fmt.Errorf("failed to watch %s: %w", p, err)
		}
	}

	rerun := func() {
		if err := run(); err != nil {
			logger.Error("validation run failed", "error", err)
		}
		_, _ = fmt.Fprintln(w, "Watching for changes. Press Ctrl+C to stop.")
	}
	rerun()

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := watchPath(watcher, event.Name); err != nil {
						logger.Error("failed to watch directory", "dir", event.Name, "error", err)
					}
					continue
				}
			}
			if !load.IsModelFile(event.Name) {
				continue
			}
			logger.Debug("model file changed", "file", event.Name, "op", event.Op.String())
			pending = time.After(debounce)

		case <-pending:
			pending = nil
			rerun()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher error", "error", err)
		}
	}
}

// watchPath adds p to the watcher: directories recursively, files through
// their parent directory so that editors replacing the file are noticed.
func watchPath(watcher *fsnotify.Watcher, p string) error {
	info, err := os.Stat(p)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(p))
	}
	return filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return watcher.Add(path)
		}
		return nil
	})
}
