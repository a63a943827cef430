// Package watch rebuilds hook sources when they change on disk.
package watch

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hookjsx/transpiler/pkg/logging"
)

// Extensions that count as hook sources. Everything else is ignored so
// editors writing swap files or build output do not retrigger builds.
var sourceExtensions = map[string]bool{
	".js":  true,
	".jsx": true,
	".ts":  true,
	".tsx": true,
}

// Directories never worth watching.
var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"dist":         true,
}

// Watcher monitors source paths for changes and triggers rebuilds.
type Watcher struct {
	paths    []string
	onChange func(changed []string) error
	logger   *slog.Logger
	debounce time.Duration
}

// NewWatcher creates a watcher over the given paths. Directories are
// watched recursively. onChange receives the changed source files once
// per debounce window.
func NewWatcher(paths []string, onChange func(changed []string) error) *Watcher {
	return &Watcher{
		paths:    paths,
		onChange: onChange,
		logger:   logging.NewDiscardLogger(),
		debounce: 300 * time.Millisecond,
	}
}

// SetLogger sets the logger for watcher events.
func (w *Watcher) SetLogger(logger *slog.Logger) {
	if logger != nil {
		w.logger = logger
	}
}

// SetDebounce sets the debounce duration for file changes.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

// Watch starts watching for source changes. Blocks until context is
// cancelled.
//
// Directories are watched rather than individual files because most
// editors use atomic saves (write to temp file, then rename). When a file
// is renamed over a watched file, fsnotify loses track of it. Watching
// the directory catches all events including renames.
func (w *Watcher) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	for _, path := range w.paths {
		if err := addPath(watcher, path); err != nil {
			return err
		}
	}

	w.logger.Info("watching for source changes", "paths", strings.Join(w.paths, ", "))

	changed := make(map[string]bool)
	var debounceTimer *time.Timer
	var debounceChan <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("stopping source watcher")
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			// New subdirectories join the watch set so files created
			// in them later are seen too.
			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !skipDirs[filepath.Base(event.Name)] {
						_ = addPath(watcher, event.Name)
					}
					continue
				}
			}

			if !sourceExtensions[strings.ToLower(filepath.Ext(event.Name))] {
				continue
			}

			// Trigger on write or create events.
			// Create handles atomic saves where a temp file is renamed over target.
			// Write handles direct writes to the file.
			if event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				w.logger.Debug("source file changed", "file", event.Name, "event", event.Op.String())
				changed[event.Name] = true

				// Debounce: reset timer on each change
				if debounceTimer != nil {
					debounceTimer.Stop()
				}
				debounceTimer = time.NewTimer(w.debounce)
				debounceChan = debounceTimer.C
			}

		case <-debounceChan:
			files := make([]string, 0, len(changed))
			for f := range changed {
				files = append(files, f)
			}
			sort.Strings(files)
			changed = make(map[string]bool)
			debounceChan = nil

			w.logger.Info("source change detected, rebuilding", "files", len(files))
			if err := w.onChange(files); err != nil {
				w.logger.Error("rebuild failed", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// addPath registers a path with the watcher. Directories are walked and
// added recursively; a plain file adds its parent directory.
func addPath(watcher *fsnotify.Watcher, path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return watcher.Add(filepath.Dir(path))
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if skipDirs[d.Name()] && p != path {
			return filepath.SkipDir
		}
		return watcher.Add(p)
	})
}
