package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDelay coalesces the burst of events an editor save produces.
const DefaultWatchDelay = 150 * time.Millisecond

// Watcher reloads a config file when it or one of its includes changes.
// Directories are watched rather than files so editors that save by rename
// keep being tracked.
type Watcher struct {
	Path     string
	Logger   *slog.Logger
	Delay    time.Duration
	OnChange func(*LoadResult)
}

// String names the service.
func (w *Watcher) String() string { return "config-watcher" }

// Serve watches until ctx is done. Edits that fail to load are logged and
// skipped; the last good config stays in effect.
func (w *Watcher) Serve(ctx context.Context) error {
	logger := w.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	delay := w.Delay
	if delay <= 0 {
		delay = DefaultWatchDelay
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	tracked := map[string]struct{}{}
	track := func(files []string) {
		for _, f := range files {
			tracked[filepath.Clean(f)] = struct{}{}
			dir := filepath.Dir(f)
			if err := watcher.Add(dir); err != nil {
				logger.Warn("config watch failed", "dir", dir, "error", err)
			}
		}
	}
	track([]string{w.Path})
	if res, err := LoadFromPath(w.Path); err == nil {
		track(res.Files)
	}

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if _, hit := tracked[filepath.Clean(event.Name)]; !hit {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			logger.Debug("config change detected", "op", event.Op.String(), "file", event.Name)
			pending = time.After(delay)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watch error", "error", err)
		case <-pending:
			pending = nil
			res, err := LoadFromPath(w.Path)
			if err != nil {
				logger.Warn("config reload failed", "error", err)
				continue
			}
			track(res.Files)
			logger.Info("config reloaded", "path", w.Path, "apps", len(res.Config.Apps))
			if w.OnChange != nil {
				w.OnChange(res)
			}
		}
	}
}
