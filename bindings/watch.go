package bindings

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce coalesces the event bursts editors produce on save.
const watchDebounce = 200 * time.Millisecond

// WatchManifest monitors a manifest file and calls handler with the
// re-parsed manifest after each change. It blocks until ctx is done.
// Parse failures are logged and skipped; the previous manifest stays in
// effect.
//
// The parent directory is watched rather than the file itself so that
// atomic save strategies (write temp file, rename over target) keep
// being observed.
func WatchManifest(ctx context.Context, path string, log *slog.Logger, handler func(Manifest)) error {
	if log == nil {
		log = slog.Default()
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("bindings: resolve manifest path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("bindings: create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("bindings: watch %s: %w", filepath.Dir(abs), err)
	}

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			m, err := LoadManifest(abs)
			if err != nil {
				log.Warn("manifest reload skipped", "path", path, "error", err)
				continue
			}
			log.Info("manifest reloaded", "path", path)
			handler(m)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("manifest watcher error", "error", err)
		}
	}
}
