package payload

import (
	"context"
	"log/slog"

	"github.com/fsnotify/fsnotify"
)

// Watch monitors the payload file and calls onChange with the newly loaded
// Document each time it is rewritten. It runs until ctx is cancelled.
//
// If a reload fails (file momentarily gone, invalid JSON mid-save), the error
// is logged and the previous document remains active — Watch does not call
// onChange.
func Watch(ctx context.Context, path string, onChange func(*Document)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		return err
	}

	slog.Info("payload: watching for changes", "path", path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Only reload on write or create events. Editors often write via
			// rename (atomic save), so also catch fsnotify.Create.
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			doc, err := Load(path)
			if err != nil {
				slog.Error("payload: reload failed — keeping previous document",
					"path", path, "err", err)
				continue
			}

			slog.Info("payload: reloaded", "path", path)
			onChange(doc)

			// Re-add the file in case an atomic save replaced the inode.
			_ = watcher.Add(path)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Error("payload: watcher error", "err", err)
		}
	}
}
