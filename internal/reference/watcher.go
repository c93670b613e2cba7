package reference

import (
	"context"
	"fmt"
	"log"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch invalidates cached reference text whenever a file in dir is created,
// written, removed or renamed. It returns after the watch is registered; the
// watcher stops when ctx is cancelled. Without a cache it is a no-op.
func (l *Loader) Watch(ctx context.Context, dir string) error {
	if l.cache == nil {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating reference watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	go func() {
		defer func() { _ = w.Close() }()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-w.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
					!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				name := filepath.Base(event.Name)
				if l.Invalidate(name) {
					log.Printf("reference.Watch: %s changed (%s), cache entry dropped", name, event.Op)
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("reference.Watch: watcher error: %v", err)
			}
		}
	}()

	return nil
}
