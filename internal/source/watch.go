package source

import (
	"context"
	"path/filepath"

	"github.com/HartBrook/promptbench/internal/logger"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch reports a path on the returned channel each time one of paths is
// written or re-created. Parent directories are watched rather than the files
// so editors that save by rename keep being followed. The channel closes when
// ctx is cancelled or the watcher fails.
func Watch(ctx context.Context, paths []string) (<-chan string, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]string, len(paths))
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			watcher.Close()
			return nil, err
		}
		wanted[abs] = p
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			return nil, err
		}
	}

	ch := make(chan string, len(paths))
	go func() {
		defer close(ch)
		defer watcher.Close()
		log := logger.FromContext(ctx)

		for {
			select {
			case <-ctx.Done():
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				original, ok := wanted[filepath.Clean(event.Name)]
				if !ok {
					continue
				}
				log.Debug("file changed", zap.String("path", original), zap.Stringer("op", event.Op))
				select {
				case ch <- original:
				case <-ctx.Done():
					return
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				// Usually recoverable (e.g. event queue overflow).
				log.Warn("watch error", zap.Error(err))
			}
		}
	}()

	return ch, nil
}
