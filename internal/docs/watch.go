package docs

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher invalidates single cache entries when their files change on
// disk. It never clears or prunes the cache as a whole.
type Watcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	cache   *Cache
	logger  *zap.Logger
	dirs    map[string]bool
	running bool
	doneCh  chan struct{}
}

// NewWatcher creates a watcher bound to cache.
func NewWatcher(cache *Cache, logger *zap.Logger) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fs watcher: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		watcher: w,
		cache:   cache,
		logger:  logger,
		dirs:    make(map[string]bool),
		doneCh:  make(chan struct{}),
	}, nil
}

// Watch registers the directory containing path. Watching the same
// directory twice is a no-op.
func (w *Watcher) Watch(path string) error {
	dir := filepath.Dir(w.cache.resolve(path))

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dirs[dir] {
		return nil
	}
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	w.dirs[dir] = true
	w.logger.Debug("watching directory", zap.String("dir", dir))
	return nil
}

// Start runs the event loop until ctx is cancelled or Close is called.
// It does not block.
func (w *Watcher) Start(ctx context.Context) {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return
	}
	w.running = true
	w.mu.Unlock()

	go w.run(ctx)
}

// Close stops the watcher and waits for the event loop to exit.
func (w *Watcher) Close() error {
	err := w.watcher.Close()

	w.mu.Lock()
	running := w.running
	w.mu.Unlock()
	if running {
		<-w.doneCh
	}
	return err
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			w.cache.Invalidate(event.Name)
			w.logger.Debug("invalidated cache entry",
				zap.String("file", filepath.Base(event.Name)),
				zap.String("op", event.Op.String()),
			)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("fs watcher error", zap.Error(err))
		}
	}
}
