// Package docs reads project documents through a time-bounded cache and
// locates them by glob pattern.
//
// The cache is the only place speclens touches document files on disk.
// A hit younger than the TTL is served from memory; staleness is checked
// lazily on the next read and nothing sweeps the cache in the background.
package docs

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/HendryAvila/speclens/internal/apperr"
	"go.uber.org/zap"
)

// DefaultTTL is how long a cached read stays fresh.
const DefaultTTL = 5 * time.Minute

// timeNow is a package-level variable for testability.
var timeNow = time.Now

// ReadFileFunc reads a whole file. It matches os.ReadFile.
type ReadFileFunc func(name string) ([]byte, error)

// Reader is what document parsers depend on.
type Reader interface {
	Read(ctx context.Context, path string) (string, error)
}

type entry struct {
	content  string
	storedAt time.Time
}

// Cache maps resolved absolute paths to file contents.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]entry
	root     string
	ttl      time.Duration
	readFile ReadFileFunc
	now      func() time.Time
	logger   *zap.Logger
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL overrides DefaultTTL. Non-positive values are ignored.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithReadFile replaces os.ReadFile, e.g. with a counting stub in tests.
func WithReadFile(fn ReadFileFunc) Option {
	return func(c *Cache) {
		if fn != nil {
			c.readFile = fn
		}
	}
}

// WithClock replaces the wall clock used for TTL checks.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithLogger sets the logger for hit/miss diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCache creates an empty cache. Relative paths passed to Read are
// resolved against root.
func NewCache(root string, opts ...Option) *Cache {
	c := &Cache{
		entries:  make(map[string]entry),
		root:     root,
		ttl:      DefaultTTL,
		readFile: os.ReadFile,
		now:      func() time.Time { return timeNow() },
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Read returns the content of path, from memory when a fresh entry
// exists and from disk otherwise. A failed disk read is reported as a
// not-found error that names the requested path, never the resolved one.
func (c *Cache) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	key := c.resolve(path)

	c.mu.RLock()
	cached, ok := c.entries[key]
	c.mu.RUnlock()
	if ok && c.now().Sub(cached.storedAt) < c.ttl {
		c.logger.Debug("cache hit", zap.String("file", filepath.Base(path)))
		return cached.content, nil
	}

	c.logger.Debug("reading file", zap.String("file", path))
	data, err := c.readFile(key)
	if err != nil {
		c.logger.Warn("file read failed", zap.String("file", path), zap.Error(err))
		return "", apperr.NotFoundCause(err, "unable to read file: %s", path)
	}

	content := string(data)
	c.mu.Lock()
	c.entries[key] = entry{content: content, storedAt: c.now()}
	c.mu.Unlock()

	return content, nil
}

// Clear drops every entry.
func (c *Cache) Clear() {
	c.mu.Lock()
	c.entries = make(map[string]entry)
	c.mu.Unlock()
	c.logger.Debug("cache cleared")
}

// Prune drops entries whose age has reached the TTL and returns how
// many were removed.
func (c *Cache) Prune() int {
	now := c.now()
	removed := 0
	c.mu.Lock()
	for key, e := range c.entries {
		if now.Sub(e.storedAt) >= c.ttl {
			delete(c.entries, key)
			removed++
		}
	}
	c.mu.Unlock()
	return removed
}

// Invalidate drops the entry for a single path, if any.
func (c *Cache) Invalidate(path string) {
	key := c.resolve(path)
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

// Len returns the number of entries, fresh or stale.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

func (c *Cache) resolve(path string) string {
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(c.root, path)
}
