package docs

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/HendryAvila/speclens/internal/apperr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingFS is a stub filesystem that counts disk accesses.
type countingFS struct {
	files map[string]string
	reads map[string]int
}

func newCountingFS(files map[string]string) *countingFS {
	return &countingFS{files: files, reads: make(map[string]int)}
}

func (f *countingFS) ReadFile(name string) ([]byte, error) {
	f.reads[name]++
	content, ok := f.files[name]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return []byte(content), nil
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestCache(t *testing.T, files map[string]string) (*Cache, *countingFS, *fakeClock) {
	t.Helper()
	stub := newCountingFS(files)
	clock := &fakeClock{t: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := NewCache("/project", WithReadFile(stub.ReadFile), WithClock(clock.Now))
	return c, stub, clock
}

func TestCache_HitAvoidsSecondDiskAccess(t *testing.T) {
	c, stub, _ := newTestCache(t, map[string]string{"/project/doc.md": "# Doc\n"})
	ctx := context.Background()

	first, err := c.Read(ctx, "doc.md")
	require.NoError(t, err)
	second, err := c.Read(ctx, "doc.md")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, stub.reads["/project/doc.md"], "second read should be served from cache")
}

func TestCache_AbsoluteAndRelativeShareEntry(t *testing.T) {
	c, stub, _ := newTestCache(t, map[string]string{"/project/doc.md": "x"})
	ctx := context.Background()

	_, err := c.Read(ctx, "/project/doc.md")
	require.NoError(t, err)
	_, err = c.Read(ctx, "doc.md")
	require.NoError(t, err)

	assert.Equal(t, 1, stub.reads["/project/doc.md"])
}

func TestCache_ExpiredEntryTriggersExactlyOneMoreRead(t *testing.T) {
	c, stub, clock := newTestCache(t, map[string]string{"/project/doc.md": "v1"})
	ctx := context.Background()

	_, err := c.Read(ctx, "doc.md")
	require.NoError(t, err)

	clock.Advance(DefaultTTL - time.Second)
	_, err = c.Read(ctx, "doc.md")
	require.NoError(t, err)
	assert.Equal(t, 1, stub.reads["/project/doc.md"], "still fresh just before TTL")

	clock.Advance(time.Second)
	stub.files["/project/doc.md"] = "v2"
	got, err := c.Read(ctx, "doc.md")
	require.NoError(t, err)
	assert.Equal(t, "v2", got)
	assert.Equal(t, 2, stub.reads["/project/doc.md"])

	_, err = c.Read(ctx, "doc.md")
	require.NoError(t, err)
	assert.Equal(t, 2, stub.reads["/project/doc.md"], "refreshed entry is fresh again")
}

func TestCache_MissingFileNamesRequestedPath(t *testing.T) {
	c, _, _ := newTestCache(t, map[string]string{})

	_, err := c.Read(context.Background(), "specs/missing.md")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
	assert.True(t, errors.Is(err, fs.ErrNotExist))
	assert.Equal(t, "unable to read file: specs/missing.md", err.Error())
	assert.NotContains(t, err.Error(), "/project")
}

func TestCache_FailedReadDoesNotPoisonCache(t *testing.T) {
	c, stub, _ := newTestCache(t, map[string]string{})
	ctx := context.Background()

	_, err := c.Read(ctx, "late.md")
	require.Error(t, err)
	assert.Equal(t, 0, c.Len())

	stub.files["/project/late.md"] = "now here"
	got, err := c.Read(ctx, "late.md")
	require.NoError(t, err)
	assert.Equal(t, "now here", got)
}

func TestCache_Clear(t *testing.T) {
	c, stub, _ := newTestCache(t, map[string]string{"/project/a.md": "a", "/project/b.md": "b"})
	ctx := context.Background()

	_, _ = c.Read(ctx, "a.md")
	_, _ = c.Read(ctx, "b.md")
	require.Equal(t, 2, c.Len())

	c.Clear()
	assert.Equal(t, 0, c.Len())

	_, _ = c.Read(ctx, "a.md")
	assert.Equal(t, 2, stub.reads["/project/a.md"])
}

func TestCache_PruneRemovesOnlyExpired(t *testing.T) {
	c, _, clock := newTestCache(t, map[string]string{"/project/old.md": "o", "/project/new.md": "n"})
	ctx := context.Background()

	_, _ = c.Read(ctx, "old.md")
	clock.Advance(DefaultTTL)
	_, _ = c.Read(ctx, "new.md")

	removed := c.Prune()
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, c.Len())
}

func TestCache_NoAutomaticSweep(t *testing.T) {
	c, _, clock := newTestCache(t, map[string]string{"/project/a.md": "a"})
	_, _ = c.Read(context.Background(), "a.md")

	clock.Advance(10 * DefaultTTL)
	assert.Equal(t, 1, c.Len(), "stale entries stay until read, pruned or cleared")
}

func TestCache_Invalidate(t *testing.T) {
	c, stub, _ := newTestCache(t, map[string]string{"/project/a.md": "a"})
	ctx := context.Background()

	_, _ = c.Read(ctx, "a.md")
	c.Invalidate("/project/a.md")
	_, _ = c.Read(ctx, "a.md")

	assert.Equal(t, 2, stub.reads["/project/a.md"])
}

func TestCache_WithTTL(t *testing.T) {
	c := NewCache("/", WithTTL(time.Second))
	assert.Equal(t, time.Second, c.TTL())

	d := NewCache("/", WithTTL(0))
	assert.Equal(t, DefaultTTL, d.TTL())
}

func TestCache_CancelledContext(t *testing.T) {
	c, stub, _ := newTestCache(t, map[string]string{"/project/a.md": "a"})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Read(ctx, "a.md")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, stub.reads["/project/a.md"])
}

func TestCache_RealDisk(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tasks.md")
	require.NoError(t, os.WriteFile(path, []byte("### Task 1: Real\n"), 0o644))

	c := NewCache(dir)
	got, err := c.Read(context.Background(), "tasks.md")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(got, "### Task 1"))
}
