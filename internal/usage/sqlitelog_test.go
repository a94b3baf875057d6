package usage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteLog(t *testing.T) *SQLiteLog {
	t.Helper()
	l, err := NewSQLiteLog(filepath.Join(t.TempDir(), "logs", "token-usage.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = l.Close() })
	return l
}

func TestSQLiteLog_RoundTrip(t *testing.T) {
	l := newTestSQLiteLog(t)
	ctx := context.Background()

	failed := testRecord("get_task_by_id", 0)
	failed.Error = "tool get_task_by_id failed: task not found: 9"

	require.NoError(t, l.Append(ctx, testRecord("get_all_tasks", 120)))
	require.NoError(t, l.Append(ctx, failed))

	records, err := l.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "get_all_tasks", records[0].Tool)
	assert.Equal(t, 120, records[0].Tokens)
	assert.Equal(t, int64(7), records[0].Duration)
	assert.Equal(t, "call-get_all_tasks", records[0].CallID)
	assert.True(t, records[0].Timestamp.Equal(testRecord("", 0).Timestamp))
	assert.Equal(t, failed.Error, records[1].Error)
}

func TestSQLiteLog_EmptyAndReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token-usage.db")
	ctx := context.Background()

	l, err := NewSQLiteLog(path, nil)
	require.NoError(t, err)
	records, err := l.Records(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	require.NoError(t, l.Append(ctx, testRecord("get_next_task", 5)))
	require.NoError(t, l.Close())

	reopened, err := Open(BackendSQLite, path, nil)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	stats, err := Collect(ctx, reopened)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalCalls)
	assert.Equal(t, 5, stats.TotalTokens)
}
