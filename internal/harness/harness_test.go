package harness

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/HendryAvila/speclens/internal/apperr"
	"github.com/HendryAvila/speclens/internal/usage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memLog is an in-memory usage.Log.
type memLog struct {
	records   []usage.Record
	appendErr error
}

func (m *memLog) Append(_ context.Context, rec usage.Record) error {
	if m.appendErr != nil {
		return m.appendErr
	}
	m.records = append(m.records, rec)
	return nil
}

func (m *memLog) Records(context.Context) ([]usage.Record, error) { return m.records, nil }
func (m *memLog) Close() error                                     { return nil }

// steppingClock advances by step on every call.
func steppingClock(step time.Duration) func() time.Time {
	t := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now := t
		t = t.Add(step)
		return now
	}
}

func newTestHarness(log usage.Log) *Harness {
	return New(log, nil,
		WithClock(steppingClock(25*time.Millisecond)),
		WithIDGenerator(func() string { return "call-1" }),
	)
}

type echoArgs struct {
	Text string `json:"text"`
}

func TestCall_RecordsUsage(t *testing.T) {
	log := &memLog{}
	h := newTestHarness(log)
	h.Register("echo", Typed(func(_ context.Context, in echoArgs) (any, error) {
		return map[string]string{"echo": in.Text}, nil
	}))

	res, err := h.Call(context.Background(), "echo", map[string]any{"text": "hello"})
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"echo": "hello"}, res.Value)
	assert.Equal(t, EstimateTokens(res.Text), res.Tokens)
	assert.Equal(t, 25*time.Millisecond, res.Duration)
	assert.Equal(t, "call-1", res.CallID)

	require.Len(t, log.records, 1)
	rec := log.records[0]
	assert.Equal(t, "echo", rec.Tool)
	assert.Equal(t, res.Tokens, rec.Tokens)
	assert.Equal(t, int64(25), rec.Duration)
	assert.Equal(t, "call-1", rec.CallID)
	assert.Empty(t, rec.Error)
}

func TestCall_UnknownTool(t *testing.T) {
	log := &memLog{}
	h := newTestHarness(log)

	_, err := h.Call(context.Background(), "nope", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrToolNotImplemented))
	assert.Equal(t, "tool not implemented: nope", err.Error())
	assert.Empty(t, log.records, "unknown tools are not recorded")
}

func TestCall_WrapsHandlerError(t *testing.T) {
	log := &memLog{}
	h := newTestHarness(log)
	cause := apperr.NotFound("task not found: 9")
	h.Register("get_task_by_id", func(context.Context, json.RawMessage) (any, error) {
		return nil, cause
	})

	_, err := h.Call(context.Background(), "get_task_by_id", nil)
	require.Error(t, err)
	assert.Equal(t, "tool get_task_by_id failed: task not found: 9", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, apperr.ErrNotFound)

	require.Len(t, log.records, 1)
	assert.Equal(t, 0, log.records[0].Tokens)
	assert.Equal(t, err.Error()[len("tool get_task_by_id failed: "):], log.records[0].Error)
}

func TestCall_RecoversPanic(t *testing.T) {
	h := newTestHarness(&memLog{})
	h.Register("boom", func(context.Context, json.RawMessage) (any, error) {
		panic("kaboom")
	})

	_, err := h.Call(context.Background(), "boom", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tool boom failed: panic: kaboom")
}

func TestCall_LogFailureIsSwallowed(t *testing.T) {
	h := newTestHarness(&memLog{appendErr: errors.New("disk full")})
	h.Register("ok", func(context.Context, json.RawMessage) (any, error) {
		return []int{1, 2, 3}, nil
	})

	res, err := h.Call(context.Background(), "ok", nil)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, res.Value)
}

func TestCall_NilLogDisablesRecording(t *testing.T) {
	h := New(nil, nil)
	h.Register("ok", func(context.Context, json.RawMessage) (any, error) { return "x", nil })
	_, err := h.Call(context.Background(), "ok", nil)
	assert.NoError(t, err)
}

func TestCall_CancelledContextStillRecorded(t *testing.T) {
	log := usage.NewFileLog(filepath.Join(t.TempDir(), "token-usage.json"), nil)
	h := newTestHarness(log)
	h.Register("ctx", func(ctx context.Context, _ json.RawMessage) (any, error) {
		return nil, ctx.Err()
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := h.Call(ctx, "ctx", nil)
	assert.ErrorIs(t, err, context.Canceled)

	records, err := log.Records(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestTyped_InvalidInput(t *testing.T) {
	h := newTestHarness(&memLog{})
	h.Register("echo", Typed(func(_ context.Context, in echoArgs) (any, error) { return in, nil }))

	_, err := h.Call(context.Background(), "echo", json.RawMessage(`{"text": 5}`))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestCall_InputForms(t *testing.T) {
	h := newTestHarness(&memLog{})
	h.Register("echo", Typed(func(_ context.Context, in echoArgs) (any, error) { return in.Text, nil }))

	for name, input := range map[string]any{
		"struct":  echoArgs{Text: "a"},
		"raw":     json.RawMessage(`{"text":"a"}`),
		"bytes":   []byte(`{"text":"a"}`),
		"map":     map[string]string{"text": "a"},
		"pointer": &echoArgs{Text: "a"},
	} {
		res, err := h.Call(context.Background(), "echo", input)
		require.NoError(t, err, name)
		assert.Equal(t, "a", res.Value, name)
	}
}

func TestRegisterAndNames(t *testing.T) {
	h := New(nil, nil)
	noop := func(context.Context, json.RawMessage) (any, error) { return nil, nil }
	h.Register("b", noop)
	h.Register("a", noop)
	h.Register("b", noop)
	assert.Equal(t, []string{"a", "b"}, h.Names())

	assert.Panics(t, func() { h.Register("", noop) })
	assert.Panics(t, func() { h.Register("x", nil) })
}

func TestSerializeFallback(t *testing.T) {
	// Channels cannot be encoded as JSON.
	got := serialize(make(chan int))
	assert.True(t, strings.HasPrefix(got, "0x"), "got %q", got)
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcdefgh", 2},
		{strings.Repeat("x", 401), 100},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%d chars) = %d, want %d", len(tt.text), got, tt.want)
		}
	}
}

func TestTokenFooter(t *testing.T) {
	if got := TokenFooter(12345); got != "\n[Token Usage: 12,345]" {
		t.Errorf("TokenFooter = %q", got)
	}
}
