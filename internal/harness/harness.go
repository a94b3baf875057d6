// Package harness is the single call path for every query tool. It looks
// a handler up by name, times it, serialises the result, estimates its
// token cost and appends a usage record, so that the MCP server and the
// CLI report identical telemetry.
package harness

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/HendryAvila/speclens/internal/apperr"
	"github.com/HendryAvila/speclens/internal/usage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler runs one tool. input is the raw JSON arguments object.
type Handler func(ctx context.Context, input json.RawMessage) (any, error)

// Typed adapts a handler that takes a decoded argument struct. Malformed
// input is a validation error.
func Typed[In any](fn func(ctx context.Context, in In) (any, error)) Handler {
	return func(ctx context.Context, input json.RawMessage) (any, error) {
		var in In
		if len(input) > 0 {
			if err := json.Unmarshal(input, &in); err != nil {
				return nil, apperr.Validation("invalid arguments: %v", err)
			}
		}
		return fn(ctx, in)
	}
}

// Result is a completed call.
type Result struct {
	// Value is what the handler returned, unserialised.
	Value any
	// Text is Value serialised as JSON.
	Text     string
	Tokens   int
	Duration time.Duration
	CallID   string
}

// Harness is a name-keyed registry of handlers.
type Harness struct {
	mu       sync.RWMutex
	handlers map[string]Handler

	log    usage.Log
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

// Option configures a Harness.
type Option func(*Harness)

// WithClock replaces time.Now for duration and timestamp measurement.
func WithClock(now func() time.Time) Option {
	return func(h *Harness) {
		if now != nil {
			h.now = now
		}
	}
}

// WithIDGenerator replaces the random call id source.
func WithIDGenerator(fn func() string) Option {
	return func(h *Harness) {
		if fn != nil {
			h.newID = fn
		}
	}
}

// New creates a Harness that records every call to log. A nil log
// disables recording.
func New(log usage.Log, logger *zap.Logger, opts ...Option) *Harness {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Harness{
		handlers: make(map[string]Handler),
		log:      log,
		logger:   logger,
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register binds name to handler, replacing any previous binding.
func (h *Harness) Register(name string, handler Handler) {
	if name == "" || handler == nil {
		panic("harness: Register requires a name and a handler")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, exists := h.handlers[name]; exists {
		h.logger.Warn("tool re-registered", zap.String("tool", name))
	}
	h.handlers[name] = handler
}

// Names returns the registered tool names, sorted.
func (h *Harness) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	names := make([]string, 0, len(h.handlers))
	for name := range h.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Call runs the named tool with input, which may be nil, raw JSON
// (json.RawMessage or []byte), or any value that marshals to a JSON
// object. Handler errors come back wrapped with the tool name; the
// cause stays reachable through errors.Is and errors.As.
func (h *Harness) Call(ctx context.Context, name string, input any) (*Result, error) {
	h.mu.RLock()
	handler, ok := h.handlers[name]
	h.mu.RUnlock()
	if !ok {
		return nil, apperr.ToolNotImplemented(name)
	}

	raw, err := encodeInput(input)
	if err != nil {
		return nil, apperr.Validation("invalid arguments for %s: %v", name, err)
	}

	callID := h.newID()
	logger := h.logger.With(zap.String("tool", name), zap.String("call_id", callID))
	logger.Debug("tool call started")

	start := h.now()
	value, err := invoke(ctx, handler, raw)
	elapsed := h.now().Sub(start)

	if err != nil {
		logger.Info("tool call failed", zap.Duration("duration", elapsed), zap.Error(err))
		h.record(ctx, logger, usage.Record{
			Timestamp: start,
			Tool:      name,
			Duration:  elapsed.Milliseconds(),
			CallID:    callID,
			Error:     err.Error(),
		})
		return nil, fmt.Errorf("tool %s failed: %w", name, err)
	}

	text := serialize(value)
	tokens := EstimateTokens(text)
	h.record(ctx, logger, usage.Record{
		Timestamp: start,
		Tool:      name,
		Tokens:    tokens,
		Duration:  elapsed.Milliseconds(),
		CallID:    callID,
	})
	logger.Info("tool call completed", zap.Int("tokens", tokens), zap.Duration("duration", elapsed))

	return &Result{
		Value:    value,
		Text:     text,
		Tokens:   tokens,
		Duration: elapsed,
		CallID:   callID,
	}, nil
}

// record appends rec to the usage log. Failures are logged, never returned.
func (h *Harness) record(ctx context.Context, logger *zap.Logger, rec usage.Record) {
	if h.log == nil {
		return
	}
	// A caller that gave up still gets its call recorded.
	if err := h.log.Append(context.WithoutCancel(ctx), rec); err != nil {
		logger.Warn("usage log append failed", zap.Error(err))
	}
}

// invoke runs handler, turning a panic into an error.
func invoke(ctx context.Context, handler Handler, input json.RawMessage) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return handler(ctx, input)
}

func encodeInput(input any) (json.RawMessage, error) {
	switch v := input.(type) {
	case nil:
		return json.RawMessage("{}"), nil
	case json.RawMessage:
		if len(v) == 0 {
			return json.RawMessage("{}"), nil
		}
		return v, nil
	case []byte:
		if len(v) == 0 {
			return json.RawMessage("{}"), nil
		}
		return json.RawMessage(v), nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		return data, nil
	}
}

// serialize renders value as indented JSON, falling back to fmt for
// values encoding/json cannot handle.
func serialize(value any) string {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return fmt.Sprint(value)
	}
	return string(data)
}

