// Package usage persists one record per tool invocation and replays the
// log into per-tool statistics.
//
// Two backends implement Log: a pretty-printed JSON array (the default,
// human-diffable and easy to delete) and an opt-in SQLite table for
// projects that make many calls. Both are append-only.
package usage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Default log locations, relative to the project root.
const (
	DefaultFilePath   = ".specify/logs/token-usage.json"
	DefaultSQLitePath = ".specify/logs/token-usage.db"
)

// Record is one tool invocation.
type Record struct {
	Timestamp time.Time `json:"timestamp"`
	Tool      string    `json:"tool"`
	Tokens    int       `json:"tokens"`
	// Duration is wall-clock milliseconds.
	Duration int64  `json:"duration"`
	CallID   string `json:"callId,omitempty"`
	// Error is set when the handler failed; Tokens is then 0.
	Error string `json:"error,omitempty"`
}

// Log is an append-only store of usage records.
type Log interface {
	Append(ctx context.Context, rec Record) error
	Records(ctx context.Context) ([]Record, error)
	Close() error
}

// Backend selects a Log implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// Valid reports whether b names a known backend.
func (b Backend) Valid() bool {
	return b == BackendFile || b == BackendSQLite
}

// Open creates the Log for backend at path.
func Open(backend Backend, path string, logger *zap.Logger) (Log, error) {
	switch backend {
	case BackendFile, "":
		return NewFileLog(path, logger), nil
	case BackendSQLite:
		return NewSQLiteLog(path, logger)
	default:
		return nil, fmt.Errorf("unknown usage backend %q: must be one of: file, sqlite", backend)
	}
}
