package usage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

// FileLog keeps records as a JSON array in a single file. Every Append
// rewrites the whole file, so the read-modify-write cycle is serialised
// with a mutex.
type FileLog struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// NewFileLog creates a FileLog at path. Nothing touches disk until the
// first Append.
func NewFileLog(path string, logger *zap.Logger) *FileLog {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileLog{path: path, logger: logger}
}

// Path returns the log file location.
func (l *FileLog) Path() string {
	return l.path
}

// Append adds rec to the log, creating the file and its directory when
// absent. Existing elements are written back with their content intact,
// including ones Records cannot decode. Only a log that is not a JSON
// array is replaced by a fresh one.
func (l *FileLog) Append(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entry, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encoding usage record: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("creating usage log dir: %w", err)
	}

	elems := append(l.load(), entry)
	data, err := json.MarshalIndent(elems, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding usage log: %w", err)
	}
	if err := os.WriteFile(l.path, data, 0o644); err != nil {
		return fmt.Errorf("writing usage log: %w", err)
	}
	return nil
}

// Records returns every decodable record in append order. Elements of
// another shape are skipped with a warning. A missing or corrupt log
// reads as empty.
func (l *FileLog) Records(ctx context.Context) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	elems := l.load()
	l.mu.Unlock()

	records := make([]Record, 0, len(elems))
	for i, raw := range elems {
		var rec Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			l.logger.Warn("skipping undecodable usage record",
				zap.String("path", l.path),
				zap.Int("index", i),
				zap.Error(err),
			)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// Close is a no-op; the file is never held open.
func (l *FileLog) Close() error {
	return nil
}

// load reads the raw array elements. Callers hold mu.
func (l *FileLog) load() []json.RawMessage {
	elems := []json.RawMessage{}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			l.logger.Warn("usage log unreadable, starting fresh", zap.String("path", l.path), zap.Error(err))
		}
		return elems
	}

	// Objects, scalars and null are not a log.
	if err := json.Unmarshal(data, &elems); err != nil || elems == nil {
		l.logger.Warn("usage log corrupt, starting fresh", zap.String("path", l.path), zap.Error(err))
		return []json.RawMessage{}
	}
	return elems
}
