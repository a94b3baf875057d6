package usage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// openDB is a package-level var to allow test injection.
var openDB = sql.Open

// SQLiteLog keeps records in a single SQLite table. SQLite serialises
// writers itself, so no extra locking is needed.
type SQLiteLog struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// NewSQLiteLog opens (or creates) the database at path with WAL mode and
// runs the schema migration.
func NewSQLiteLog(path string, logger *zap.Logger) (*SQLiteLog, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("usage: create log dir: %w", err)
	}

	db, err := openDB("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("usage: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("usage: pragma %q: %w", p, err)
		}
	}

	l := &SQLiteLog{db: db, path: path, logger: logger}
	if err := l.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("usage: migration: %w", err)
	}
	return l, nil
}

func (l *SQLiteLog) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS usage_records (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			call_id     TEXT    NOT NULL DEFAULT '',
			tool        TEXT    NOT NULL,
			tokens      INTEGER NOT NULL DEFAULT 0,
			duration_ms INTEGER NOT NULL DEFAULT 0,
			error       TEXT    NOT NULL DEFAULT '',
			created_at  TEXT    NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_usage_tool ON usage_records(tool);
	`
	_, err := l.db.Exec(schema)
	return err
}

// Path returns the database file location.
func (l *SQLiteLog) Path() string {
	return l.path
}

// Append inserts rec.
func (l *SQLiteLog) Append(ctx context.Context, rec Record) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO usage_records (call_id, tool, tokens, duration_ms, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.CallID, rec.Tool, rec.Tokens, rec.Duration, rec.Error,
		rec.Timestamp.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("usage: insert record: %w", err)
	}
	return nil
}

// Records returns every record in insertion order.
func (l *SQLiteLog) Records(ctx context.Context) ([]Record, error) {
	rows, err := l.db.QueryContext(ctx,
		`SELECT call_id, tool, tokens, duration_ms, error, created_at
		 FROM usage_records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("usage: query records: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []Record{}
	for rows.Next() {
		var (
			rec Record
			ts  string
		)
		if err := rows.Scan(&rec.CallID, &rec.Tool, &rec.Tokens, &rec.Duration, &rec.Error, &ts); err != nil {
			return nil, fmt.Errorf("usage: scan record: %w", err)
		}
		parsed, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			l.logger.Warn("usage record has bad timestamp", zap.String("value", ts), zap.Error(err))
		}
		rec.Timestamp = parsed
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the database.
func (l *SQLiteLog) Close() error {
	return l.db.Close()
}
