package tracking

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS events (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	category TEXT NOT NULL,
	action   TEXT NOT NULL,
	label    TEXT,
	at       TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_action ON events(action);
`

// SQLiteSink appends events to a SQLite database.
type SQLiteSink struct {
	db   *sql.DB
	stmt *sql.Stmt
}

// OpenSQLiteSink opens (creating if needed) the database at path.
func OpenSQLiteSink(path string) (*SQLiteSink, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create analytics dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One writer; serialize through a single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	stmt, err := db.Prepare(`INSERT INTO events (category, action, label, at) VALUES (?, ?, ?, ?)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare insert: %w", err)
	}
	return &SQLiteSink{db: db, stmt: stmt}, nil
}

// Send implements Sink.
func (s *SQLiteSink) Send(ctx context.Context, ev Event) error {
	_, err := s.stmt.ExecContext(ctx, ev.Category, ev.Action, ev.Label, ev.At.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("insert event %s: %w", ev.Action, err)
	}
	return nil
}

// Count returns how many events with the given action were recorded. An
// empty action counts every event.
func (s *SQLiteSink) Count(ctx context.Context, action string) (int, error) {
	var n int
	var err error
	if action == "" {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events`).Scan(&n)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM events WHERE action = ?`, action).Scan(&n)
	}
	if err != nil {
		return 0, fmt.Errorf("count events: %w", err)
	}
	return n, nil
}

// Close releases the database.
func (s *SQLiteSink) Close() error {
	s.stmt.Close()
	return s.db.Close()
}
