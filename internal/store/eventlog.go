// Package store persists the session event log: supervisor transitions and
// status-label changes, queryable after the TUI exits (`rctui log`).
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Event is one logged occurrence.
type Event struct {
	ID     int64
	At     time.Time
	Kind   string
	Detail string
}

// EventLog is an append-only sqlite-backed log.
type EventLog struct {
	db *sql.DB
}

// Open opens (creating if needed) the event log at path.
func Open(ctx context.Context, path string) (*EventLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// WAL enables one writer + many readers; busy_timeout avoids
	// "database is locked" flakiness when a second rctui reads the log.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrate(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &EventLog{db: db}, nil
}

func migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			at_unixms INTEGER NOT NULL,
			kind TEXT NOT NULL,
			detail TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_at ON events(at_unixms);`,
	}
	for _, st := range stmts {
		if _, err := db.ExecContext(ctx, st); err != nil {
			return err
		}
	}
	return nil
}

// Append records one event.
func (l *EventLog) Append(ctx context.Context, kind, detail string) error {
	_, err := l.db.ExecContext(ctx,
		`INSERT INTO events(at_unixms, kind, detail) VALUES(?, ?, ?)`,
		time.Now().UnixMilli(), kind, detail)
	return err
}

// Tail returns the most recent n events, oldest first. n <= 0 returns all.
func (l *EventLog) Tail(ctx context.Context, n int) ([]Event, error) {
	q := `SELECT id, at_unixms, kind, detail FROM events ORDER BY id DESC`
	args := []any{}
	if n > 0 {
		q += ` LIMIT ?`
		args = append(args, n)
	}
	rows, err := l.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var evs []Event
	for rows.Next() {
		var e Event
		var ms int64
		if err := rows.Scan(&e.ID, &ms, &e.Kind, &e.Detail); err != nil {
			return nil, err
		}
		e.At = time.UnixMilli(ms)
		evs = append(evs, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// Reverse to chronological order; the query walked newest-first to apply LIMIT.
	for i, j := 0, len(evs)-1; i < j; i, j = i+1, j-1 {
		evs[i], evs[j] = evs[j], evs[i]
	}
	return evs, nil
}

// Close releases the underlying database handle.
func (l *EventLog) Close() error {
	return l.db.Close()
}

// DefaultPath returns the per-user event log location, honoring
// XDG_DATA_HOME when set.
func DefaultPath() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return filepath.Join(v, "rctui", "events.sqlite")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "rctui-events.sqlite")
	}
	return filepath.Join(home, ".local", "share", "rctui", "events.sqlite")
}
