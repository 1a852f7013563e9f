// Package sqlite implements the durable session slot on SQLite. The whole
// collection lives in a single key/value row, overwritten atomically on
// every save, mirroring the one-slot layout the session manager expects.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/strandchat/strand/internal/chat"
	"github.com/strandchat/strand/internal/session"

	_ "modernc.org/sqlite" // SQLite driver registration
)

// slotKey is the durable slot holding all sessions.
const slotKey = "chatSessions_v1"

// defaultBusyTimeout is the SQLite busy handler timeout in milliseconds.
const defaultBusyTimeout = 5000

// Interface guard.
var _ session.Port = (*Slot)(nil)

// Slot is a session.Port backed by a SQLite database.
type Slot struct {
	db     *sql.DB
	limit  int
	logger *slog.Logger
}

// Open opens (creating if needed) the database at path and returns a Slot
// trimming sessions to limit messages on save. The database uses WAL mode,
// a 5 s busy timeout, and a single connection (SQLite serialises writes).
func Open(path string, limit int, logger *slog.Logger) (*Slot, error) {
	if limit <= 0 {
		limit = session.DefaultHistoryLimit
	}
	if logger == nil {
		logger = slog.Default()
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("sqlite: create directory %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}

	db.SetMaxOpenConns(1)

	ctx := context.TODO()

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: enable WAL: %w", err)
	}

	if _, err := db.ExecContext(ctx, fmt.Sprintf("PRAGMA busy_timeout=%d", defaultBusyTimeout)); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: set busy_timeout: %w", err)
	}

	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Slot{db: db, limit: limit, logger: logger}, nil
}

// migrate creates the schema. All DDL uses IF NOT EXISTS, making it
// idempotent.
func migrate(db *sql.DB) error {
	_, err := db.ExecContext(context.TODO(), `
		CREATE TABLE IF NOT EXISTS slots (
			key        TEXT PRIMARY KEY,
			value      TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
		)`)
	if err != nil {
		return fmt.Errorf("sqlite: migrate: %w", err)
	}
	return nil
}

// Load implements session.Port. A missing slot yields an empty collection;
// an unparsable one is cleared and also yields empty — corruption never
// reaches the caller as an error.
func (s *Slot) Load(ctx context.Context) (chat.Collection, string, error) {
	var raw string
	err := s.db.QueryRowContext(ctx, "SELECT value FROM slots WHERE key = ?", slotKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return chat.Collection{}, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("sqlite: read slot: %w", err)
	}

	c, err := chat.DecodeCollection([]byte(raw))
	if err != nil {
		s.logger.Warn("discarding corrupt session slot", "error", err)
		if _, derr := s.db.ExecContext(ctx, "DELETE FROM slots WHERE key = ?", slotKey); derr != nil {
			s.logger.Error("clearing corrupt slot failed", "error", derr)
		}
		return chat.Collection{}, "", nil
	}

	return c, chat.LatestSession(c), nil
}

// Save implements session.Port: one atomic overwrite of the whole slot,
// with each session truncated to its most recent entries first.
func (s *Slot) Save(ctx context.Context, c chat.Collection) error {
	trimmed := make(chat.Collection, len(c))
	for id, msgs := range c {
		trimmed[id] = chat.Trim(msgs, s.limit)
	}

	raw, err := chat.EncodeCollection(trimmed)
	if err != nil {
		return fmt.Errorf("sqlite: encode collection: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO slots (key, value, updated_at)
		VALUES (?, ?, strftime('%Y-%m-%dT%H:%M:%fZ','now'))`,
		slotKey, string(raw),
	)
	if err != nil {
		return fmt.Errorf("sqlite: write slot: %w", err)
	}
	return nil
}

// Clear implements session.Port.
func (s *Slot) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM slots WHERE key = ?", slotKey); err != nil {
		return fmt.Errorf("sqlite: clear slot: %w", err)
	}
	return nil
}

// Close releases the underlying database handle.
func (s *Slot) Close() error {
	return s.db.Close()
}
