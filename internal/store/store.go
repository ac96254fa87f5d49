// Package store persists conversation turns, mood check-ins and well-being
// scorecards in SQLite.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// timeLayout is RFC3339 with zero-padded nanoseconds so stored timestamps
// sort lexicographically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store manages all tabular persistence for the service.
type Store struct {
	db *sql.DB
}

// Open creates a store backed by the SQLite database at path, creating the
// schema when missing.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// The modernc driver serializes access per connection; a single
	// connection avoids SQLITE_BUSY between concurrent requests.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewWithDB creates a store on an existing connection. Used by tests.
func NewWithDB(db *sql.DB) (*Store, error) {
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS chat_messages (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			session_id TEXT NOT NULL,
			role       TEXT NOT NULL,
			content    TEXT NOT NULL,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_messages_session
			ON chat_messages(user_id, session_id, created_at);

		CREATE TABLE IF NOT EXISTS mood_logs (
			id         TEXT PRIMARY KEY,
			user_id    TEXT NOT NULL,
			mood_score INTEGER NOT NULL,
			emotions   TEXT,
			note       TEXT,
			created_at TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_moods_user
			ON mood_logs(user_id, created_at DESC);

		CREATE TABLE IF NOT EXISTS well_being_scores (
			user_id         TEXT PRIMARY KEY,
			mind_score      INTEGER NOT NULL DEFAULT 0,
			physical_score  INTEGER NOT NULL DEFAULT 0,
			nutrition_score INTEGER NOT NULL DEFAULT 0,
			career_score    INTEGER NOT NULL DEFAULT 0,
			overall_score   INTEGER NOT NULL DEFAULT 0,
			last_calculated TEXT NOT NULL
		);
	`)
	return err
}

// Ping reports whether the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
