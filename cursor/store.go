// Package cursor persists the monitor's last-processed watermark using
// SQLite, so a restart does not replay announcements that were already
// spoken.
package cursor

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store manages cursor persistence using SQLite. One row per channel.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the cursor database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS cursors (
			channel_id TEXT PRIMARY KEY,
			cursor TEXT NOT NULL,
			updated_at INTEGER NOT NULL
		)
	`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the persisted cursor for a channel, or "" if none exists.
func (s *Store) Get(channelID string) (string, error) {
	row := s.db.QueryRow(`
		SELECT cursor FROM cursors WHERE channel_id = ?
	`, channelID)

	var cursor string
	err := row.Scan(&cursor)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to query cursor: %w", err)
	}
	return cursor, nil
}

// Put stores the cursor for a channel, replacing any previous value.
func (s *Store) Put(channelID, cursor string) error {
	_, err := s.db.Exec(`
		INSERT INTO cursors (channel_id, cursor, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(channel_id) DO UPDATE SET
			cursor = excluded.cursor,
			updated_at = excluded.updated_at
	`, channelID, cursor, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to store cursor: %w", err)
	}
	return nil
}
