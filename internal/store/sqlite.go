// Package store persists per-user progress records in SQLite. One row
// per user holding the serialized record, last write wins.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/abhisek/skilltrack/internal/progress"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS user_progress (
	user_id    TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at TIMESTAMP NOT NULL
);
`

// Store is a SQLite-backed progress.Persistence.
type Store struct {
	db *sql.DB
}

// Open creates a Store connected to the SQLite database at dsn. It
// applies recommended pragmas and creates the schema.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Load reads one user's progress record. Returns found=false for an
// unknown user.
func (s *Store) Load(ctx context.Context, userID string) (*progress.UserProgress, bool, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		"SELECT data FROM user_progress WHERE user_id = ?", userID,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load progress: %w", err)
	}

	var p progress.UserProgress
	if err := json.Unmarshal([]byte(data), &p); err != nil {
		return nil, false, fmt.Errorf("decode progress for %q: %w", userID, err)
	}
	return &p, true, nil
}

// Save upserts one user's progress record.
func (s *Store) Save(ctx context.Context, userID string, p *progress.UserProgress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("encode progress for %q: %w", userID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_progress (user_id, data, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		userID, string(data), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// applyPragmas configures SQLite for single-writer-per-user workloads.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SKILLTRACK_DB environment variable
// 2. $XDG_DATA_HOME/skilltrack/skilltrack.db
// 3. ~/.local/share/skilltrack/skilltrack.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SKILLTRACK_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "skilltrack", "skilltrack.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
