// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite
// ABOUTME: Persists JSON snapshots in a key-value table with automatic schema creation

package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/2389/minilist/internal/model"
)

// SQLiteStore implements the Store interface using SQLite
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the snapshot table if it doesn't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS snapshots (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			updated_at DATETIME NOT NULL
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// get returns the raw snapshot for a key, or ErrNotFound.
func (s *SQLiteStore) get(key string) ([]byte, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM snapshots WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %q: %w", key, err)
	}
	return []byte(value), nil
}

// put overwrites the snapshot for a key.
func (s *SQLiteStore) put(key string, value []byte) error {
	_, err := s.db.Exec(`
		INSERT INTO snapshots (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, string(value), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("writing snapshot %q: %w", key, err)
	}
	return nil
}

// Items returns the persisted item list. Missing or malformed data is
// treated as an empty list so startup never fails on a bad snapshot.
func (s *SQLiteStore) Items() []model.Item {
	raw, err := s.get(itemsKey)
	if errors.Is(err, ErrNotFound) {
		return []model.Item{}
	}
	if err != nil {
		s.logger.Warn("reading item snapshot failed, starting empty", "error", err)
		return []model.Item{}
	}

	var items []model.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		s.logger.Warn("item snapshot is malformed, starting empty", "error", err)
		return []model.Item{}
	}
	return items
}

// SaveItems overwrites the full item snapshot
func (s *SQLiteStore) SaveItems(items []model.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encoding items: %w", err)
	}
	return s.put(itemsKey, raw)
}

// Session returns the persisted session, or nil when none is stored or the
// stored blob is unusable. A session missing either token is discarded, the
// same guard the front end applies before trusting stored credentials.
func (s *SQLiteStore) Session() *model.Session {
	raw, err := s.get(sessionKey)
	if errors.Is(err, ErrNotFound) {
		return nil
	}
	if err != nil {
		s.logger.Warn("reading session snapshot failed", "error", err)
		return nil
	}

	var sess model.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		s.logger.Warn("session snapshot is malformed, discarding", "error", err)
		return nil
	}
	if sess.AccessToken == "" || sess.RefreshToken == "" {
		return nil
	}
	return &sess
}

// SaveSession overwrites the session snapshot
func (s *SQLiteStore) SaveSession(sess *model.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}
	return s.put(sessionKey, raw)
}

// ClearSession removes the session snapshot
func (s *SQLiteStore) ClearSession() error {
	if _, err := s.db.Exec("DELETE FROM snapshots WHERE key = ?", sessionKey); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}
