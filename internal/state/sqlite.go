package state

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS advisory_offset (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	day_offset INTEGER NOT NULL,
	updated_at TEXT NOT NULL
)`

// SQLiteStore keeps the record as a single row, for hosts that already
// collect diagnostics in a database file.
type SQLiteStore struct {
	db   *sql.DB
	path string
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", "file:"+path+"?_pragma=busy_timeout(1000)")
	if err != nil {
		return nil, fmt.Errorf("open state db: %w", err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init state db: %w", err)
	}
	return &SQLiteStore{db: db, path: path}, nil
}

func (s *SQLiteStore) Offset() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT day_offset FROM advisory_offset WHERE id = 1`).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	return n, err
}

func (s *SQLiteStore) SetOffset(n int) error {
	_, err := s.db.Exec(`
INSERT INTO advisory_offset (id, day_offset, updated_at) VALUES (1, ?, ?)
ON CONFLICT(id) DO UPDATE SET day_offset = excluded.day_offset, updated_at = excluded.updated_at`,
		n, time.Now().UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteStore) Clear() error {
	_, err := s.db.Exec(`DELETE FROM advisory_offset`)
	return err
}

func (s *SQLiteStore) Path() string { return s.path }

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
