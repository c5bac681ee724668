// Package store persists boundary lists in SQLite, keyed by content
// fingerprint and extraction kind. The CLI runs one process per invocation,
// so the in-memory result cache alone cannot carry results across runs.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps one SQLite database of computed boundary lists.
type Store struct {
	db *sql.DB
}

// Open creates or opens the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema() error {
	query := `CREATE TABLE IF NOT EXISTS boundaries (
		fingerprint TEXT NOT NULL,
		kind TEXT NOT NULL,
		offsets JSON NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		PRIMARY KEY (fingerprint, kind)
	);`
	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("failed to execute schema statement: %w", err)
	}
	return nil
}

// Get returns the stored offsets for (fingerprint, kind), with false when
// no row exists.
func (s *Store) Get(fingerprint, kind string) ([]int, bool, error) {
	var payload []byte
	err := s.db.QueryRow(
		`SELECT offsets FROM boundaries WHERE fingerprint = ? AND kind = ?`,
		fingerprint, kind,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to query boundaries: %w", err)
	}

	var offsets []int
	if err := json.Unmarshal(payload, &offsets); err != nil {
		return nil, false, fmt.Errorf("failed to decode offsets: %w", err)
	}
	return offsets, true, nil
}

// Put stores or replaces the offsets for (fingerprint, kind).
func (s *Store) Put(fingerprint, kind string, offsets []int) error {
	if offsets == nil {
		offsets = []int{}
	}
	payload, err := json.Marshal(offsets)
	if err != nil {
		return fmt.Errorf("failed to encode offsets: %w", err)
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO boundaries (fingerprint, kind, offsets) VALUES (?, ?, ?)`,
		fingerprint, kind, payload,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert boundaries: %w", err)
	}
	return nil
}

// Prune drops the oldest rows beyond max. Insertion order stands in for
// recency; a replaced row gets a fresh rowid.
func (s *Store) Prune(max int) error {
	if max <= 0 {
		return nil
	}
	_, err := s.db.Exec(
		`DELETE FROM boundaries WHERE rowid NOT IN (
			SELECT rowid FROM boundaries ORDER BY rowid DESC LIMIT ?
		)`, max,
	)
	if err != nil {
		return fmt.Errorf("failed to prune boundaries: %w", err)
	}
	return nil
}

// Count returns the number of stored rows.
func (s *Store) Count() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM boundaries`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count boundaries: %w", err)
	}
	return n, nil
}
