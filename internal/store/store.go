// Package store is the persistent, branch-partitioned symbol index backed
// by SQLite. All reads and writes are scoped by a branch identifier;
// switching branches means switching partitions, never rewriting another
// partition's rows.
package store

import (
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for the symbol index.
type Store struct {
	db *sql.DB

	// fileLocks serializes re-extraction per file path: at most one
	// in-flight delete-then-reinsert per file, while unrelated files
	// index in parallel. There is deliberately no store-wide lock.
	mu        sync.Mutex
	fileLocks map[string]*sync.Mutex
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db, fileLocks: make(map[string]*sync.Mutex)}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// LockFile acquires the per-path indexing lock and returns its release
// function. Callers hold it across a full delete-then-reinsert cycle.
func (s *Store) LockFile(path string) func() {
	s.mu.Lock()
	lock, ok := s.fileLocks[path]
	if !ok {
		lock = &sync.Mutex{}
		s.fileLocks[path] = lock
	}
	s.mu.Unlock()
	lock.Lock()
	return lock.Unlock
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS symbols (
  id              INTEGER PRIMARY KEY,
  branch          TEXT NOT NULL,
  name            TEXT NOT NULL,
  fqn             TEXT NOT NULL,
  parent_fqn      TEXT NOT NULL DEFAULT '',
  file_path       TEXT NOT NULL,
  language        TEXT NOT NULL,
  kind            TEXT NOT NULL,
  modifiers       TEXT NOT NULL DEFAULT '[]',
  start_line      INTEGER NOT NULL DEFAULT 0,
  start_col       INTEGER NOT NULL DEFAULT 0,
  end_line        INTEGER NOT NULL DEFAULT 0,
  end_col         INTEGER NOT NULL DEFAULT 0,
  name_start_line INTEGER NOT NULL DEFAULT 0,
  name_start_col  INTEGER NOT NULL DEFAULT 0,
  name_end_line   INTEGER NOT NULL DEFAULT 0,
  name_end_col    INTEGER NOT NULL DEFAULT 0,
  supertype       TEXT NOT NULL DEFAULT '',
  interfaces      TEXT NOT NULL DEFAULT '[]',
  arity           INTEGER NOT NULL DEFAULT -1,
  metadata        TEXT NOT NULL DEFAULT '{}',
  last_modified   TIMESTAMP
);

-- Type kinds carry arity -1, so this one identity covers both the
-- (branch, fqn, kind) uniqueness of classes/interfaces/enums and the
-- (parent fqn, name, arity) overload keying of functions and fields.
CREATE UNIQUE INDEX IF NOT EXISTS idx_symbols_identity
  ON symbols(branch, fqn, kind, arity);

CREATE INDEX IF NOT EXISTS idx_symbols_short_name ON symbols(branch, name);
CREATE INDEX IF NOT EXISTS idx_symbols_file ON symbols(file_path);
CREATE INDEX IF NOT EXISTS idx_symbols_language ON symbols(branch, language);

CREATE TABLE IF NOT EXISTS super_mappings (
  id          INTEGER PRIMARY KEY,
  branch      TEXT NOT NULL,
  symbol_fqn  TEXT NOT NULL,
  target_name TEXT NOT NULL,
  target_fqn  TEXT NOT NULL DEFAULT '',
  UNIQUE(branch, symbol_fqn, target_name)
);

CREATE INDEX IF NOT EXISTS idx_super_target ON super_mappings(branch, target_name);

CREATE TABLE IF NOT EXISTS interface_mappings (
  id          INTEGER PRIMARY KEY,
  branch      TEXT NOT NULL,
  symbol_fqn  TEXT NOT NULL,
  target_name TEXT NOT NULL,
  target_fqn  TEXT NOT NULL DEFAULT '',
  UNIQUE(branch, symbol_fqn, target_name)
);

CREATE INDEX IF NOT EXISTS idx_interface_target ON interface_mappings(branch, target_name);

CREATE TABLE IF NOT EXISTS files (
  path          TEXT PRIMARY KEY,
  branch        TEXT NOT NULL,
  language      TEXT NOT NULL,
  hash          TEXT NOT NULL,
  last_indexed  TIMESTAMP
);

CREATE TABLE IF NOT EXISTS metadata (
  key   TEXT PRIMARY KEY,
  value TEXT
);
`

// GetMetadata reads a value from the metadata table. Returns "" when the
// key is absent.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get metadata: %w", err)
	}
	return value, nil
}

// SetMetadata writes a key/value pair to the metadata table.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set metadata: %w", err)
	}
	return nil
}
