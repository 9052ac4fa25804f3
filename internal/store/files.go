package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// FileRecord tracks one indexed file and the content hash it was
// extracted from.
type FileRecord struct {
	Path        string
	Branch      string
	Language    string
	Hash        string
	LastIndexed time.Time
}

// UpsertFile records that a file was indexed at a given content hash.
func (s *Store) UpsertFile(rec *FileRecord) error {
	if rec.LastIndexed.IsZero() {
		rec.LastIndexed = time.Now()
	}
	_, err := s.db.Exec(`
		INSERT INTO files (path, branch, language, hash, last_indexed)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			branch = excluded.branch,
			language = excluded.language,
			hash = excluded.hash,
			last_indexed = excluded.last_indexed`,
		rec.Path, rec.Branch, rec.Language, rec.Hash, rec.LastIndexed)
	if err != nil {
		return fmt.Errorf("upsert file %s: %w", rec.Path, err)
	}
	return nil
}

// FileByPath returns the indexing record for a path, or nil when the
// file has never been indexed.
func (s *Store) FileByPath(path string) (*FileRecord, error) {
	rec := &FileRecord{}
	err := s.db.QueryRow(
		"SELECT path, branch, language, hash, last_indexed FROM files WHERE path = ?", path,
	).Scan(&rec.Path, &rec.Branch, &rec.Language, &rec.Hash, &rec.LastIndexed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query file %s: %w", path, err)
	}
	return rec, nil
}

// DeleteFile removes the indexing record for a path.
func (s *Store) DeleteFile(path string) error {
	if _, err := s.db.Exec("DELETE FROM files WHERE path = ?", path); err != nil {
		return fmt.Errorf("delete file %s: %w", path, err)
	}
	return nil
}

// IndexedFiles returns all file paths indexed on a branch.
func (s *Store) IndexedFiles(branch string) ([]string, error) {
	rows, err := s.db.Query("SELECT path FROM files WHERE branch = ? ORDER BY path", branch)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}
