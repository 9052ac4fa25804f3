package store

import (
	"database/sql"
	"fmt"
	"time"
)

const symbolCols = `id, branch, name, fqn, parent_fqn, file_path, language, kind, modifiers,
	start_line, start_col, end_line, end_col,
	name_start_line, name_start_col, name_end_line, name_end_col,
	supertype, interfaces, arity, metadata, last_modified`

const upsertSymbolSQL = `
INSERT INTO symbols (branch, name, fqn, parent_fqn, file_path, language, kind, modifiers,
	start_line, start_col, end_line, end_col,
	name_start_line, name_start_col, name_end_line, name_end_col,
	supertype, interfaces, arity, metadata, last_modified)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(branch, fqn, kind, arity) DO UPDATE SET
	name = excluded.name,
	parent_fqn = excluded.parent_fqn,
	file_path = excluded.file_path,
	language = excluded.language,
	modifiers = excluded.modifiers,
	start_line = excluded.start_line, start_col = excluded.start_col,
	end_line = excluded.end_line, end_col = excluded.end_col,
	name_start_line = excluded.name_start_line, name_start_col = excluded.name_start_col,
	name_end_line = excluded.name_end_line, name_end_col = excluded.name_end_col,
	supertype = excluded.supertype,
	interfaces = excluded.interfaces,
	metadata = excluded.metadata,
	last_modified = excluded.last_modified`

func symbolArgs(sym *Symbol) []any {
	return []any{
		sym.Branch, sym.Name, sym.FQN, sym.ParentFQN, sym.FilePath, sym.Language,
		sym.Kind, marshalStrings(sym.Modifiers),
		sym.Range.StartLine, sym.Range.StartCol, sym.Range.EndLine, sym.Range.EndCol,
		sym.NameRange.StartLine, sym.NameRange.StartCol, sym.NameRange.EndLine, sym.NameRange.EndCol,
		sym.Supertype, marshalStrings(sym.Interfaces), sym.Arity,
		marshalMetadata(sym.Meta), sym.LastModified,
	}
}

// UpsertSymbol inserts or updates one symbol under its identity key.
func (s *Store) UpsertSymbol(sym *Symbol) error {
	if sym.LastModified.IsZero() {
		sym.LastModified = time.Now()
	}
	if _, err := s.db.Exec(upsertSymbolSQL, symbolArgs(sym)...); err != nil {
		return fmt.Errorf("upsert symbol %s: %w", sym.FQN, err)
	}
	return nil
}

// ReplaceFileSymbols transactionally deletes every row previously persisted
// for a file and inserts the new set. Full delete-then-reinsert, never a
// partial patch, so field drift cannot survive a re-index.
func (s *Store) ReplaceFileSymbols(branch, path string, symbols []*Symbol, supers []*SuperMapping, ifaces []*InterfaceMapping) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteFileSymbolsTx(tx, branch, path); err != nil {
		return err
	}

	for _, sym := range symbols {
		if sym.LastModified.IsZero() {
			sym.LastModified = time.Now()
		}
		if _, err := tx.Exec(upsertSymbolSQL, symbolArgs(sym)...); err != nil {
			return fmt.Errorf("upsert symbol %s: %w", sym.FQN, err)
		}
	}
	for _, m := range supers {
		if err := upsertSuperMappingTx(tx, m); err != nil {
			return err
		}
	}
	for _, m := range ifaces {
		if err := upsertInterfaceMappingTx(tx, m); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// DeleteFileSymbols removes all symbols for a file path plus the edges
// those symbols own.
func (s *Store) DeleteFileSymbols(branch, path string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()
	if err := deleteFileSymbolsTx(tx, branch, path); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteFileSymbolsTx(tx *sql.Tx, branch, path string) error {
	for _, q := range []string{
		`DELETE FROM super_mappings WHERE branch = ? AND symbol_fqn IN
			(SELECT fqn FROM symbols WHERE branch = ? AND file_path = ?)`,
		`DELETE FROM interface_mappings WHERE branch = ? AND symbol_fqn IN
			(SELECT fqn FROM symbols WHERE branch = ? AND file_path = ?)`,
	} {
		if _, err := tx.Exec(q, branch, branch, path); err != nil {
			return fmt.Errorf("delete edges for %s: %w", path, err)
		}
	}
	if _, err := tx.Exec("DELETE FROM symbols WHERE branch = ? AND file_path = ?", branch, path); err != nil {
		return fmt.Errorf("delete symbols for %s: %w", path, err)
	}
	return nil
}

func (s *Store) scanSymbol(scanner interface{ Scan(...any) error }) (*Symbol, error) {
	sym := &Symbol{}
	var mods, ifaces, meta string
	var lastModified sql.NullTime
	err := scanner.Scan(
		&sym.ID, &sym.Branch, &sym.Name, &sym.FQN, &sym.ParentFQN, &sym.FilePath,
		&sym.Language, &sym.Kind, &mods,
		&sym.Range.StartLine, &sym.Range.StartCol, &sym.Range.EndLine, &sym.Range.EndCol,
		&sym.NameRange.StartLine, &sym.NameRange.StartCol, &sym.NameRange.EndLine, &sym.NameRange.EndCol,
		&sym.Supertype, &ifaces, &sym.Arity, &meta, &lastModified,
	)
	if err != nil {
		return nil, err
	}
	sym.Modifiers = unmarshalStrings(mods)
	sym.Interfaces = unmarshalStrings(ifaces)
	sym.Meta = unmarshalMetadata(meta)
	if lastModified.Valid {
		sym.LastModified = lastModified.Time
	}
	return sym, nil
}

func (s *Store) querySymbols(query string, args ...any) ([]*Symbol, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var symbols []*Symbol
	for rows.Next() {
		sym, err := s.scanSymbol(rows)
		if err != nil {
			return nil, fmt.Errorf("scan symbol: %w", err)
		}
		symbols = append(symbols, sym)
	}
	return symbols, rows.Err()
}

// SymbolsByFQN returns every symbol sharing an FQN in a branch (a type
// plus overloaded members can share one).
func (s *Store) SymbolsByFQN(branch, fqn string) ([]*Symbol, error) {
	return s.querySymbols(
		"SELECT "+symbolCols+" FROM symbols WHERE branch = ? AND fqn = ? ORDER BY kind, arity",
		branch, fqn,
	)
}

// ShortNameQuery filters SymbolsByShortName lookups.
type ShortNameQuery struct {
	Language        string // only this language, when non-empty
	ExcludeLanguage string // every language but this one, when non-empty
	Kinds           []string
}

// SymbolsByShortName finds symbols by unqualified name within a branch.
func (s *Store) SymbolsByShortName(branch, name string, q ShortNameQuery) ([]*Symbol, error) {
	query := "SELECT " + symbolCols + " FROM symbols WHERE branch = ? AND name = ?"
	args := []any{branch, name}
	if q.Language != "" {
		query += " AND language = ?"
		args = append(args, q.Language)
	}
	if q.ExcludeLanguage != "" {
		query += " AND language != ?"
		args = append(args, q.ExcludeLanguage)
	}
	if len(q.Kinds) > 0 {
		query += " AND kind IN (" + placeholderList(len(q.Kinds)) + ")"
		for _, k := range q.Kinds {
			args = append(args, k)
		}
	}
	query += " ORDER BY fqn, kind, arity"
	return s.querySymbols(query, args...)
}

// SymbolsByFile returns all symbols extracted from one file.
func (s *Store) SymbolsByFile(branch, path string) ([]*Symbol, error) {
	return s.querySymbols(
		"SELECT "+symbolCols+" FROM symbols WHERE branch = ? AND file_path = ? ORDER BY start_line, start_col",
		branch, path,
	)
}

// SymbolContaining returns the innermost symbol whose full range covers a
// position in a file.
func (s *Store) SymbolContaining(branch, path string, line, col int) (*Symbol, error) {
	symbols, err := s.querySymbols(
		`SELECT `+symbolCols+` FROM symbols
		 WHERE branch = ? AND file_path = ?
		   AND start_line <= ? AND end_line >= ?
		 ORDER BY (end_line - start_line) ASC, (end_col - start_col) ASC`,
		branch, path, line, line,
	)
	if err != nil {
		return nil, err
	}
	for _, sym := range symbols {
		if sym.Range.Contains(line, col) {
			return sym, nil
		}
	}
	return nil, nil
}
