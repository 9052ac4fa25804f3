package store

import (
	"database/sql"
	"fmt"
)

// Edge upserts keep the resolved target FQN once it is known: an empty
// excluded target never overwrites a back-filled one.

const upsertSuperSQL = `
INSERT INTO super_mappings (branch, symbol_fqn, target_name, target_fqn)
VALUES (?, ?, ?, ?)
ON CONFLICT(branch, symbol_fqn, target_name) DO UPDATE SET
	target_fqn = CASE WHEN excluded.target_fqn != '' THEN excluded.target_fqn ELSE target_fqn END`

const upsertInterfaceSQL = `
INSERT INTO interface_mappings (branch, symbol_fqn, target_name, target_fqn)
VALUES (?, ?, ?, ?)
ON CONFLICT(branch, symbol_fqn, target_name) DO UPDATE SET
	target_fqn = CASE WHEN excluded.target_fqn != '' THEN excluded.target_fqn ELSE target_fqn END`

func upsertSuperMappingTx(tx *sql.Tx, m *SuperMapping) error {
	if _, err := tx.Exec(upsertSuperSQL, m.Branch, m.SymbolFQN, m.TargetName, m.TargetFQN); err != nil {
		return fmt.Errorf("upsert super mapping %s -> %s: %w", m.SymbolFQN, m.TargetName, err)
	}
	return nil
}

func upsertInterfaceMappingTx(tx *sql.Tx, m *InterfaceMapping) error {
	if _, err := tx.Exec(upsertInterfaceSQL, m.Branch, m.SymbolFQN, m.TargetName, m.TargetFQN); err != nil {
		return fmt.Errorf("upsert interface mapping %s -> %s: %w", m.SymbolFQN, m.TargetName, err)
	}
	return nil
}

// UpsertSuperMapping records one subtype -> supertype edge.
func (s *Store) UpsertSuperMapping(m *SuperMapping) error {
	if _, err := s.db.Exec(upsertSuperSQL, m.Branch, m.SymbolFQN, m.TargetName, m.TargetFQN); err != nil {
		return fmt.Errorf("upsert super mapping %s -> %s: %w", m.SymbolFQN, m.TargetName, err)
	}
	return nil
}

// UpsertInterfaceMapping records one type -> implemented-interface edge.
func (s *Store) UpsertInterfaceMapping(m *InterfaceMapping) error {
	if _, err := s.db.Exec(upsertInterfaceSQL, m.Branch, m.SymbolFQN, m.TargetName, m.TargetFQN); err != nil {
		return fmt.Errorf("upsert interface mapping %s -> %s: %w", m.SymbolFQN, m.TargetName, err)
	}
	return nil
}

// BackfillEdges fills in target FQNs for edges whose short target name now
// matches an indexed type on the same branch. Runs after a batch of files
// lands, so edges recorded before their target was extracted still resolve.
func (s *Store) BackfillEdges(branch string) error {
	for _, table := range []string{"super_mappings", "interface_mappings"} {
		q := fmt.Sprintf(`
			UPDATE %s SET target_fqn = (
				SELECT sym.fqn FROM symbols sym
				WHERE sym.branch = %s.branch AND sym.name = %s.target_name
				  AND sym.kind IN ('class', 'interface', 'enum')
				LIMIT 1
			)
			WHERE branch = ? AND target_fqn = ''
			  AND EXISTS (
				SELECT 1 FROM symbols sym
				WHERE sym.branch = %s.branch AND sym.name = %s.target_name
				  AND sym.kind IN ('class', 'interface', 'enum')
			  )`, table, table, table, table, table)
		if _, err := s.db.Exec(q, branch); err != nil {
			return fmt.Errorf("backfill %s: %w", table, err)
		}
	}
	return nil
}

func (s *Store) queryMappings(query string, args ...any) ([]*SuperMapping, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []*SuperMapping
	for rows.Next() {
		m := &SuperMapping{}
		if err := rows.Scan(&m.ID, &m.Branch, &m.SymbolFQN, &m.TargetName, &m.TargetFQN); err != nil {
			return nil, fmt.Errorf("scan mapping: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// SuperMappingsOf returns the supertype edges recorded for a symbol.
func (s *Store) SuperMappingsOf(branch, symbolFQN string) ([]*SuperMapping, error) {
	return s.queryMappings(
		"SELECT id, branch, symbol_fqn, target_name, target_fqn FROM super_mappings WHERE branch = ? AND symbol_fqn = ?",
		branch, symbolFQN,
	)
}

// Subtypes returns symbols that extend the type with the given FQN.
func (s *Store) Subtypes(branch, targetFQN string) ([]*Symbol, error) {
	return s.querySymbols(
		`SELECT `+symbolCols+` FROM symbols
		 WHERE branch = ? AND fqn IN
		   (SELECT symbol_fqn FROM super_mappings WHERE branch = ? AND target_fqn = ?)
		 ORDER BY fqn`,
		branch, branch, targetFQN,
	)
}

// ImplementorsOf returns symbols that implement the interface with the
// given FQN.
func (s *Store) ImplementorsOf(branch, targetFQN string) ([]*Symbol, error) {
	return s.querySymbols(
		`SELECT `+symbolCols+` FROM symbols
		 WHERE branch = ? AND fqn IN
		   (SELECT symbol_fqn FROM interface_mappings WHERE branch = ? AND target_fqn = ?)
		 ORDER BY fqn`,
		branch, branch, targetFQN,
	)
}
