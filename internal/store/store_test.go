package store

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

func testSymbol(branch, fqn, kind string, arity int) *Symbol {
	name := fqn
	if i := len(fqn) - 1; i >= 0 {
		for j := i; j >= 0; j-- {
			if fqn[j] == '.' {
				name = fqn[j+1:]
				break
			}
		}
	}
	return &Symbol{
		Branch:   branch,
		Name:     name,
		FQN:      fqn,
		FilePath: "src/Main.java",
		Language: "java",
		Kind:     kind,
		Arity:    arity,
		Range:    Range{StartLine: 0, EndLine: 10, EndCol: 1},
	}
}

// =============================================================================
// Schema & Lifecycle
// =============================================================================

func TestMigrate_AllTablesExist(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	expectedTables := []string{"symbols", "super_mappings", "interface_mappings", "files", "metadata"}
	for _, table := range expectedTables {
		var name string
		err := s.DB().QueryRow(
			"SELECT name FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Migrate())
	require.NoError(t, s.Migrate())
}

func TestMetadata_RoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	v, err := s.GetMetadata("missing")
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, s.SetMetadata("schema_version", "1"))
	v, err = s.GetMetadata("schema_version")
	require.NoError(t, err)
	assert.Equal(t, "1", v)
}

// =============================================================================
// Symbols
// =============================================================================

func TestUpsertSymbol_IdentityKey(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	sym := testSymbol("main", "com.example.Service", "class", NoArity)
	sym.Modifiers = []string{"public"}
	require.NoError(t, s.UpsertSymbol(sym))

	// Same identity updates in place rather than inserting a duplicate.
	sym2 := testSymbol("main", "com.example.Service", "class", NoArity)
	sym2.Supertype = "BaseService"
	require.NoError(t, s.UpsertSymbol(sym2))

	got, err := s.SymbolsByFQN("main", "com.example.Service")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "BaseService", got[0].Supertype)
}

func TestUpsertSymbol_OverloadsCoexist(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	require.NoError(t, s.UpsertSymbol(testSymbol("main", "com.example.Service.run", "function", 0)))
	require.NoError(t, s.UpsertSymbol(testSymbol("main", "com.example.Service.run", "function", 1)))

	got, err := s.SymbolsByFQN("main", "com.example.Service.run")
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestSymbolsByShortName_Filters(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	java := testSymbol("main", "com.example.Config", "class", NoArity)
	require.NoError(t, s.UpsertSymbol(java))

	kt := testSymbol("main", "com.other.Config", "class", NoArity)
	kt.Language = "kotlin"
	kt.FilePath = "src/Config.kt"
	require.NoError(t, s.UpsertSymbol(kt))

	all, err := s.SymbolsByShortName("main", "Config", ShortNameQuery{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	onlyKotlin, err := s.SymbolsByShortName("main", "Config", ShortNameQuery{Language: "kotlin"})
	require.NoError(t, err)
	require.Len(t, onlyKotlin, 1)
	assert.Equal(t, "com.other.Config", onlyKotlin[0].FQN)

	notJava, err := s.SymbolsByShortName("main", "Config", ShortNameQuery{ExcludeLanguage: "java"})
	require.NoError(t, err)
	require.Len(t, notJava, 1)
	assert.Equal(t, "kotlin", notJava[0].Language)

	classes, err := s.SymbolsByShortName("main", "Config", ShortNameQuery{Kinds: []string{"interface"}})
	require.NoError(t, err)
	assert.Empty(t, classes)
}

func TestSymbols_BranchPartitioned(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	require.NoError(t, s.UpsertSymbol(testSymbol("main", "com.example.Service", "class", NoArity)))
	require.NoError(t, s.UpsertSymbol(testSymbol("feature/x", "com.example.Service", "class", NoArity)))

	main, err := s.SymbolsByFQN("main", "com.example.Service")
	require.NoError(t, err)
	assert.Len(t, main, 1)

	other, err := s.SymbolsByFQN("develop", "com.example.Service")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestSymbolContaining_Innermost(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	cls := testSymbol("main", "com.example.Service", "class", NoArity)
	cls.Range = Range{StartLine: 0, EndLine: 50, EndCol: 1}
	require.NoError(t, s.UpsertSymbol(cls))

	method := testSymbol("main", "com.example.Service.run", "function", 0)
	method.Range = Range{StartLine: 10, EndLine: 20, EndCol: 5}
	require.NoError(t, s.UpsertSymbol(method))

	got, err := s.SymbolContaining("main", "src/Main.java", 15, 2)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "com.example.Service.run", got.FQN)

	got, err = s.SymbolContaining("main", "src/Main.java", 45, 0)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "com.example.Service", got.FQN)

	got, err = s.SymbolContaining("main", "src/Main.java", 99, 0)
	require.NoError(t, err)
	assert.Nil(t, got)
}

// =============================================================================
// Re-indexing
// =============================================================================

func TestReplaceFileSymbols_RemovesStaleRows(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	old := testSymbol("main", "com.example.Removed", "class", NoArity)
	require.NoError(t, s.ReplaceFileSymbols("main", "src/Main.java", []*Symbol{old},
		[]*SuperMapping{{Branch: "main", SymbolFQN: "com.example.Removed", TargetName: "Base"}}, nil))

	fresh := testSymbol("main", "com.example.Kept", "class", NoArity)
	require.NoError(t, s.ReplaceFileSymbols("main", "src/Main.java", []*Symbol{fresh}, nil, nil))

	gone, err := s.SymbolsByFQN("main", "com.example.Removed")
	require.NoError(t, err)
	assert.Empty(t, gone, "symbols from the previous extraction must not survive")

	edges, err := s.SuperMappingsOf("main", "com.example.Removed")
	require.NoError(t, err)
	assert.Empty(t, edges, "edges owned by removed symbols must be deleted too")

	kept, err := s.SymbolsByFile("main", "src/Main.java")
	require.NoError(t, err)
	require.Len(t, kept, 1)
	assert.Equal(t, "com.example.Kept", kept[0].FQN)
}

func TestReplaceFileSymbols_OtherFilesUntouched(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	other := testSymbol("main", "com.example.Other", "class", NoArity)
	other.FilePath = "src/Other.java"
	require.NoError(t, s.UpsertSymbol(other))

	require.NoError(t, s.ReplaceFileSymbols("main", "src/Main.java", nil, nil, nil))

	got, err := s.SymbolsByFQN("main", "com.example.Other")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

// =============================================================================
// Edges
// =============================================================================

func TestUpsertSuperMapping_NeverClearsResolvedTarget(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	m := &SuperMapping{Branch: "main", SymbolFQN: "com.example.Child", TargetName: "Base", TargetFQN: "com.example.Base"}
	require.NoError(t, s.UpsertSuperMapping(m))

	// Re-recording the edge without a resolved target keeps the FQN.
	unresolved := &SuperMapping{Branch: "main", SymbolFQN: "com.example.Child", TargetName: "Base"}
	require.NoError(t, s.UpsertSuperMapping(unresolved))

	edges, err := s.SuperMappingsOf("main", "com.example.Child")
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "com.example.Base", edges[0].TargetFQN)
}

func TestBackfillEdges(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	// Edge recorded before its target type was indexed.
	require.NoError(t, s.UpsertSuperMapping(&SuperMapping{
		Branch: "main", SymbolFQN: "com.example.Child", TargetName: "Base",
	}))
	require.NoError(t, s.UpsertSymbol(testSymbol("main", "com.example.Base", "class", NoArity)))

	require.NoError(t, s.BackfillEdges("main"))

	edges, err := s.SuperMappingsOf("main", "com.example.Child")
	require.NoError(t, err)
	require.Len(t, edges, 1)
	assert.Equal(t, "com.example.Base", edges[0].TargetFQN)
}

func TestImplementorsOf(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	impl := testSymbol("main", "com.example.TaskRunner", "class", NoArity)
	require.NoError(t, s.UpsertSymbol(impl))
	require.NoError(t, s.UpsertInterfaceMapping(&InterfaceMapping{
		Branch: "main", SymbolFQN: "com.example.TaskRunner",
		TargetName: "Runnable", TargetFQN: "java.lang.Runnable",
	}))

	got, err := s.ImplementorsOf("main", "java.lang.Runnable")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "com.example.TaskRunner", got[0].FQN)
}

// =============================================================================
// Files
// =============================================================================

func TestFileRecord_RoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	missing, err := s.FileByPath("src/Main.java")
	require.NoError(t, err)
	assert.Nil(t, missing)

	rec := &FileRecord{
		Path: "src/Main.java", Branch: "main", Language: "java",
		Hash: "abc123", LastIndexed: time.Now().Truncate(time.Second),
	}
	require.NoError(t, s.UpsertFile(rec))

	got, err := s.FileByPath("src/Main.java")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "abc123", got.Hash)

	rec.Hash = "def456"
	require.NoError(t, s.UpsertFile(rec))
	got, err = s.FileByPath("src/Main.java")
	require.NoError(t, err)
	assert.Equal(t, "def456", got.Hash)

	require.NoError(t, s.DeleteFile("src/Main.java"))
	got, err = s.FileByPath("src/Main.java")
	require.NoError(t, err)
	assert.Nil(t, got)
}

// =============================================================================
// Locking
// =============================================================================

func TestLockFile_SerializesPerPath(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)

	var active, maxActive int
	var mu sync.Mutex
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := s.LockFile("src/Main.java")
			defer unlock()
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			active--
			mu.Unlock()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxActive, "at most one holder per path at a time")
}
