package understory

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/cespare/xxhash/v2"
	"golang.org/x/sync/errgroup"

	"github.com/understory-dev/understory/internal/config"
	"github.com/understory-dev/understory/internal/deps"
	"github.com/understory-dev/understory/internal/extract"
	"github.com/understory-dev/understory/internal/lang"
	"github.com/understory-dev/understory/internal/parser"
	"github.com/understory-dev/understory/internal/resolve"
	"github.com/understory-dev/understory/internal/store"
	"github.com/understory-dev/understory/internal/vcs"
)

// Engine orchestrates the understory pipeline: file discovery, change
// detection, extraction through the language adapters, and definition
// resolution.
type Engine struct {
	store       *store.Store
	cache       *deps.Cache
	pipeline    *resolve.Pipeline
	log         *slog.Logger
	projectRoot string
	branch      string
	languages   map[string]bool // nil means all languages
	parallelism int
	ignore      []string // doublestar patterns, relative to projectRoot
}

// Option configures an Engine.
type Option func(*Engine)

// WithLanguages restricts which languages the Engine will process.
func WithLanguages(languages ...string) Option {
	return func(e *Engine) {
		e.languages = make(map[string]bool, len(languages))
		for _, tag := range languages {
			e.languages[tag] = true
		}
	}
}

// WithBranch overrides the branch partition. The default is the checked-out
// git branch of the project root, or "main" outside a repository.
func WithBranch(branch string) Option {
	return func(e *Engine) { e.branch = branch }
}

// WithParallelism bounds concurrent file indexing. Zero means NumCPU.
func WithParallelism(n int) Option {
	return func(e *Engine) { e.parallelism = n }
}

// WithIgnore adds glob patterns (doublestar syntax, relative to the project
// root) excluded from directory indexing.
func WithIgnore(patterns ...string) Option {
	return func(e *Engine) { e.ignore = append(e.ignore, patterns...) }
}

// WithBuildTools overrides the build-tool probes used for dependency
// resolution.
func WithBuildTools(tools []deps.BuildTool) Option {
	return func(e *Engine) { e.cache = deps.NewCache(tools, e.log) }
}

// WithLogger sets the structured logger. The default discards nothing and
// writes through slog's default handler.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New creates an Engine for the project at projectRoot, backed by a SQLite
// database at dbPath.
func New(dbPath, projectRoot string, opts ...Option) (*Engine, error) {
	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("understory: create store: %w", err)
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, fmt.Errorf("understory: migrate: %w", err)
	}

	cfg := config.Load()
	e := &Engine{
		store:       s,
		log:         slog.Default(),
		projectRoot: projectRoot,
		parallelism: cfg.Parallelism,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.branch == "" {
		e.branch = vcs.CurrentBranch(projectRoot)
	}
	if e.cache == nil {
		e.cache = deps.NewCache(nil, e.log)
	}
	e.pipeline = resolve.NewPipeline(s, e.cache, e.log)
	return e, nil
}

// Close releases the Engine's database resources.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store returns the underlying Store for direct access.
func (e *Engine) Store() *Store {
	return e.store
}

// Branch returns the branch partition this Engine reads and writes.
func (e *Engine) Branch() string {
	return e.branch
}

// IndexFiles indexes the given file paths, distinct files in parallel.
// Indexing the same path concurrently is serialized by the store's
// per-file lock. Errors on individual files are logged and skipped;
// processing continues.
func (e *Engine) IndexFiles(ctx context.Context, paths []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workerCount())
	for _, path := range paths {
		g.Go(func() error {
			if err := e.indexFile(ctx, path); err != nil {
				e.log.Warn("indexing failed", "path", path, "error", err)
			}
			return ctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// Edges recorded before their targets were extracted resolve now.
	if err := e.store.BackfillEdges(e.branch); err != nil {
		return fmt.Errorf("understory: backfill edges: %w", err)
	}
	return nil
}

func (e *Engine) workerCount() int {
	if e.parallelism > 0 {
		return e.parallelism
	}
	return runtime.NumCPU()
}

// indexFile extracts one file:
//  1. Detect language from extension; skip unsupported or filtered-out.
//  2. Skip unchanged files (same content hash).
//  3. Parse within the budget; a best-effort tree still gets extracted.
//  4. Delete-then-reinsert the file's symbol rows and edges.
func (e *Engine) indexFile(ctx context.Context, path string) error {
	tag, ok := parser.LanguageForFile(path)
	if !ok {
		return nil
	}
	if e.languages != nil && !e.languages[tag] {
		return nil
	}

	unlock := e.store.LockFile(path)
	defer unlock()

	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}
	hash := fmt.Sprintf("%016x", xxhash.Sum64(content))

	existing, err := e.store.FileByPath(path)
	if err != nil {
		return fmt.Errorf("lookup file: %w", err)
	}
	if existing != nil && existing.Hash == hash && existing.Branch == e.branch {
		return nil // unchanged
	}

	res, err := parser.Parse(ctx, tag, content)
	if err != nil {
		// Parse timeouts degrade to an empty symbol set for the file
		// rather than failing the index run.
		e.log.Warn("parse failed", "path", path, "error", err)
		return e.store.ReplaceFileSymbols(e.branch, path, nil, nil, nil)
	}
	defer res.Close()

	adapter, ok := lang.ForLanguage(tag)
	if !ok {
		return nil
	}

	extracted := extract.File(adapter, res.Tree.RootNode(), res.Source, e.branch, path)
	if err := e.store.ReplaceFileSymbols(e.branch, path, extracted.Symbols, extracted.Supers, extracted.Interfaces); err != nil {
		return fmt.Errorf("persist symbols: %w", err)
	}
	if err := e.store.UpsertFile(&store.FileRecord{
		Path:        path,
		Branch:      e.branch,
		Language:    tag,
		Hash:        hash,
		LastIndexed: time.Now(),
	}); err != nil {
		return fmt.Errorf("record file: %w", err)
	}
	return nil
}

// RemoveFile drops a deleted file's symbols and record.
func (e *Engine) RemoveFile(path string) error {
	unlock := e.store.LockFile(path)
	defer unlock()
	if err := e.store.DeleteFileSymbols(e.branch, path); err != nil {
		return err
	}
	return e.store.DeleteFile(path)
}

// IndexDirectory walks root and indexes all files with supported
// extensions. If root is inside a git repository, uses git ls-files to
// respect .gitignore; falls back to a filesystem walk otherwise.
func (e *Engine) IndexDirectory(ctx context.Context, root string) error {
	paths, err := e.gitListFiles(root)
	if err != nil {
		paths, err = e.walkListFiles(root)
		if err != nil {
			return err
		}
	}
	return e.IndexFiles(ctx, paths)
}

// gitListFiles uses git ls-files to discover tracked and untracked (but
// not ignored) files under root, filtered to supported languages.
func (e *Engine) gitListFiles(root string) ([]string, error) {
	if !vcs.IsRepository(root) {
		return nil, fmt.Errorf("not a git repository: %s", root)
	}
	cmd := exec.Command("git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("git ls-files: %w", err)
	}

	var paths []string
	for _, line := range strings.Split(stdout.String(), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || e.ignored(line) {
			continue
		}
		absPath := filepath.Join(root, line)
		if _, ok := parser.LanguageForFile(absPath); ok {
			paths = append(paths, absPath)
		}
	}
	return paths, nil
}

// skipDirs are directories excluded from the filesystem-walk fallback.
var skipDirs = map[string]bool{
	"build":        true,
	"target":       true,
	"out":          true,
	"node_modules": true,
}

func (e *Engine) walkListFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		if d.IsDir() {
			name := d.Name()
			if strings.HasPrefix(name, ".") && name != "." || skipDirs[name] || e.ignored(rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if e.ignored(rel) {
			return nil
		}
		if _, ok := parser.LanguageForFile(path); ok {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}
	return paths, nil
}

func (e *Engine) ignored(rel string) bool {
	rel = filepath.ToSlash(rel)
	for _, pattern := range e.ignore {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
