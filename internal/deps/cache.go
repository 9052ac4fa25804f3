package deps

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/understory-dev/understory/internal/extract"
	"github.com/understory-dev/understory/internal/lang"
	"github.com/understory-dev/understory/internal/parser"
	"github.com/understory-dev/understory/internal/store"
)

// FreshnessWindow bounds how long resolved dependency roots for a project
// are trusted before re-probing the build tool. Parsed archives never
// expire: a versioned jar's contents are immutable.
const FreshnessWindow = 30 * time.Second

type rootsEntry struct {
	roots      []Root
	resolvedAt time.Time
}

type symbolsEntry struct {
	symbols   []*store.Symbol
	loadedAt  time.Time
	immutable bool
}

// Cache resolves and parses external dependencies. All methods are safe
// for concurrent use; concurrent loads of the same root are collapsed
// into one underlying parse.
type Cache struct {
	tools []BuildTool
	log   *slog.Logger

	mu      sync.RWMutex
	roots   map[string]rootsEntry   // project root -> resolved deps
	symbols map[string]symbolsEntry // dependency root -> parsed symbols

	group singleflight.Group
	now   func() time.Time
}

// NewCache builds a cache over the given build-tool probes; nil tools
// means DefaultBuildTools.
func NewCache(tools []BuildTool, log *slog.Logger) *Cache {
	if tools == nil {
		tools = DefaultBuildTools()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Cache{
		tools:   tools,
		log:     log,
		roots:   map[string]rootsEntry{},
		symbols: map[string]symbolsEntry{},
		now:     time.Now,
	}
}

// Resolve returns the dependency roots of a project. The first build tool
// claiming the root wins; a project no tool claims has zero dependencies.
// Results are cached per project root within the freshness window.
func (c *Cache) Resolve(projectRoot string) ([]Root, error) {
	c.mu.RLock()
	entry, ok := c.roots[projectRoot]
	c.mu.RUnlock()
	if ok && c.now().Sub(entry.resolvedAt) < FreshnessWindow {
		return entry.roots, nil
	}

	v, err, _ := c.group.Do("resolve:"+projectRoot, func() (any, error) {
		var roots []Root
		for _, tool := range c.tools {
			if !tool.IsProject(projectRoot) {
				continue
			}
			paths, err := tool.DependencyPaths(projectRoot)
			if err != nil {
				c.log.Warn("dependency probe failed",
					"tool", tool.Name(), "root", projectRoot, "error", err)
				break
			}
			roots = paths
			break
		}
		c.mu.Lock()
		c.roots[projectRoot] = rootsEntry{roots: roots, resolvedAt: c.now()}
		c.mu.Unlock()
		return roots, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]Root), nil
}

// GetOrLoad returns the parsed symbol set of one dependency root, loading
// it at most once across concurrent callers. Directory roots are reloaded
// after the freshness window; archive roots are loaded once.
func (c *Cache) GetOrLoad(ctx context.Context, root Root) ([]*store.Symbol, error) {
	c.mu.RLock()
	entry, ok := c.symbols[root.Path]
	c.mu.RUnlock()
	if ok && (entry.immutable || c.now().Sub(entry.loadedAt) < FreshnessWindow) {
		return entry.symbols, nil
	}

	v, err, _ := c.group.Do("load:"+root.Path, func() (any, error) {
		symbols, err := c.load(ctx, root)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.symbols[root.Path] = symbolsEntry{
			symbols:   symbols,
			loadedAt:  c.now(),
			immutable: isArchive(root.Path),
		}
		c.mu.Unlock()
		return symbols, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]*store.Symbol), nil
}

func (c *Cache) load(ctx context.Context, root Root) ([]*store.Symbol, error) {
	// Prefer the sources companion when the root itself is binary-only.
	path := root.Path
	if root.Sources != "" {
		path = root.Sources
	}
	if isArchive(path) {
		return c.loadArchive(ctx, path)
	}
	return c.loadDir(ctx, path)
}

func (c *Cache) loadArchive(ctx context.Context, path string) ([]*store.Symbol, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	defer r.Close()

	var symbols []*store.Symbol
	for _, f := range r.File {
		tag, ok := parser.LanguageForFile(f.Name)
		if !ok {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			continue
		}
		src, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			continue
		}
		entryPath := path + "!/" + f.Name
		syms, err := c.parseSource(ctx, tag, entryPath, src)
		if err != nil {
			// One unparseable entry never fails the whole archive.
			c.log.Debug("skipping archive entry", "entry", entryPath, "error", err)
			continue
		}
		symbols = append(symbols, syms...)
	}
	return symbols, nil
}

func (c *Cache) loadDir(ctx context.Context, dir string) ([]*store.Symbol, error) {
	var symbols []*store.Symbol
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		tag, ok := parser.LanguageForFile(path)
		if !ok {
			return nil
		}
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		syms, err := c.parseSource(ctx, tag, path, src)
		if err != nil {
			c.log.Debug("skipping dependency source", "path", path, "error", err)
			return nil
		}
		symbols = append(symbols, syms...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}
	return symbols, nil
}

func (c *Cache) parseSource(ctx context.Context, tag, path string, src []byte) ([]*store.Symbol, error) {
	res, err := parser.Parse(ctx, tag, src)
	if err != nil {
		return nil, err
	}
	defer res.Close()
	adapter, ok := lang.ForLanguage(tag)
	if !ok {
		return nil, nil
	}
	extracted := extract.File(adapter, res.Tree.RootNode(), res.Source, "", path)
	return extracted.Symbols, nil
}

func isArchive(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".jar" || ext == ".zip"
}
