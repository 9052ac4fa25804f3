package deps

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTool struct {
	name   string
	claims bool
	roots  []Root
	probes atomic.Int32
}

func (f *fakeTool) Name() string          { return f.name }
func (f *fakeTool) IsProject(string) bool { return f.claims }

func (f *fakeTool) DependencyPaths(string) ([]Root, error) {
	f.probes.Add(1)
	return f.roots, nil
}

func TestResolve_FirstClaimingToolWins(t *testing.T) {
	t.Parallel()
	first := &fakeTool{name: "first", claims: true, roots: []Root{{Path: "/deps/a"}}}
	second := &fakeTool{name: "second", claims: true, roots: []Root{{Path: "/deps/b"}}}
	c := NewCache([]BuildTool{first, second}, nil)

	roots, err := c.Resolve("/project")
	require.NoError(t, err)
	require.Len(t, roots, 1)
	assert.Equal(t, "/deps/a", roots[0].Path)
	assert.Zero(t, second.probes.Load(), "later tools are never probed")
}

func TestResolve_NoToolClaims(t *testing.T) {
	t.Parallel()
	c := NewCache([]BuildTool{&fakeTool{name: "never"}}, nil)

	roots, err := c.Resolve("/project")
	require.NoError(t, err)
	assert.Empty(t, roots, "unclaimed roots behave as zero-dependency projects")
}

func TestResolve_CachedWithinFreshnessWindow(t *testing.T) {
	t.Parallel()
	tool := &fakeTool{name: "gradle", claims: true}
	c := NewCache([]BuildTool{tool}, nil)

	_, err := c.Resolve("/project")
	require.NoError(t, err)
	_, err = c.Resolve("/project")
	require.NoError(t, err)
	assert.Equal(t, int32(1), tool.probes.Load())

	// Aging the entry past the window re-probes.
	c.mu.Lock()
	c.roots["/project"] = rootsEntry{resolvedAt: time.Now().Add(-2 * FreshnessWindow)}
	c.mu.Unlock()

	_, err = c.Resolve("/project")
	require.NoError(t, err)
	assert.Equal(t, int32(2), tool.probes.Load())
}

func writeDepSource(t *testing.T, dir string) string {
	t.Helper()
	src := `package com.vendor.lib;

public class HttpClient {
    public void send(String payload) {}
}
`
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, "HttpClient.java")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	return path
}

func TestGetOrLoad_ParsesDirectoryRoot(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "lib-src")
	writeDepSource(t, dir)
	c := NewCache(nil, nil)

	symbols, err := c.GetOrLoad(context.Background(), Root{Path: dir})
	require.NoError(t, err)

	var fqns []string
	for _, sym := range symbols {
		fqns = append(fqns, sym.FQN)
	}
	assert.Contains(t, fqns, "com.vendor.lib.HttpClient")
	assert.Contains(t, fqns, "com.vendor.lib.HttpClient.send")
}

func TestGetOrLoad_ConcurrentCallersSingleLoad(t *testing.T) {
	t.Parallel()
	dir := filepath.Join(t.TempDir(), "lib-src")
	writeDepSource(t, dir)
	c := NewCache(nil, nil)

	var wg sync.WaitGroup
	results := make([][]int, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			symbols, err := c.GetOrLoad(context.Background(), Root{Path: dir})
			assert.NoError(t, err)
			results[i] = []int{len(symbols)}
		}()
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, results[0], r)
	}
	c.mu.RLock()
	_, cached := c.symbols[dir]
	c.mu.RUnlock()
	assert.True(t, cached)
}

func TestCollectArchives_PairsSourcesJar(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	artifact := filepath.Join(dir, "com", "vendor", "lib", "1.0")
	require.NoError(t, os.MkdirAll(artifact, 0o755))
	for _, name := range []string{"lib-1.0.jar", "lib-1.0-sources.jar", "lib-1.0-javadoc.jar"} {
		require.NoError(t, os.WriteFile(filepath.Join(artifact, name), []byte("PK"), 0o644))
	}

	roots, err := collectArchives(dir)
	require.NoError(t, err)
	require.Len(t, roots, 1, "sources and javadoc jars are companions, not roots")
	assert.Equal(t, filepath.Join(artifact, "lib-1.0.jar"), roots[0].Path)
	assert.Equal(t, filepath.Join(artifact, "lib-1.0-sources.jar"), roots[0].Sources)
}

func TestCollectArchives_MissingCacheDir(t *testing.T) {
	t.Parallel()
	roots, err := collectArchives(filepath.Join(t.TempDir(), "does-not-exist"))
	require.NoError(t, err)
	assert.Empty(t, roots)
}
