// Package deps resolves a project's external dependency roots through a
// build-tool probe and lazily parses their sources into symbols, cached
// with a freshness window.
package deps

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Root is one resolved dependency location: the archive or directory
// itself, plus an optional companion sources archive when the root is
// binary-only.
type Root struct {
	Path    string
	Sources string
}

// BuildTool probes a project root on the filesystem only; probes must be
// side-effect free.
type BuildTool interface {
	Name() string
	IsProject(root string) bool
	DependencyPaths(root string) ([]Root, error)
}

// DefaultBuildTools returns the probes in claim order.
func DefaultBuildTools() []BuildTool {
	return []BuildTool{gradleTool{}, mavenTool{}}
}

type gradleTool struct{}

func (gradleTool) Name() string { return "gradle" }

func (gradleTool) IsProject(root string) bool {
	for _, f := range []string{"build.gradle", "build.gradle.kts", "settings.gradle", "settings.gradle.kts"} {
		if _, err := os.Stat(filepath.Join(root, f)); err == nil {
			return true
		}
	}
	return false
}

// DependencyPaths scans the local Gradle artifact cache. The module cache
// layout is caches/modules-2/files-2.1/<group>/<artifact>/<version>/<sha1>/<file>.
func (gradleTool) DependencyPaths(root string) ([]Root, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve gradle cache: %w", err)
	}
	cache := filepath.Join(home, ".gradle", "caches", "modules-2", "files-2.1")
	return collectArchives(cache)
}

type mavenTool struct{}

func (mavenTool) Name() string { return "maven" }

func (mavenTool) IsProject(root string) bool {
	_, err := os.Stat(filepath.Join(root, "pom.xml"))
	return err == nil
}

func (mavenTool) DependencyPaths(root string) ([]Root, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve maven repository: %w", err)
	}
	return collectArchives(filepath.Join(home, ".m2", "repository"))
}

// collectArchives walks a local artifact store pairing each jar with its
// -sources companion when present.
func collectArchives(dir string) ([]Root, error) {
	if _, err := os.Stat(dir); err != nil {
		// No local cache means zero dependencies, not an error.
		return nil, nil
	}

	sources := map[string]string{} // base artifact path -> sources jar
	var jars []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		name := d.Name()
		if !strings.HasSuffix(name, ".jar") {
			return nil
		}
		if base, ok := strings.CutSuffix(name, "-sources.jar"); ok {
			sources[base] = path
			return nil
		}
		if strings.HasSuffix(name, "-javadoc.jar") {
			return nil
		}
		jars = append(jars, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", dir, err)
	}

	roots := make([]Root, 0, len(jars))
	for _, jar := range jars {
		base := strings.TrimSuffix(filepath.Base(jar), ".jar")
		roots = append(roots, Root{Path: jar, Sources: sources[base]})
	}
	return roots, nil
}
