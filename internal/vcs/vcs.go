// Package vcs reads just enough git state to partition the index by
// branch. It inspects .git directly rather than shelling out, so indexing
// works without a git binary on PATH.
package vcs

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultBranch is used when the project is not a git repository or the
// current branch cannot be determined.
const DefaultBranch = "main"

// IsRepository reports whether root is inside a git work tree.
func IsRepository(root string) bool {
	info, err := os.Stat(filepath.Join(root, ".git"))
	if err != nil {
		return false
	}
	// .git may be a file pointing at the real dir (worktrees, submodules).
	return info.IsDir() || info.Mode().IsRegular()
}

// CurrentBranch returns the checked-out branch of the repository at root.
// Detached HEADs yield the abbreviated commit hash. Falls back to
// DefaultBranch when the state cannot be read.
func CurrentBranch(root string) string {
	gitDir := filepath.Join(root, ".git")
	if info, err := os.Stat(gitDir); err == nil && !info.IsDir() {
		// gitdir pointer file
		data, err := os.ReadFile(gitDir)
		if err != nil {
			return DefaultBranch
		}
		line := strings.TrimSpace(string(data))
		if target, ok := strings.CutPrefix(line, "gitdir: "); ok {
			if !filepath.IsAbs(target) {
				target = filepath.Join(root, target)
			}
			gitDir = target
		}
	}

	data, err := os.ReadFile(filepath.Join(gitDir, "HEAD"))
	if err != nil {
		return DefaultBranch
	}
	head := strings.TrimSpace(string(data))
	if ref, ok := strings.CutPrefix(head, "ref: "); ok {
		return strings.TrimPrefix(ref, "refs/heads/")
	}
	if len(head) >= 8 {
		return head[:8]
	}
	return DefaultBranch
}
