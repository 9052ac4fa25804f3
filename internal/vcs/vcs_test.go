package vcs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeHEAD(t *testing.T, root, content string) {
	t.Helper()
	gitDir := filepath.Join(root, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "HEAD"), []byte(content), 0o644))
}

func TestIsRepository(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	assert.False(t, IsRepository(root))

	writeHEAD(t, root, "ref: refs/heads/main\n")
	assert.True(t, IsRepository(root))
}

func TestCurrentBranch(t *testing.T) {
	t.Parallel()

	t.Run("non-repo falls back to default", func(t *testing.T) {
		assert.Equal(t, DefaultBranch, CurrentBranch(t.TempDir()))
	})

	t.Run("symbolic ref", func(t *testing.T) {
		root := t.TempDir()
		writeHEAD(t, root, "ref: refs/heads/feature/cache\n")
		assert.Equal(t, "feature/cache", CurrentBranch(root))
	})

	t.Run("detached head", func(t *testing.T) {
		root := t.TempDir()
		writeHEAD(t, root, "0123456789abcdef0123456789abcdef01234567\n")
		assert.Equal(t, "01234567", CurrentBranch(root))
	})

	t.Run("gitdir pointer file", func(t *testing.T) {
		root := t.TempDir()
		real := filepath.Join(root, "real-git")
		require.NoError(t, os.MkdirAll(real, 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(real, "HEAD"), []byte("ref: refs/heads/wt\n"), 0o644))
		require.NoError(t, os.WriteFile(filepath.Join(root, ".git"), []byte("gitdir: real-git\n"), 0o644))
		assert.Equal(t, "wt", CurrentBranch(root))
	})
}
