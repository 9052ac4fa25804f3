package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Environment(t *testing.T) {
	t.Setenv("UNDERSTORY_DECOMPILER", "/opt/cfr/cfr")
	t.Setenv("UNDERSTORY_CACHE_DIR", "/tmp/understory-cache")
	t.Setenv("UNDERSTORY_PARALLELISM", "4")

	cfg := Load()
	assert.Equal(t, "/opt/cfr/cfr", cfg.DecompilerPath)
	assert.Equal(t, "/tmp/understory-cache", cfg.CacheDir)
	assert.Equal(t, 4, cfg.Parallelism)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("UNDERSTORY_DECOMPILER", "")
	t.Setenv("UNDERSTORY_CACHE_DIR", "")
	t.Setenv("UNDERSTORY_PARALLELISM", "not-a-number")

	cfg := Load()
	assert.Empty(t, cfg.DecompilerPath)
	assert.NotEmpty(t, cfg.CacheDir, "falls back to the user cache dir")
	assert.Zero(t, cfg.Parallelism)
}
