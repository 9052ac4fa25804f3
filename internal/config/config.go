// Package config loads engine settings from the environment, with an
// optional .env file for local development.
package config

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Config holds the settings the engine reads from the environment.
type Config struct {
	// DecompilerPath points at an external decompiler binary used to turn
	// dependency archives into readable source. Empty disables external
	// source extraction for binary-only archives.
	DecompilerPath string

	// CacheDir is where parsed dependency sources are cached on disk.
	CacheDir string

	// Parallelism bounds concurrent file indexing. Zero means NumCPU.
	Parallelism int
}

var loadEnvOnce sync.Once

// Load reads configuration from the environment. A .env file in the
// working directory is merged in once per process, without overriding
// variables already set.
func Load() Config {
	loadEnvOnce.Do(func() {
		// Missing .env is the normal case.
		_ = godotenv.Load()
	})

	cfg := Config{
		DecompilerPath: os.Getenv("UNDERSTORY_DECOMPILER"),
		CacheDir:       os.Getenv("UNDERSTORY_CACHE_DIR"),
	}
	if cfg.CacheDir == "" {
		if base, err := os.UserCacheDir(); err == nil {
			cfg.CacheDir = filepath.Join(base, "understory")
		}
	}
	if v := os.Getenv("UNDERSTORY_PARALLELISM"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Parallelism = n
		}
	}
	return cfg
}
