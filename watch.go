package understory

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/understory-dev/understory/internal/parser"
)

// debounceWindow coalesces bursts of filesystem events for the same path
// (editors often write a file several times per save).
const debounceWindow = 200 * time.Millisecond

// Watch re-indexes files as they change under root until ctx is
// cancelled. Creates and writes trigger re-extraction; removes and
// renames drop the file's rows.
func (e *Engine) Watch(ctx context.Context, root string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := e.addWatchDirs(watcher, root); err != nil {
		return err
	}

	pending := map[string]fsnotify.Op{}
	timer := time.NewTimer(debounceWindow)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) {
				// New directories need their own watch.
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = e.addWatchDirs(watcher, event.Name)
					continue
				}
			}
			if _, supported := parser.LanguageForFile(event.Name); !supported {
				continue
			}
			pending[event.Name] |= event.Op
			timer.Reset(debounceWindow)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			e.log.Warn("watch error", "error", err)

		case <-timer.C:
			for path, op := range pending {
				if op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
					if err := e.RemoveFile(path); err != nil {
						e.log.Warn("remove failed", "path", path, "error", err)
					}
					continue
				}
				if err := e.indexFile(ctx, path); err != nil {
					e.log.Warn("reindex failed", "path", path, "error", err)
				}
			}
			if len(pending) > 0 {
				if err := e.store.BackfillEdges(e.branch); err != nil {
					e.log.Warn("backfill failed", "error", err)
				}
			}
			clear(pending)
		}
	}
}

// addWatchDirs registers root and every non-ignored subdirectory.
func (e *Engine) addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != root || skipDirs[name] {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
