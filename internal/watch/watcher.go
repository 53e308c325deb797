// Package watch re-runs test documents when they change on disk.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceDefault absorbs editor save bursts before triggering a re-run.
const debounceDefault = 300 * time.Millisecond

// Watcher invokes a handler after YAML files under the watched paths
// change. A single debounce timer resets on each event; when it fires, the
// handler runs once for the whole burst.
type Watcher struct {
	dirs     []string
	handler  func()
	debounce time.Duration
}

// New builds a Watcher over the given files and directories. File paths
// are watched through their parent directory.
func New(paths []string, handler func()) (*Watcher, error) {
	dirSet := map[string]bool{}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		dir := p
		if !info.IsDir() {
			dir = filepath.Dir(p)
		}
		dirSet[dir] = true
	}

	dirs := make([]string, 0, len(dirSet))
	for d := range dirSet {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	return &Watcher{dirs: dirs, handler: handler, debounce: debounceDefault}, nil
}

// Run blocks until ctx is cancelled, invoking the handler after each
// debounced batch of document changes.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = fw.Close() }()

	for _, d := range w.dirs {
		if err := fw.Add(d); err != nil {
			return err
		}
	}

	// Single debounce timer — initialized stopped, first event starts it.
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Includes are plain YAML files without the test* prefix, so
			// any YAML change under a watched directory triggers.
			if !isYAML(ev.Name) {
				continue
			}
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			return err

		case <-timer.C:
			w.handler()
		}
	}
}

func isYAML(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yml" || ext == ".yaml"
}
