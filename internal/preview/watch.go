package preview

import (
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Descent098/ezcv/internal/logfields"
	"github.com/Descent098/ezcv/internal/theme"
)

// DefaultDebounce is the quiet period after the last file change before a
// rebuild starts.
const DefaultDebounce = 300 * time.Millisecond

// debouncer runs fn once events stop arriving for wait.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
	wait  time.Duration
	fn    func()
}

func newDebouncer(wait time.Duration, fn func()) *debouncer {
	return &debouncer{wait: wait, fn: fn}
}

func (d *debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.fn)
}

func (d *debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

// watchSet decides which file events should trigger a rebuild. The site root
// is watched shallowly for the config file; content, images and the theme
// are watched recursively.
type watchSet struct {
	root       string
	configFile string
	trees      []string
}

func newWatchSet(root, configPath, themeDir string) watchSet {
	trees := []string{filepath.Join(root, "content"), filepath.Join(root, "images")}
	if themeDir != "" {
		trees = append(trees, themeDir)
	}
	return watchSet{root: root, configFile: filepath.Base(configPath), trees: trees}
}

// add registers every watched directory with w. Missing trees are skipped.
func (ws watchSet) add(w *fsnotify.Watcher) error {
	if err := w.Add(ws.root); err != nil {
		return err
	}
	for _, t := range ws.trees {
		if st, err := os.Stat(t); err != nil || !st.IsDir() {
			continue
		}
		addDirsRecursive(w, t)
	}
	return nil
}

// relevant reports whether a change at path should trigger a rebuild.
func (ws watchSet) relevant(path string) bool {
	if shouldIgnoreEvent(path) {
		return false
	}
	if filepath.Dir(path) == ws.root {
		base := filepath.Base(path)
		return base == ws.configFile || base == "content" || base == "images"
	}
	return true
}

func addDirsRecursive(w *fsnotify.Watcher, root string) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if err := w.Add(path); err != nil {
				slog.Warn("Watch add failed", logfields.Path(path), logfields.Error(err))
			}
		}
		return nil
	})
}

// shouldIgnoreEvent returns true for files that never affect the build:
// hidden and editor temp files, OS litter and the theme sidecar.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	switch {
	case strings.HasPrefix(base, "."),
		strings.HasSuffix(base, "~"),
		strings.HasSuffix(base, ".swp"),
		strings.HasSuffix(base, ".swx"),
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"),
		base == "Thumbs.db",
		base == theme.MetadataFile:
		return true
	}
	return false
}
