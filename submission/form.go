package submission

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// ActiveForm serves the currently configured form definition. The file
// content is cached in memory and refreshed when the file changes on
// disk, so concept reads do not hit the filesystem on every request.
type ActiveForm struct {
	path    string
	logger  *slog.Logger
	watcher *fsnotify.Watcher

	mu      sync.RWMutex
	content string
	loaded  bool
}

// NewActiveForm creates the cache for the form file at the given path.
// The file does not have to exist yet; reading it is deferred to the
// first Content call.
func NewActiveForm(path string, logger *slog.Logger) *ActiveForm {
	if logger == nil {
		logger = slog.Default()
	}
	return &ActiveForm{path: path, logger: logger}
}

// Content returns the current form definition, reading the file on
// first use.
func (a *ActiveForm) Content() (string, error) {
	a.mu.RLock()
	if a.loaded {
		content := a.content
		a.mu.RUnlock()
		return content, nil
	}
	a.mu.RUnlock()
	return a.reload()
}

// Watch starts watching the form file's directory and refreshes the
// cache when the file is rewritten. Deployments replace the file by
// writing a new one into place, so the parent directory is watched
// rather than the file itself.
func (a *ActiveForm) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(a.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watch form directory: %w", err)
	}
	a.watcher = watcher

	go func() {
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if event.Name != a.path {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if _, err := a.reload(); err != nil {
					a.logger.Warn("Failed to reload active form", "path", a.path, "error", err)
				} else {
					a.logger.Info("Active form reloaded", "path", a.path)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				a.logger.Warn("Form watcher error", "error", err)
			}
		}
	}()

	return nil
}

// Close stops the watcher if one was started.
func (a *ActiveForm) Close() error {
	if a.watcher != nil {
		return a.watcher.Close()
	}
	return nil
}

func (a *ActiveForm) reload() (string, error) {
	content, err := os.ReadFile(a.path)
	if err != nil {
		return "", fmt.Errorf("read active form %s: %w", a.path, err)
	}

	a.mu.Lock()
	a.content = string(content)
	a.loaded = true
	a.mu.Unlock()

	return string(content), nil
}
