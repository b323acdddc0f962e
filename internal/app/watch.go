package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/specialistvlad/propgraph/internal/ctxlog"
	"github.com/specialistvlad/propgraph/internal/session"
)

// reloadDebounce collapses the burst of events editors emit on save.
const reloadDebounce = 200 * time.Millisecond

// reloader receives freshly loaded documents.
type reloader interface {
	Reload(factory session.SessionFactory)
}

// watch reloads the document into r whenever an .hcl file under DocPath
// changes. A document that fails to load is logged and the previous one
// stays in service.
func (a *App) watch(ctx context.Context, r reloader) error {
	logger := ctxlog.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	dirs, err := watchDirs(a.config.DocPath)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	logger.Info("👀 Watching document for changes.", "dirs", dirs)

	timer := time.NewTimer(reloadDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".hcl" {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) ||
				event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				logger.Debug("Document file changed.", "file", event.Name, "op", event.Op.String())
				timer.Reset(reloadDebounce)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error.", "error", err)
		case <-timer.C:
			a.reload(ctx, r)
		}
	}
}

// reload loads the document again and hands it to r.
func (a *App) reload(ctx context.Context, r reloader) bool {
	logger := ctxlog.FromContext(ctx)
	factory, err := a.loadFactory(ctx)
	if err != nil {
		logger.Error("Reload failed, keeping the previous document.", "error", err)
		return false
	}
	a.factory = factory
	r.Reload(factory)
	return true
}

// watchDirs returns the directories to watch for path: the directory itself
// and every subdirectory, or the parent of a single file.
func watchDirs(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{filepath.Dir(path)}, nil
	}

	var dirs []string
	err = filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			dirs = append(dirs, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", path, err)
	}
	return dirs, nil
}
