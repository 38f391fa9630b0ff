package render

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/GoCodeAlone/logicalview"
	"github.com/fsnotify/fsnotify"
)

// Watch reloads the templates whenever a file below the configured
// directory changes, until ctx is done. It returns immediately when reload
// is disabled or the templates are embedded.
func (r *Renderer) Watch(ctx context.Context) error {
	if !r.config.Reload || r.config.Dir == "" {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating template watcher: %w", err)
	}
	defer watcher.Close()

	if err := addDirs(watcher, r.config.Dir); err != nil {
		return err
	}

	if r.logger != nil {
		r.logger.Info("Watching templates", "dir", r.config.Dir)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) {
				// New directories need their own watch.
				_ = addDirs(watcher, event.Name)
			}
			if !r.relevant(event) {
				continue
			}
			r.reload(ctx, event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if r.logger != nil {
				r.logger.Error("Template watcher error", "error", err)
			}
		}
	}
}

func (r *Renderer) relevant(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	if strings.HasPrefix(filepath.Base(event.Name), ".") {
		return false
	}
	return filepath.Ext(event.Name) == r.config.Extension
}

func (r *Renderer) reload(ctx context.Context, event fsnotify.Event) {
	if err := r.Load(); err != nil {
		if r.logger != nil {
			r.logger.Error("Failed to reload templates", "file", event.Name, "error", err)
		}
		return
	}

	if r.logger != nil {
		r.logger.Info("Reloaded templates", "file", event.Name, "op", event.Op.String())
	}
	logicalview.Emit(ctx, r.subject, r.logger, logicalview.EventTypeTemplatesReloaded, "render", map[string]any{
		"file":      event.Name,
		"op":        event.Op.String(),
		"templates": len(r.VirtualPaths()),
	})
}

// addDirs watches root and every directory below it.
func addDirs(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && path != root {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}
