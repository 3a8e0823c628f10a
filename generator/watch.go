package generator

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/panyam/socdiag/viz"
)

// LoadFunc reloads the figures to render after a change.
type LoadFunc func() ([]*viz.Figure, error)

type WatchOptions struct {
	Debounce time.Duration // 50ms if zero
	// OnBuild, if set, is called after every rebuild, including the first.
	OnBuild func(results []Result, err error)
}

// Watch renders once, then re-renders whenever a document in the
// directories of paths changes, until ctx is done. Load and render errors
// are logged and do not stop watching.
func (g *Generator) Watch(ctx context.Context, paths []string, load LoadFunc, wopts WatchOptions) error {
	if wopts.Debounce <= 0 {
		wopts.Debounce = 50 * time.Millisecond
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Editors replace files by rename, so watch the directories.
	dirs := map[string]bool{}
	for _, p := range paths {
		dir := filepath.Dir(p)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	build := func() {
		figs, err := load()
		var results []Result
		if err == nil {
			results, err = g.Generate(ctx, figs)
		}
		if err != nil {
			g.logger.Error("Rebuild failed", "error", err)
		} else {
			g.logger.Info("Rebuilt diagrams", "files", len(results))
		}
		if wopts.OnBuild != nil {
			wopts.OnBuild(results, err)
		}
	}
	build()

	timer := time.NewTimer(wopts.Debounce)
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
			if !isDocument(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			g.logger.Debug("Change detected", "path", event.Name, "op", event.Op.String())
			timer.Reset(wopts.Debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			g.logger.Error("fsnotify error", "error", err)
		case <-timer.C:
			build()
		}
	}
}

func isDocument(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	return (ext == ".yaml" || ext == ".yml") && !strings.HasPrefix(filepath.Base(name), ".")
}
