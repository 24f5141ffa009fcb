package watcher

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Reloader is anything backed by a file that can re-read it, e.g. *bizcard.Template.
type Reloader interface {
	Path() string
	Reload() error
}

// TemplateWatcher reloads the template when its file is written or replaced.
type TemplateWatcher struct {
	watcher  *fsnotify.Watcher
	target   Reloader
	absPath  string
	logger   *zap.SugaredLogger
	onReload func(error)
}

func NewTemplateWatcher(target Reloader, logger *zap.SugaredLogger) (*TemplateWatcher, error) {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	absPath, err := filepath.Abs(target.Path())
	if err != nil {
		return nil, fmt.Errorf("resolve template path: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	// Editors often replace the file instead of writing it, watch the directory
	if err := w.Add(filepath.Dir(absPath)); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(absPath), err)
	}

	return &TemplateWatcher{
		watcher: w,
		target:  target,
		absPath: absPath,
		logger:  logger,
	}, nil
}

// OnReload registers a callback run after every reload attempt.
func (tw *TemplateWatcher) OnReload(fn func(error)) {
	tw.onReload = fn
}

// Run blocks until ctx is done or the watcher is closed.
func (tw *TemplateWatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-tw.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			absPath, _ := filepath.Abs(event.Name)
			if absPath != tw.absPath {
				continue
			}

			err := tw.target.Reload()
			if err != nil {
				tw.logger.Warnw("Failed to reload template, keeping previous page size", "path", tw.absPath, "error", err)
			} else {
				tw.logger.Infow("Template reloaded", "path", tw.absPath)
			}
			if tw.onReload != nil {
				tw.onReload(err)
			}
		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return
			}
			tw.logger.Errorf("Template watcher error: %v", err)
		}
	}
}

func (tw *TemplateWatcher) Close() error {
	return tw.watcher.Close()
}
