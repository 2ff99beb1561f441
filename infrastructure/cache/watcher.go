package cache

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DirWatcher watches a local content directory and drops the matching
// lesson-content cache entry when a markdown file changes, so edits made
// on disk show up without waiting for TTL expiry.
type DirWatcher struct {
	watcher *fsnotify.Watcher
	caches  *Caches
	dir     string
	prefix  string
	logger  *zap.Logger
}

// NewDirWatcher watches dir. Cache identifiers are formed by joining
// prefix (e.g. "lessons") with the changed file's name.
func NewDirWatcher(dir, prefix string, caches *Caches, logger *zap.Logger) (*DirWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, err
	}

	return &DirWatcher{
		watcher: w,
		caches:  caches,
		dir:     dir,
		prefix:  strings.Trim(prefix, "/"),
		logger:  logger,
	}, nil
}

// Run processes events until the context is cancelled
func (dw *DirWatcher) Run(ctx context.Context) {
	defer dw.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-dw.watcher.Events:
			if !ok {
				return
			}
			dw.handle(event)
		case err, ok := <-dw.watcher.Errors:
			if !ok {
				return
			}
			dw.logger.Warn("content watcher error", zap.Error(err))
		}
	}
}

func (dw *DirWatcher) handle(event fsnotify.Event) {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Remove) {
		return
	}
	if filepath.Ext(event.Name) != ".md" {
		return
	}

	id := path.Join(dw.prefix, filepath.Base(event.Name))
	dw.caches.LessonContent.Remove(id)
	dw.logger.Info("content file changed, cache entry invalidated",
		zap.String("file", event.Name),
		zap.String("cache_id", id))
}
