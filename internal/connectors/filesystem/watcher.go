package filesystem

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure Watcher implements the interface.
var _ driven.FileWatcher = (*Watcher)(nil)

// ErrWatcherClosed is returned by Watch after Close.
var ErrWatcherClosed = errors.New("watcher is closed")

// Watcher reports file changes under watched directories.
type Watcher struct {
	mu       sync.Mutex
	watchers []*fsnotify.Watcher
	closed   bool
}

// NewWatcher creates a new filesystem watcher.
func NewWatcher() *Watcher {
	return &Watcher{}
}

// Watch watches dir and its non-hidden subdirectories. New subdirectories
// are added as they appear.
func (w *Watcher) Watch(ctx context.Context, dir string) (<-chan domain.FileChange, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s does not exist", domain.ErrNotFound, dir)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, dir)
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrWatcherClosed
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		w.mu.Unlock()
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w.watchers = append(w.watchers, fsw)
	w.mu.Unlock()

	if err := addRecursive(fsw, dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	changes := make(chan domain.FileChange)
	go w.loop(ctx, fsw, changes)
	return changes, nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, changes chan<- domain.FileChange) {
	defer close(changes)
	defer fsw.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() && !isHidden(event.Name) {
					if err := addRecursive(fsw, event.Name); err != nil {
						logger.Warn("watch %s: %v", event.Name, err)
					}
				}
			}
			change, ok := handleFsEvent(event)
			if !ok {
				continue
			}
			select {
			case changes <- change:
			case <-ctx.Done():
				return
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher: %v", err)
		}
	}
}

// Close stops all watches. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	for _, fsw := range w.watchers {
		if err := fsw.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	w.watchers = nil
	return errors.Join(errs...)
}

// addRecursive adds dir and every non-hidden directory below it.
func addRecursive(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if rel, _ := filepath.Rel(dir, p); isHidden(rel) {
			return filepath.SkipDir
		}
		if err := fsw.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

// handleFsEvent maps an fsnotify event to a file change. Directories,
// hidden files and permission changes are ignored.
func handleFsEvent(event fsnotify.Event) (domain.FileChange, bool) {
	if isHidden(filepath.Base(event.Name)) {
		return domain.FileChange{}, false
	}

	switch {
	case event.Has(fsnotify.Create):
		if info, err := os.Stat(event.Name); err != nil || info.IsDir() {
			return domain.FileChange{}, false
		}
		return domain.FileChange{Type: domain.ChangeCreated, Path: event.Name}, true
	case event.Has(fsnotify.Write):
		return domain.FileChange{Type: domain.ChangeUpdated, Path: event.Name}, true
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		return domain.FileChange{Type: domain.ChangeDeleted, Path: event.Name}, true
	default:
		return domain.FileChange{}, false
	}
}
