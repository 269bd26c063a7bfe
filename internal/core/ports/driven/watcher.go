package driven

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// FileWatcher reports file changes under a directory.
type FileWatcher interface {
	// Watch starts watching dir. The channel is closed when ctx is
	// cancelled or the watcher is closed.
	Watch(ctx context.Context, dir string) (<-chan domain.FileChange, error)

	// Close stops all watches.
	Close() error
}
