package driving

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// WatchService ingests the supported files of a directory and keeps
// ingesting new or changed files until cancelled.
type WatchService interface {
	// Watch blocks until ctx is cancelled. onResult, when non-nil, is
	// called for every file processed.
	Watch(ctx context.Context, dir string, onResult func(domain.IngestResult)) error
}
