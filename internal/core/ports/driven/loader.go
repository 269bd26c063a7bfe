package driven

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// DocumentLoader reads local files into raw documents.
type DocumentLoader interface {
	// Load reads every supported file named by paths. Directories are
	// walked recursively; hidden entries are skipped. Files are returned
	// in lexical path order.
	Load(ctx context.Context, paths ...string) ([]domain.RawDocument, error)

	// LoadFile reads a single file regardless of filters.
	LoadFile(ctx context.Context, path string) (*domain.RawDocument, error)
}
