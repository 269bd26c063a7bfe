package driving

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// IngestService turns uploaded files into stored chunk vectors.
type IngestService interface {
	// Ingest processes files and reports one result per file, in input order.
	// Files already ingested in this session are skipped. The returned error
	// joins the errors of all failed files.
	Ingest(ctx context.Context, files []domain.RawDocument) ([]domain.IngestResult, error)

	// Reingest is Ingest for files that may have changed. A file already
	// ingested in this session is processed again when its content differs.
	Reingest(ctx context.Context, files []domain.RawDocument) ([]domain.IngestResult, error)

	// Chunk extracts and chunks a file without embedding or storing anything.
	Chunk(ctx context.Context, file domain.RawDocument) ([]domain.Chunk, error)

	// Ingested returns the filenames ingested in this session, sorted.
	Ingested() []string
}
