package driving

import (
	"context"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// DocumentService exposes the ingested document registry.
type DocumentService interface {
	// List returns all ingested documents.
	List(ctx context.Context) ([]domain.Document, error)

	// Get retrieves a document by ID or source filename.
	Get(ctx context.Context, idOrSource string) (*domain.Document, error)

	// GetDetails returns metadata for display.
	GetDetails(ctx context.Context, idOrSource string) (*DocumentDetails, error)

	// GetChunks returns the stored chunks of a document.
	GetChunks(ctx context.Context, idOrSource string) ([]domain.Chunk, error)

	// History returns the ingestion log, newest first.
	History(ctx context.Context, limit int) ([]domain.IngestRecord, error)
}

// DocumentDetails provides a display view of document metadata.
type DocumentDetails struct {
	// ID is the unique document identifier.
	ID string

	// Source is the original filename.
	Source string

	// Title is the document title.
	Title string

	// URI is the original location.
	URI string

	// ChunkCount is the number of stored chunks.
	ChunkCount int

	// Sections lists distinct section labels in document order.
	Sections []string

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last ingested.
	UpdatedAt time.Time

	// Metadata contains flattened key-value pairs for display.
	Metadata map[string]string
}
