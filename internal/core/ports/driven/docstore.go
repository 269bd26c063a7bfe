package driven

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// DocumentStore persists ingested documents, their chunks and the ingestion log.
// Backed by SQLite for metadata storage.
type DocumentStore interface {
	// SaveDocument stores or updates a document.
	SaveDocument(ctx context.Context, doc *domain.Document) error

	// ReplaceChunks stores chunks for a document, removing any previous ones.
	ReplaceChunks(ctx context.Context, documentID string, chunks []domain.Chunk) error

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// GetDocumentBySource retrieves the document ingested from a filename.
	GetDocumentBySource(ctx context.Context, source string) (*domain.Document, error)

	// GetChunks retrieves all chunks for a document in position order.
	GetChunks(ctx context.Context, documentID string) ([]domain.Chunk, error)

	// DeleteDocument removes a document and its chunks.
	DeleteDocument(ctx context.Context, id string) error

	// ListDocuments returns all documents, most recently updated first.
	ListDocuments(ctx context.Context) ([]domain.Document, error)

	// RecordIngest appends an entry to the ingestion log.
	RecordIngest(ctx context.Context, rec domain.IngestRecord) error

	// ListIngests returns the ingestion log, newest first.
	ListIngests(ctx context.Context, limit int) ([]domain.IngestRecord, error)

	// Close releases resources.
	Close() error
}
