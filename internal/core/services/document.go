package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// DocumentService exposes the ingested document registry.
type DocumentService struct {
	docStore driven.DocumentStore
}

// NewDocumentService creates a new document service.
func NewDocumentService(docStore driven.DocumentStore) *DocumentService {
	return &DocumentService{docStore: docStore}
}

// List returns all ingested documents, most recently updated first.
func (s *DocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return s.docStore.ListDocuments(ctx)
}

// Get retrieves a document by ID, falling back to its source filename.
func (s *DocumentService) Get(ctx context.Context, idOrSource string) (*domain.Document, error) {
	doc, err := s.docStore.GetDocument(ctx, idOrSource)
	if errors.Is(err, domain.ErrNotFound) {
		return s.docStore.GetDocumentBySource(ctx, idOrSource)
	}
	return doc, err
}

// GetChunks returns the stored chunks of a document in position order.
func (s *DocumentService) GetChunks(ctx context.Context, idOrSource string) ([]domain.Chunk, error) {
	doc, err := s.Get(ctx, idOrSource)
	if err != nil {
		return nil, err
	}
	return s.docStore.GetChunks(ctx, doc.ID)
}

// GetDetails returns metadata for display.
func (s *DocumentService) GetDetails(ctx context.Context, idOrSource string) (*driving.DocumentDetails, error) {
	doc, err := s.Get(ctx, idOrSource)
	if err != nil {
		return nil, err
	}

	chunks, err := s.docStore.GetChunks(ctx, doc.ID)
	if err != nil {
		return nil, fmt.Errorf("get chunks: %w", err)
	}

	sections := []string{}
	seen := make(map[string]bool)
	for _, c := range chunks {
		if c.Section == "" || seen[c.Section] {
			continue
		}
		seen[c.Section] = true
		sections = append(sections, c.Section)
	}

	// Flatten metadata to string map
	metadata := make(map[string]string, len(doc.Metadata))
	for key, value := range doc.Metadata {
		metadata[key] = fmt.Sprintf("%v", value)
	}

	return &driving.DocumentDetails{
		ID:         doc.ID,
		Source:     doc.Source,
		Title:      doc.Title,
		URI:        doc.URI,
		ChunkCount: len(chunks),
		Sections:   sections,
		CreatedAt:  doc.CreatedAt,
		UpdatedAt:  doc.UpdatedAt,
		Metadata:   metadata,
	}, nil
}

// History returns the ingestion log, newest first.
func (s *DocumentService) History(ctx context.Context, limit int) ([]domain.IngestRecord, error) {
	return s.docStore.ListIngests(ctx, limit)
}
