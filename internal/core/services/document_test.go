package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func seedDocuments(t *testing.T) *memory.DocumentStore {
	t.Helper()
	ctx := context.Background()
	store := memory.NewDocumentStore()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	require.NoError(t, store.SaveDocument(ctx, &domain.Document{
		ID: "doc-1", Source: "cv.pdf", Title: "cv", URI: "/uploads/cv.pdf",
		Metadata:  map[string]any{"pages": 2, "mime_type": "application/pdf"},
		CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.SaveDocument(ctx, &domain.Document{
		ID: "doc-2", Source: "notes.txt", CreatedAt: now, UpdatedAt: now.Add(time.Hour),
	}))
	require.NoError(t, store.ReplaceChunks(ctx, "doc-1", []domain.Chunk{
		{ID: "chunk_0", Content: "[Skills] Go", Section: "Skills", Position: 0},
		{ID: "chunk_1", Content: "[Skills] Rust", Section: "Skills", Position: 1},
		{ID: "chunk_2", Content: "Plain", Position: 2},
		{ID: "chunk_3", Content: "[Education] BSc", Section: "Education", Position: 3},
	}))
	require.NoError(t, store.RecordIngest(ctx, domain.IngestRecord{
		Source: "cv.pdf", DocumentID: "doc-1", Chunks: 4, IngestedAt: now,
	}))
	return store
}

func TestDocumentService_List(t *testing.T) {
	svc := NewDocumentService(seedDocuments(t))

	docs, err := svc.List(context.Background())

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "notes.txt", docs[0].Source)
}

func TestDocumentService_Get(t *testing.T) {
	svc := NewDocumentService(seedDocuments(t))
	ctx := context.Background()

	byID, err := svc.Get(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "cv.pdf", byID.Source)

	bySource, err := svc.Get(ctx, "cv.pdf")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", bySource.ID)

	_, err = svc.Get(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_GetChunks(t *testing.T) {
	svc := NewDocumentService(seedDocuments(t))

	chunks, err := svc.GetChunks(context.Background(), "cv.pdf")

	require.NoError(t, err)
	require.Len(t, chunks, 4)
	assert.Equal(t, "chunk_0", chunks[0].ID)
}

func TestDocumentService_GetDetails(t *testing.T) {
	svc := NewDocumentService(seedDocuments(t))

	details, err := svc.GetDetails(context.Background(), "doc-1")

	require.NoError(t, err)
	assert.Equal(t, "cv.pdf", details.Source)
	assert.Equal(t, 4, details.ChunkCount)
	assert.Equal(t, []string{"Skills", "Education"}, details.Sections)
	assert.Equal(t, "2", details.Metadata["pages"])
	assert.Equal(t, "application/pdf", details.Metadata["mime_type"])

	_, err = svc.GetDetails(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_History(t *testing.T) {
	svc := NewDocumentService(seedDocuments(t))

	history, err := svc.History(context.Background(), 10)

	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "doc-1", history[0].DocumentID)
}
