package mcp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		mockSearch := &mockSearchService{
			results: []domain.SearchResult{
				{
					ID:         "cv.pdf_chunk_0",
					ChunkID:    "chunk_0",
					Text:       "[Skills] Go, Rust",
					Source:     "cv.pdf",
					Similarity: 0.9123,
				},
			},
		}

		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "skills", TopK: 3})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		require.Len(t, output.Results, 1)
		assert.Equal(t, SearchResultOutput{
			ID:         "cv.pdf_chunk_0",
			ChunkID:    "chunk_0",
			Source:     "cv.pdf",
			Similarity: 0.9123,
			Text:       "[Skills] Go, Rust",
		}, output.Results[0])
		assert.Equal(t, 3, mockSearch.opts.TopK)
	})

	t.Run("zero top_k defers to service default", func(t *testing.T) {
		mockSearch := &mockSearchService{}
		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.Count)
		assert.Zero(t, mockSearch.opts.TopK)
	})

	t.Run("blank query is rejected", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "  "})

		assert.ErrorIs(t, err, ErrEmptyQuery)
	})

	t.Run("returns error on search failure", func(t *testing.T) {
		mockSearch := &mockSearchService{
			err: errors.New("search failed"),
		}

		server, err := NewServer(&Ports{Search: mockSearch})
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{Query: "test"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "search failed")
	})
}

func TestServer_handleAsk(t *testing.T) {
	ctx := context.Background()

	t.Run("returns answer with sources", func(t *testing.T) {
		answer := &mockAnswerService{answer: &domain.Answer{
			Query:   "languages?",
			Text:    "Go and Rust.",
			Results: []domain.SearchResult{{ID: "cv.pdf_chunk_0", Source: "cv.pdf"}},
		}}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Answer: answer})
		require.NoError(t, err)

		_, output, err := server.handleAsk(ctx, nil, AskInput{Question: "languages?"})

		require.NoError(t, err)
		assert.Equal(t, "Go and Rust.", output.Answer)
		require.Len(t, output.Sources, 1)
		assert.Equal(t, "cv.pdf", output.Sources[0].Source)
	})

	t.Run("missing answer service", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "q"})

		assert.ErrorIs(t, err, ErrMissingAnswerService)
	})

	t.Run("propagates errors", func(t *testing.T) {
		answer := &mockAnswerService{err: domain.ErrLLMUnavailable}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Answer: answer})
		require.NoError(t, err)

		_, _, err = server.handleAsk(ctx, nil, AskInput{Question: "q"})

		assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	})
}

func TestServer_handleDocuments(t *testing.T) {
	ctx := context.Background()
	updated := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	t.Run("lists documents", func(t *testing.T) {
		docs := &mockDocumentService{documents: []domain.Document{
			{ID: "doc-1", Source: "cv.pdf", Title: "cv", UpdatedAt: updated},
		}}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Document: docs})
		require.NoError(t, err)

		_, output, err := server.handleListDocuments(ctx, nil, ListDocumentsInput{})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, "cv.pdf", output.Documents[0].Source)
		assert.Equal(t, "2025-03-01T12:00:00Z", output.Documents[0].UpdatedAt)
	})

	t.Run("gets document details", func(t *testing.T) {
		docs := &mockDocumentService{details: &driving.DocumentDetails{
			ID:         "doc-1",
			Source:     "cv.pdf",
			ChunkCount: 2,
			Sections:   []string{"Skills", "Education"},
			UpdatedAt:  updated,
		}}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Document: docs})
		require.NoError(t, err)

		_, output, err := server.handleGetDocument(ctx, nil, GetDocumentInput{ID: "cv.pdf"})

		require.NoError(t, err)
		assert.Equal(t, 2, output.ChunkCount)
		assert.Equal(t, []string{"Skills", "Education"}, output.Sections)
	})

	t.Run("missing document service", func(t *testing.T) {
		server, err := NewServer(&Ports{Search: &mockSearchService{}})
		require.NoError(t, err)

		_, _, err = server.handleListDocuments(ctx, nil, ListDocumentsInput{})
		assert.ErrorIs(t, err, ErrMissingDocumentService)

		_, _, err = server.handleGetDocument(ctx, nil, GetDocumentInput{ID: "x"})
		assert.ErrorIs(t, err, ErrMissingDocumentService)
	})

	t.Run("propagates not found", func(t *testing.T) {
		docs := &mockDocumentService{err: domain.ErrNotFound}
		server, err := NewServer(&Ports{Search: &mockSearchService{}, Document: docs})
		require.NoError(t, err)

		_, _, err = server.handleGetDocument(ctx, nil, GetDocumentInput{ID: "missing"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}
