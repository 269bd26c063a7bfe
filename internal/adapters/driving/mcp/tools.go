package mcp

import (
	"context"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// SearchInput is the input schema for the search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the question or phrase to find similar chunks for"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"maximum number of chunks to return (default from settings)"`
}

// SearchOutput is the output schema for the search tool.
type SearchOutput struct {
	Results []SearchResultOutput `json:"results"`
	Count   int                  `json:"count"`
}

// SearchResultOutput represents a single retrieved chunk.
type SearchResultOutput struct {
	ID         string  `json:"id"`
	ChunkID    string  `json:"chunk_id"`
	Source     string  `json:"source"`
	Similarity float64 `json:"similarity"`
	Text       string  `json:"text"`
}

// AskInput is the input schema for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer from the ingested documents"`
	TopK     int    `json:"top_k,omitempty" jsonschema:"number of chunks to ground the answer in"`
}

// AskOutput is the output schema for the ask tool.
type AskOutput struct {
	Answer  string               `json:"answer"`
	Sources []SearchResultOutput `json:"sources"`
}

// ListDocumentsInput is the input schema for the list_documents tool.
type ListDocumentsInput struct{}

// ListDocumentsOutput is the output schema for the list_documents tool.
type ListDocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput summarises an ingested document.
type DocumentOutput struct {
	ID         string   `json:"id"`
	Source     string   `json:"source"`
	Title      string   `json:"title"`
	ChunkCount int      `json:"chunk_count,omitempty"`
	Sections   []string `json:"sections,omitempty"`
	UpdatedAt  string   `json:"updated_at"`
}

// GetDocumentInput is the input schema for the get_document tool.
type GetDocumentInput struct {
	ID string `json:"id" jsonschema:"document ID or source filename"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search",
		Description: "Find the document chunks most similar to a query",
	}, s.handleSearch)

	if s.ports.Answer != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "ask",
			Description: "Answer a question using only the ingested documents",
		}, s.handleAsk)
	}

	if s.ports.Document != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_documents",
			Description: "List all ingested documents",
		}, s.handleListDocuments)

		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "get_document",
			Description: "Show metadata and sections of one ingested document",
		}, s.handleGetDocument)
	}
}

// handleSearch handles the search tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, SearchOutput, error) {
	if strings.TrimSpace(input.Query) == "" {
		return nil, SearchOutput{}, ErrEmptyQuery
	}

	results, err := s.ports.Search.Search(ctx, input.Query, domain.SearchOptions{TopK: input.TopK})
	if err != nil {
		return nil, SearchOutput{}, err
	}

	return nil, SearchOutput{Results: toResultOutputs(results), Count: len(results)}, nil
}

// handleAsk handles the ask tool invocation.
func (s *Server) handleAsk(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input AskInput,
) (*mcp.CallToolResult, AskOutput, error) {
	if s.ports.Answer == nil {
		return nil, AskOutput{}, ErrMissingAnswerService
	}
	if strings.TrimSpace(input.Question) == "" {
		return nil, AskOutput{}, ErrEmptyQuery
	}

	answer, err := s.ports.Answer.Ask(ctx, input.Question, domain.SearchOptions{TopK: input.TopK})
	if err != nil {
		return nil, AskOutput{}, err
	}

	return nil, AskOutput{Answer: answer.Text, Sources: toResultOutputs(answer.Results)}, nil
}

// handleListDocuments handles the list_documents tool invocation.
func (s *Server) handleListDocuments(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListDocumentsInput,
) (*mcp.CallToolResult, ListDocumentsOutput, error) {
	if s.ports.Document == nil {
		return nil, ListDocumentsOutput{}, ErrMissingDocumentService
	}

	docs, err := s.ports.Document.List(ctx)
	if err != nil {
		return nil, ListDocumentsOutput{}, err
	}

	output := ListDocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = DocumentOutput{
			ID:        docs[i].ID,
			Source:    docs[i].Source,
			Title:     docs[i].Title,
			UpdatedAt: docs[i].UpdatedAt.Format(time.RFC3339),
		}
	}

	return nil, output, nil
}

// handleGetDocument handles the get_document tool invocation.
func (s *Server) handleGetDocument(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetDocumentInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	if s.ports.Document == nil {
		return nil, DocumentOutput{}, ErrMissingDocumentService
	}

	details, err := s.ports.Document.GetDetails(ctx, input.ID)
	if err != nil {
		return nil, DocumentOutput{}, err
	}

	return nil, DocumentOutput{
		ID:         details.ID,
		Source:     details.Source,
		Title:      details.Title,
		ChunkCount: details.ChunkCount,
		Sections:   details.Sections,
		UpdatedAt:  details.UpdatedAt.Format(time.RFC3339),
	}, nil
}

func toResultOutputs(results []domain.SearchResult) []SearchResultOutput {
	out := make([]SearchResultOutput, len(results))
	for i := range results {
		out[i] = SearchResultOutput{
			ID:         results[i].ID,
			ChunkID:    results[i].ChunkID,
			Source:     results[i].Source,
			Similarity: results[i].Similarity,
			Text:       results[i].Text,
		}
	}
	return out
}
