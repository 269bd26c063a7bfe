// Package mcp provides an MCP (Model Context Protocol) server adapter for sercha-rag.
// It lets AI assistants search ingested documents and ask grounded questions.
package mcp

import "errors"

var (
	// ErrMissingSearchService is returned when the search service is not provided.
	ErrMissingSearchService = errors.New("mcp: search service is required")

	// ErrMissingAnswerService is returned by the ask tool when answers are disabled.
	ErrMissingAnswerService = errors.New("mcp: answer service is not configured")

	// ErrMissingDocumentService is returned by document tools when the registry is disabled.
	ErrMissingDocumentService = errors.New("mcp: document service is not configured")

	// ErrEmptyQuery is returned when a tool is called without a query.
	ErrEmptyQuery = errors.New("mcp: query is required")
)
