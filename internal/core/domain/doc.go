// Package domain defines the core business entities for sercha-rag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: Uploaded bytes plus the original filename
//   - Document: An ingested document and its extracted text
//   - Section: A labelled region of a document
//   - Chunk: A packed, deduplicated unit prepared for embedding
//   - SearchResult: A retrieved chunk with its similarity score
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
