package domain

import (
	"fmt"
	"time"
)

// Document represents an ingested file with its extracted text.
type Document struct {
	// ID is the unique identifier for the document.
	ID string

	// Source is the original filename.
	Source string

	// URI is the original location (file path).
	URI string

	// Title is the human-readable title.
	Title string

	// Content is the full extracted text before chunking.
	Content string

	// Metadata contains arbitrary key-value pairs (page count, MIME type).
	Metadata map[string]any

	// CreatedAt is when the document was first ingested.
	CreatedAt time.Time

	// UpdatedAt is when the document was last ingested.
	UpdatedAt time.Time
}

// Chunk is the unit stored for embedding.
//
// ID is a local sequence ID ("chunk_0", "chunk_1", ...) that is unique only
// within one chunking run. Use StorageKey for an ID that is unique across
// documents.
type Chunk struct {
	// ID is the sequential chunk ID within one run.
	ID string

	// DocumentID links to the parent Document. Empty for pure chunking runs.
	DocumentID string

	// Content is the packed text, prefixed with "[Label] " when the
	// owning section has a label.
	Content string

	// Section is the owning section's label. Informational only; the label
	// is already part of Content.
	Section string

	// Position is the ordinal position within the document.
	Position int

	// Embedding is the vector representation for semantic search.
	Embedding []float32
}

// ChunkID returns the local ID for the n-th accepted chunk.
func ChunkID(n int) string {
	return fmt.Sprintf("chunk_%d", n)
}

// StorageKey returns the vector index key for a chunk of source.
func StorageKey(source, chunkID string) string {
	return source + "_" + chunkID
}
