package driven

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// Metadata keys stored with every vector record.
const (
	MetaText    = "text"
	MetaSource  = "source"
	MetaChunkID = "chunk_id"
)

// VectorIndex stores chunk vectors and answers nearest-neighbour queries.
type VectorIndex interface {
	// EnsureIndex creates the named index or opens it if it already exists.
	// Calling it again with the same arguments is a no-op.
	EnsureIndex(ctx context.Context, name string, dimensions int, metric domain.DistanceMetric) error

	// Upsert inserts records, overwriting any record with the same ID.
	// Callers are responsible for batching.
	Upsert(ctx context.Context, records []VectorRecord) error

	// Query returns up to topK records ordered by descending similarity.
	// An empty or not yet created index yields no matches and no error.
	Query(ctx context.Context, vector []float32, topK int, params QueryParams) ([]VectorMatch, error)

	// Delete removes the records with the given IDs. Unknown IDs are ignored.
	Delete(ctx context.Context, ids ...string) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Close releases resources.
	Close() error
}

// VectorRecord is one stored vector.
type VectorRecord struct {
	// ID is the storage key, see domain.StorageKey.
	ID string

	// Vector is the embedding.
	Vector []float32

	// Metadata carries MetaText, MetaSource and MetaChunkID.
	Metadata map[string]string
}

// QueryParams tunes a query.
type QueryParams struct {
	// EF is the candidate list size for approximate indexes.
	// Exhaustive indexes ignore it.
	EF int
}

// VectorMatch is one query hit.
type VectorMatch struct {
	// ID is the storage key.
	ID string

	// Similarity is the cosine similarity.
	Similarity float64

	// Metadata is the stored metadata.
	Metadata map[string]string
}
