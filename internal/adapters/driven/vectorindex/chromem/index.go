// Package chromem provides a VectorIndex backed by chromem-go, an embedded
// vector database that persists collections to a local directory.
package chromem

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"

	"github.com/philippgille/chromem-go"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// errNoEmbedder is returned if chromem is ever asked to embed text itself.
var errNoEmbedder = errors.New("chromem: embeddings are supplied by the caller")

// Index stores vectors in a chromem collection. Search is exhaustive, so
// QueryParams.EF is ignored.
type Index struct {
	mu         sync.RWMutex
	db         *chromem.DB
	collection *chromem.Collection
	name       string
	dimensions int
}

// New opens a persistent index under dir. An empty dir keeps everything in
// memory.
func New(dir string, compress bool) (*Index, error) {
	if dir == "" {
		return &Index{db: chromem.NewDB()}, nil
	}
	db, err := chromem.NewPersistentDB(dir, compress)
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", domain.ErrVectorIndexUnavailable, dir, err)
	}
	return &Index{db: db}, nil
}

// EnsureIndex creates or opens the named collection.
func (i *Index) EnsureIndex(_ context.Context, name string, dimensions int, metric domain.DistanceMetric) error {
	if metric != domain.MetricCosine {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedMetric, metric)
	}
	if name == "" || dimensions <= 0 {
		return fmt.Errorf("%w: index needs a name and positive dimensions", domain.ErrInvalidInput)
	}

	i.mu.Lock()
	defer i.mu.Unlock()

	if i.collection != nil && i.name == name {
		if i.dimensions != dimensions {
			return fmt.Errorf("%w: index %s has %d dimensions, requested %d",
				domain.ErrDimensionMismatch, name, i.dimensions, dimensions)
		}
		return nil
	}

	metadata := map[string]string{
		"dimensions": strconv.Itoa(dimensions),
		"metric":     string(metric),
	}
	col, err := i.db.GetOrCreateCollection(name, metadata, noEmbedding)
	if err != nil {
		return fmt.Errorf("%w: collection %s: %w", domain.ErrVectorIndexUnavailable, name, err)
	}

	i.collection = col
	i.name = name
	i.dimensions = dimensions
	return nil
}

func noEmbedding(context.Context, string) ([]float32, error) {
	return nil, errNoEmbedder
}

// Upsert adds records, replacing any with the same ID.
func (i *Index) Upsert(ctx context.Context, records []driven.VectorRecord) error {
	if len(records) == 0 {
		return nil
	}

	i.mu.RLock()
	col, dims := i.collection, i.dimensions
	i.mu.RUnlock()
	if col == nil {
		return fmt.Errorf("%w: index not initialised", domain.ErrVectorIndexUnavailable)
	}

	docs := make([]chromem.Document, len(records))
	for n, rec := range records {
		if len(rec.Vector) != dims {
			return fmt.Errorf("%w: record %s has %d values, index expects %d",
				domain.ErrDimensionMismatch, rec.ID, len(rec.Vector), dims)
		}
		docs[n] = chromem.Document{
			ID:        rec.ID,
			Metadata:  rec.Metadata,
			Embedding: rec.Vector,
			Content:   rec.Metadata[driven.MetaText],
		}
	}

	if err := col.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("%w: upsert: %w", domain.ErrVectorIndexUnavailable, err)
	}
	return nil
}

// Query returns the nearest records by cosine similarity.
func (i *Index) Query(ctx context.Context, vector []float32, topK int, _ driven.QueryParams) ([]driven.VectorMatch, error) {
	i.mu.RLock()
	col, dims := i.collection, i.dimensions
	i.mu.RUnlock()

	if col == nil || topK <= 0 {
		return []driven.VectorMatch{}, nil
	}
	if len(vector) != dims {
		return nil, fmt.Errorf("%w: query has %d values, index expects %d",
			domain.ErrDimensionMismatch, len(vector), dims)
	}

	// chromem rejects n larger than the collection.
	n := min(topK, col.Count())
	if n == 0 {
		return []driven.VectorMatch{}, nil
	}

	results, err := col.QueryEmbedding(ctx, vector, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", domain.ErrVectorIndexUnavailable, err)
	}

	matches := make([]driven.VectorMatch, len(results))
	for n, r := range results {
		matches[n] = driven.VectorMatch{
			ID:         r.ID,
			Similarity: float64(r.Similarity),
			Metadata:   r.Metadata,
		}
	}
	return matches, nil
}

// Delete removes records by ID.
func (i *Index) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}

	i.mu.RLock()
	col := i.collection
	i.mu.RUnlock()
	if col == nil {
		return nil
	}

	if err := col.Delete(ctx, nil, nil, ids...); err != nil {
		return fmt.Errorf("%w: delete: %w", domain.ErrVectorIndexUnavailable, err)
	}
	return nil
}

// Count returns the number of stored records.
func (i *Index) Count(_ context.Context) (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()

	if i.collection == nil {
		return 0, nil
	}
	return i.collection.Count(), nil
}

// Close releases resources. chromem persists on every write.
func (i *Index) Close() error {
	return nil
}
