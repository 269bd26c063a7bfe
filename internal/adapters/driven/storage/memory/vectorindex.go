package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure VectorIndex implements the interface.
var _ driven.VectorIndex = (*VectorIndex)(nil)

// VectorIndex is an exhaustive in-memory cosine index.
// Contents are lost when the process exits.
type VectorIndex struct {
	mu         sync.RWMutex
	name       string
	dimensions int
	records    map[string]driven.VectorRecord
}

// NewVectorIndex creates an empty in-memory index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{}
}

// EnsureIndex creates the index or accepts an identical existing one.
func (v *VectorIndex) EnsureIndex(_ context.Context, name string, dimensions int, metric domain.DistanceMetric) error {
	if metric != domain.MetricCosine {
		return fmt.Errorf("%w: %q", domain.ErrUnsupportedMetric, metric)
	}
	if name == "" || dimensions <= 0 {
		return fmt.Errorf("%w: index needs a name and positive dimensions", domain.ErrInvalidInput)
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.records != nil {
		if v.dimensions != dimensions {
			return fmt.Errorf("%w: index %s has %d dimensions, requested %d",
				domain.ErrDimensionMismatch, v.name, v.dimensions, dimensions)
		}
		return nil
	}
	v.name = name
	v.dimensions = dimensions
	v.records = make(map[string]driven.VectorRecord)
	return nil
}

// Upsert inserts records, overwriting any record with the same ID.
func (v *VectorIndex) Upsert(_ context.Context, records []driven.VectorRecord) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.records == nil {
		return fmt.Errorf("%w: index not created", domain.ErrVectorIndexUnavailable)
	}
	for _, r := range records {
		if len(r.Vector) != v.dimensions {
			return fmt.Errorf("%w: record %s has %d dimensions, want %d",
				domain.ErrDimensionMismatch, r.ID, len(r.Vector), v.dimensions)
		}
	}
	for _, r := range records {
		vec := make([]float32, len(r.Vector))
		copy(vec, r.Vector)
		meta := make(map[string]string, len(r.Metadata))
		for k, val := range r.Metadata {
			meta[k] = val
		}
		v.records[r.ID] = driven.VectorRecord{ID: r.ID, Vector: vec, Metadata: meta}
	}
	return nil
}

// Query scores every record and returns the best topK.
// Ties are broken by ID so results are stable.
func (v *VectorIndex) Query(_ context.Context, vector []float32, topK int, _ driven.QueryParams) ([]driven.VectorMatch, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	if len(v.records) == 0 || topK <= 0 {
		return []driven.VectorMatch{}, nil
	}
	if len(vector) != v.dimensions {
		return nil, fmt.Errorf("%w: query has %d dimensions, want %d",
			domain.ErrDimensionMismatch, len(vector), v.dimensions)
	}

	matches := make([]driven.VectorMatch, 0, len(v.records))
	for id, r := range v.records {
		matches = append(matches, driven.VectorMatch{
			ID:         id,
			Similarity: cosine(vector, r.Vector),
			Metadata:   r.Metadata,
		})
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Similarity != matches[j].Similarity {
			return matches[i].Similarity > matches[j].Similarity
		}
		return matches[i].ID < matches[j].ID
	})
	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Delete removes records by ID.
func (v *VectorIndex) Delete(_ context.Context, ids ...string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	for _, id := range ids {
		delete(v.records, id)
	}
	return nil
}

// Count returns the number of stored records.
func (v *VectorIndex) Count(_ context.Context) (int, error) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return len(v.records), nil
}

// Close releases resources (no-op for memory index).
func (v *VectorIndex) Close() error {
	return nil
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
