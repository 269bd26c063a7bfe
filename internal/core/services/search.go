package services

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// Search defaults.
const (
	DefaultTopK           = 5
	DefaultEF             = 128
	DefaultQueryCacheSize = 256
)

// SearchService embeds queries and retrieves the nearest chunks.
type SearchService struct {
	embedder    driven.EmbeddingService
	vectorIndex driven.VectorIndex
	topK        int
	ef          int
	cache       *lru.Cache[string, []float32]
}

// SearchOption configures a SearchService.
type SearchOption func(*SearchService)

// WithSearchDefaults sets the topK and ef used when a query leaves them zero.
func WithSearchDefaults(topK, ef int) SearchOption {
	return func(s *SearchService) {
		if topK > 0 {
			s.topK = topK
		}
		if ef > 0 {
			s.ef = ef
		}
	}
}

// WithQueryCache keeps the embeddings of the last size distinct queries.
// Zero or less disables the cache.
func WithQueryCache(size int) SearchOption {
	return func(s *SearchService) {
		s.cache = nil
		if size > 0 {
			cache, err := lru.New[string, []float32](size)
			if err == nil {
				s.cache = cache
			}
		}
	}
}

// NewSearchService creates a new search service.
func NewSearchService(
	embedder driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	opts ...SearchOption,
) *SearchService {
	s := &SearchService{
		embedder:    embedder,
		vectorIndex: vectorIndex,
		topK:        DefaultTopK,
		ef:          DefaultEF,
	}
	WithQueryCache(DefaultQueryCacheSize)(s)
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Search embeds the query and returns the nearest chunks, most similar first.
// An index failure is logged and yields no results.
func (s *SearchService) Search(
	ctx context.Context,
	query string,
	opts domain.SearchOptions,
) ([]domain.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []domain.SearchResult{}, nil
	}
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.vectorIndex == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = s.topK
	}
	ef := opts.EF
	if ef <= 0 {
		ef = s.ef
	}

	vector, err := s.embedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := s.vectorIndex.Query(ctx, vector, topK, driven.QueryParams{EF: ef})
	if err != nil {
		logger.Error("vector query failed: %v", err)
		return []domain.SearchResult{}, nil
	}

	results := make([]domain.SearchResult, 0, len(matches))
	for _, m := range matches {
		source := m.Metadata[driven.MetaSource]
		if source == "" {
			source = domain.UnknownSource
		}
		results = append(results, domain.SearchResult{
			ID:         m.ID,
			ChunkID:    m.Metadata[driven.MetaChunkID],
			Text:       m.Metadata[driven.MetaText],
			Source:     source,
			Similarity: domain.RoundSimilarity(m.Similarity),
		})
	}

	logger.Debug("search %q: %d result(s)", query, len(results))
	return results, nil
}

func (s *SearchService) embedQuery(ctx context.Context, query string) ([]float32, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(query); ok {
			return v, nil
		}
	}
	v, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		s.cache.Add(query, v)
	}
	return v, nil
}
