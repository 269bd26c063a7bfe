package driving

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// SearchService provides semantic retrieval to external actors.
type SearchService interface {
	// Search embeds the query and returns the nearest chunks.
	// An empty index yields no results and no error.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
