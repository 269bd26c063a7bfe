package driving

import (
	"context"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// AnswerService synthesises answers grounded in retrieved chunks.
type AnswerService interface {
	// Answer generates an answer from already retrieved chunks.
	// An empty chunk list yields a fixed message without calling the LLM.
	Answer(ctx context.Context, query string, chunks []domain.SearchResult) (string, error)

	// Ask retrieves chunks for the query and answers from them.
	Ask(ctx context.Context, query string, opts domain.SearchOptions) (*domain.Answer, error)
}
