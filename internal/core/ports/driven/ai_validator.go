package driven

import "github.com/custodia-labs/sercha-rag/internal/core/domain"

// AIConfigValidator checks AI provider configurations by contacting the
// provider. Used by `settings check`.
type AIConfigValidator interface {
	// ValidateEmbedding pings the embedding provider.
	// Returns nil if the configuration works or is not configured.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateLLM pings the LLM provider.
	// Returns nil if the configuration works or is not configured.
	ValidateLLM(config *domain.LLMSettings) error
}
