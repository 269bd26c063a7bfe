// Package ai provides factory functions for creating AI service adapters
// and the vector index they feed.
package ai

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	ollamaembed "github.com/custodia-labs/sercha-rag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/sercha-rag/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/custodia-labs/sercha-rag/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/sercha-rag/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/vectorindex/chromem"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// openAIKeyEnv names the key variable reported for the OpenAI chat provider.
const openAIKeyEnv = "OPENAI_API_KEY"

// InitResult contains the result of AI service initialisation.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	VectorIndex      driven.VectorIndex
	Warnings         []string // Non-fatal issues, e.g. no LLM configured.
}

// Close releases all resources held by InitResult.
func (r *InitResult) Close() {
	if r.EmbeddingService != nil {
		r.EmbeddingService.Close()
	}
	if r.VectorIndex != nil {
		r.VectorIndex.Close()
	}
	if r.LLMService != nil {
		r.LLMService.Close()
	}
}

// Init builds the embedding service, the LLM service and the vector index.
// Nothing is contacted: services fail on first use when unreachable.
// An unusable LLM is a warning because only answer synthesis needs it.
// When ephemeral is true the index lives in memory.
func Init(ctx context.Context, settings *domain.AppSettings, dataDir string, ephemeral bool) (*InitResult, error) {
	result := &InitResult{}

	embedder, err := CreateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEmbeddingUnavailable, err)
	}
	if embedder == nil {
		result.Warnings = append(result.Warnings,
			"embedding provider is not configured; ingest and search are disabled")
	}
	result.EmbeddingService = embedder

	llm, err := CreateLLMService(&settings.LLM)
	if err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf("LLM unavailable: %v", err))
	}
	result.LLMService = llm

	vector := settings.Vector
	if ephemeral {
		vector.Backend = domain.VectorBackendMemory
	}
	index, err := CreateVectorIndex(ctx, vector, dataDir)
	if err != nil {
		result.Close()
		return nil, err
	}
	result.VectorIndex = index

	return result, nil
}

// CreateAndValidateEmbeddingService creates an embedding service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'sercha-rag settings set embedding.provider ...' to fix",
			domain.ErrEmbeddingUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w)", domain.ErrEmbeddingUnavailable, err)
	}

	return svc, nil
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
// Returns nil if the provider is not configured.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, nil
	}
	if settings.Provider == domain.AIProviderGroq {
		return nil, fmt.Errorf("groq does not support embeddings, use ollama or openai")
	}
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAIEmbedding(settings)

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
// Returns nil if the provider is not configured.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderGroq:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			KeyEnv:  openaillm.DefaultKeyEnv,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		baseURL := settings.BaseURL
		if baseURL == "" {
			baseURL = domain.DefaultBaseURLs()[domain.AIProviderOpenAI]
		}
		model := settings.Model
		if model == "" {
			model = domain.DefaultLLMModels()[domain.AIProviderOpenAI]
		}
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			KeyEnv:  openAIKeyEnv,
			BaseURL: baseURL,
			Model:   model,
		}), nil

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", settings.Provider)
	}
}

// CreateVectorIndex opens the configured index and ensures the collection exists.
// The chromem backend persists under dataDir/vectors.
func CreateVectorIndex(ctx context.Context, settings domain.VectorSettings, dataDir string) (driven.VectorIndex, error) {
	var index driven.VectorIndex

	switch settings.Backend {
	case domain.VectorBackendMemory:
		index = memory.NewVectorIndex()

	case domain.VectorBackendChromem:
		dir := ""
		if dataDir != "" {
			dir = filepath.Join(dataDir, "vectors")
		}
		idx, err := chromem.New(dir, settings.Compress)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrVectorIndexUnavailable, err)
		}
		index = idx

	default:
		return nil, fmt.Errorf("%w: unknown vector backend %q", domain.ErrInvalidInput, settings.Backend)
	}

	if err := index.EnsureIndex(ctx, settings.IndexName, settings.Dimensions, settings.Metric); err != nil {
		index.Close()
		return nil, fmt.Errorf("ensure index %s: %w", settings.IndexName, err)
	}
	return index, nil
}

// createOllamaEmbedding creates an Ollama embedding service.
func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: embeddingDimensions(settings, ollamaembed.DefaultDimensions),
	})
}

// createOpenAIEmbedding creates an OpenAI embedding service.
func createOpenAIEmbedding(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
		APIKey:     settings.APIKey,
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: embeddingDimensions(settings, 0),
	})
	if err != nil {
		return nil, err
	}
	return svc, nil
}

// embeddingDimensions prefers the configured value, then the known model size.
func embeddingDimensions(settings *domain.EmbeddingSettings, fallback int) int {
	if settings.Dimensions > 0 {
		return settings.Dimensions
	}
	if d := domain.EmbeddingDimensions()[settings.Model]; d > 0 {
		return d
	}
	return fallback
}
