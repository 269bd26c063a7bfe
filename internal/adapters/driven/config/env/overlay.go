// Package env overlays environment variables on top of stored settings.
package env

import (
	"fmt"

	"github.com/caarlos0/env/v10"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// Ensure Overlay implements the interface.
var _ driven.SettingsOverlay = (*Overlay)(nil)

// Variables lists the recognised environment variables.
// A nil field means the variable is not set and the stored value is kept.
type Variables struct {
	GroqAPIKey *string `env:"GROQ_API_KEY"`
	GroqModel  *string `env:"GROQ_MODEL"`

	LLMProvider *string `env:"LLM_PROVIDER"`
	LLMBaseURL  *string `env:"LLM_BASE_URL"`

	EmbeddingProvider   *string `env:"EMBEDDING_PROVIDER"`
	EmbeddingModel      *string `env:"EMBEDDING_MODEL"`
	EmbeddingBaseURL    *string `env:"EMBEDDING_BASE_URL"`
	EmbeddingAPIKey     *string `env:"EMBEDDING_API_KEY"`
	EmbeddingDimensions *int    `env:"EMBEDDING_DIMENSIONS"`

	VectorBackend   *string `env:"VECTOR_BACKEND"`
	IndexName       *string `env:"INDEX_NAME"`
	UpsertBatchSize *int    `env:"UPSERT_BATCH_SIZE"`

	TopK *int `env:"TOP_K"`

	ChunkSize    *int `env:"CHUNK_SIZE"`
	ChunkOverlap *int `env:"CHUNK_OVERLAP"`

	DataDir           *string `env:"DATA_DIR"`
	IngestParallelism *int    `env:"INGEST_PARALLELISM"`
}

// Overlay applies environment variables read once at construction.
type Overlay struct {
	vars Variables
}

// New reads the process environment.
func New() (*Overlay, error) {
	var vars Variables
	if err := env.Parse(&vars); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &Overlay{vars: vars}, nil
}

// NewFromMap reads variables from m instead of the process environment.
func NewFromMap(m map[string]string) (*Overlay, error) {
	var vars Variables
	if err := env.ParseWithOptions(&vars, env.Options{Environment: m}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &Overlay{vars: vars}, nil
}

// Variables returns the parsed variables.
func (o *Overlay) Variables() Variables {
	return o.vars
}

// Apply overwrites every setting whose variable is set.
// The embedding dimensions also set the vector index dimensions.
func (o *Overlay) Apply(s *domain.AppSettings) {
	v := o.vars

	setString(&s.LLM.APIKey, v.GroqAPIKey)
	setString(&s.LLM.Model, v.GroqModel)
	setString(&s.LLM.BaseURL, v.LLMBaseURL)
	if v.LLMProvider != nil {
		s.LLM.Provider = domain.AIProvider(*v.LLMProvider)
	}

	if v.EmbeddingProvider != nil {
		s.Embedding.Provider = domain.AIProvider(*v.EmbeddingProvider)
	}
	setString(&s.Embedding.Model, v.EmbeddingModel)
	setString(&s.Embedding.BaseURL, v.EmbeddingBaseURL)
	setString(&s.Embedding.APIKey, v.EmbeddingAPIKey)
	if v.EmbeddingDimensions != nil {
		s.Embedding.Dimensions = *v.EmbeddingDimensions
		s.Vector.Dimensions = *v.EmbeddingDimensions
	}

	if v.VectorBackend != nil {
		s.Vector.Backend = domain.VectorBackend(*v.VectorBackend)
	}
	setString(&s.Vector.IndexName, v.IndexName)
	setInt(&s.Vector.BatchSize, v.UpsertBatchSize)

	setInt(&s.Search.TopK, v.TopK)

	setInt(&s.Chunking.ChunkSize, v.ChunkSize)
	setInt(&s.Chunking.Overlap, v.ChunkOverlap)

	setString(&s.Ingest.ArchiveDir, v.DataDir)
	setInt(&s.Ingest.Parallelism, v.IngestParallelism)
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}
