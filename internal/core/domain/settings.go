package domain

import "fmt"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderGroq is Groq's OpenAI-compatible cloud API.
	AIProviderGroq AIProvider = "groq"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderGroq:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderGroq
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderGroq:
		return "Groq (cloud)"
	default:
		return unknownDescription
	}
}

// DistanceMetric names the similarity space of a vector index.
type DistanceMetric string

// MetricCosine is the only metric the indexes serve.
const MetricCosine DistanceMetric = "cosine"

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions is the output vector length.
	Dimensions int

	// RequestsPerSecond throttles embedding calls. Zero disables throttling.
	RequestsPerSecond float64
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderGroq {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds answer-synthesis provider configuration.
//
// A missing API key does not make the provider unconfigured: the key is
// checked on the first chat request so commands that never ask a question
// keep working.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for Groq/OpenAI).
	APIKey string

	// Temperature is the sampling temperature.
	Temperature float64

	// MaxTokens caps the answer length.
	MaxTokens int
}

// IsConfigured returns true if the LLM provider is set.
func (l LLMSettings) IsConfigured() bool {
	return l.Provider.IsValid()
}

// VectorBackend selects the vector index implementation.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendChromem is a persistent chromem-go database.
	VectorBackendChromem VectorBackend = "chromem"

	// VectorBackendMemory is an in-process index that is lost on exit.
	VectorBackendMemory VectorBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	return b == VectorBackendChromem || b == VectorBackendMemory
}

// VectorSettings holds vector index configuration.
type VectorSettings struct {
	// Backend selects the index implementation.
	Backend VectorBackend

	// IndexName is the collection name.
	IndexName string

	// Dimensions must match the embedding model.
	Dimensions int

	// Metric is the distance space.
	Metric DistanceMetric

	// BatchSize caps the records sent per upsert call.
	BatchSize int

	// Compress gzips persisted vectors (chromem only).
	Compress bool
}

// SearchSettings holds retrieval configuration.
type SearchSettings struct {
	// TopK is the default number of results.
	TopK int

	// EF is the index search breadth passed to the index.
	EF int

	// QueryCacheSize is the number of query embeddings kept in memory.
	QueryCacheSize int
}

// ChunkingSettings holds chunking pipeline configuration.
type ChunkingSettings struct {
	// ChunkSize is the target chunk length in characters.
	ChunkSize int

	// Overlap is the number of trailing segments carried into the next chunk.
	Overlap int

	// SegmentThreshold is the paragraph length above which paragraphs are split.
	SegmentThreshold int

	// Headers overrides the section header vocabulary when non-empty.
	Headers []string
}

// IngestSettings holds ingestion orchestration configuration.
type IngestSettings struct {
	// Parallelism is the number of files processed concurrently.
	Parallelism int

	// ArchiveDir receives a copy of every ingested file.
	ArchiveDir string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Vector    VectorSettings
	Search    SearchSettings
	Chunking  ChunkingSettings
	Ingest    IngestSettings
}

// Validate checks settings for values the services cannot work with.
func (s AppSettings) Validate() error {
	if s.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunking.chunk_size must be positive", ErrInvalidInput)
	}
	if s.Chunking.Overlap < 0 {
		return fmt.Errorf("%w: chunking.overlap must not be negative", ErrInvalidInput)
	}
	if s.Vector.BatchSize <= 0 {
		return fmt.Errorf("%w: vector.batch_size must be positive", ErrInvalidInput)
	}
	if s.Vector.Dimensions <= 0 {
		return fmt.Errorf("%w: vector.dimensions must be positive", ErrInvalidInput)
	}
	if s.Vector.Metric != MetricCosine {
		return fmt.Errorf("%w: %q", ErrUnsupportedMetric, s.Vector.Metric)
	}
	if !s.Vector.Backend.IsValid() {
		return fmt.Errorf("%w: unknown vector backend %q", ErrInvalidInput, s.Vector.Backend)
	}
	if s.Search.TopK <= 0 {
		return fmt.Errorf("%w: search.top_k must be positive", ErrInvalidInput)
	}
	if s.Ingest.Parallelism <= 0 {
		return fmt.Errorf("%w: ingest.parallelism must be positive", ErrInvalidInput)
	}
	return nil
}

// DefaultAppSettings returns the built-in defaults.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOllama,
			Model:      DefaultEmbeddingModels()[AIProviderOllama],
			BaseURL:    "http://localhost:11434",
			Dimensions: 768, // nomic-embed-text
		},
		LLM: LLMSettings{
			Provider:    AIProviderGroq,
			Model:       DefaultLLMModels()[AIProviderGroq],
			Temperature: 0.3,
			MaxTokens:   1024,
		},
		Vector: VectorSettings{
			Backend:    VectorBackendChromem,
			IndexName:  "semantic_search",
			Dimensions: 768,
			Metric:     MetricCosine,
			BatchSize:  500,
		},
		Search: SearchSettings{
			TopK:           5,
			EF:             128,
			QueryCacheSize: 256,
		},
		Chunking: ChunkingSettings{
			ChunkSize:        400,
			Overlap:          0,
			SegmentThreshold: 400,
		},
		Ingest: IngestSettings{
			Parallelism: 1,
			ArchiveDir:  "data",
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support chat completion.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderGroq,
		AIProviderOpenAI,
		AIProviderOllama,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGroq:   "llama-3.1-8b-instant",
		AIProviderOpenAI: "gpt-4o-mini",
		AIProviderOllama: "llama3.2",
	}
}

// DefaultBaseURLs returns the API endpoint for each provider.
func DefaultBaseURLs() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "http://localhost:11434",
		AIProviderOpenAI: "https://api.openai.com/v1",
		AIProviderGroq:   "https://api.groq.com/openai/v1",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// PipelineConfig holds post-processor pipeline configuration.
// Uses generic map-based config so new processors can be added
// without modifying this struct.
type PipelineConfig struct {
	// Processors is the ordered list of processor names to run.
	Processors []string

	// ProcessorConfigs holds per-processor configuration as generic maps.
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns config for a specific processor, or nil if not set.
func (c PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// PipelineConfig returns the post-processor pipeline described by these settings.
func (c ChunkingSettings) PipelineConfig() PipelineConfig {
	cfg := map[string]any{
		"chunk_size":        c.ChunkSize,
		"overlap":           c.Overlap,
		"segment_threshold": c.SegmentThreshold,
	}
	if len(c.Headers) > 0 {
		cfg["headers"] = c.Headers
	}
	return PipelineConfig{
		Processors:       []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{"chunker": cfg},
	}
}
