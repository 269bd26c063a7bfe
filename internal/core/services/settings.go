package services

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDims       = "embedding.dimensions"
	keyEmbedRPS        = "embedding.requests_per_second"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyLLMTemperature  = "llm.temperature"
	keyLLMMaxTokens    = "llm.max_tokens"
	keyVectorBackend   = "vector.backend"
	keyVectorIndex     = "vector.index_name"
	keyVectorDims      = "vector.dimensions"
	keyVectorMetric    = "vector.metric"
	keyVectorBatchSize = "vector.batch_size"
	keyVectorCompress  = "vector.compress"
	keySearchTopK      = "search.top_k"
	keySearchEF        = "search.ef"
	keySearchCache     = "search.query_cache_size"
	keyChunkSize       = "chunking.chunk_size"
	keyChunkOverlap    = "chunking.overlap"
	keyChunkThreshold  = "chunking.segment_threshold"
	keyChunkHeaders    = "chunking.headers"
	keyIngestParallel  = "ingest.parallelism"
	keyIngestArchive   = "ingest.archive_dir"
)

// keyKind is the value type stored under a config key.
type keyKind int

const (
	kindString keyKind = iota
	kindInt
	kindFloat
	kindBool
	kindStrings
)

var settingKinds = map[string]keyKind{
	keyEmbedProvider:   kindString,
	keyEmbedModel:      kindString,
	keyEmbedBaseURL:    kindString,
	keyEmbedAPIKey:     kindString,
	keyEmbedDims:       kindInt,
	keyEmbedRPS:        kindFloat,
	keyLLMProvider:     kindString,
	keyLLMModel:        kindString,
	keyLLMBaseURL:      kindString,
	keyLLMAPIKey:       kindString,
	keyLLMTemperature:  kindFloat,
	keyLLMMaxTokens:    kindInt,
	keyVectorBackend:   kindString,
	keyVectorIndex:     kindString,
	keyVectorDims:      kindInt,
	keyVectorMetric:    kindString,
	keyVectorBatchSize: kindInt,
	keyVectorCompress:  kindBool,
	keySearchTopK:      kindInt,
	keySearchEF:        kindInt,
	keySearchCache:     kindInt,
	keyChunkSize:       kindInt,
	keyChunkOverlap:    kindInt,
	keyChunkThreshold:  kindInt,
	keyChunkHeaders:    kindStrings,
	keyIngestParallel:  kindInt,
	keyIngestArchive:   kindString,
}

type configValue struct {
	key   string
	value any
}

// SettingKeys returns every key accepted by Set, sorted.
func SettingKeys() []string {
	keys := make([]string, 0, len(settingKinds))
	for k := range settingKinds {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// SettingsService manages application settings.
//
// Effective settings are built from the defaults, then the config store,
// then each overlay in order.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	overlays    []driven.SettingsOverlay
}

// NewSettingsService creates a new settings service.
func NewSettingsService(
	configStore driven.ConfigStore,
	aiValidator driven.AIConfigValidator,
	overlays ...driven.SettingsOverlay,
) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		overlays:    overlays,
	}
}

// Keys returns every key accepted by Set, sorted.
func (s *SettingsService) Keys() []string {
	return SettingKeys()
}

// Get retrieves the effective application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	d := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider:          s.getProvider(keyEmbedProvider, d.Embedding.Provider),
			Model:             s.getString(keyEmbedModel, d.Embedding.Model),
			BaseURL:           s.configStore.GetString(keyEmbedBaseURL), // No default - adapters pick one per provider
			APIKey:            s.configStore.GetString(keyEmbedAPIKey),
			RequestsPerSecond: s.getFloat(keyEmbedRPS, d.Embedding.RequestsPerSecond),
		},
		LLM: domain.LLMSettings{
			Provider:    s.getProvider(keyLLMProvider, d.LLM.Provider),
			Model:       s.getString(keyLLMModel, d.LLM.Model),
			BaseURL:     s.configStore.GetString(keyLLMBaseURL), // No default - adapters pick one per provider
			APIKey:      s.configStore.GetString(keyLLMAPIKey),
			Temperature: s.getFloat(keyLLMTemperature, d.LLM.Temperature),
			MaxTokens:   s.getInt(keyLLMMaxTokens, d.LLM.MaxTokens),
		},
		Vector: domain.VectorSettings{
			Backend:   domain.VectorBackend(s.getString(keyVectorBackend, string(d.Vector.Backend))),
			IndexName: s.getString(keyVectorIndex, d.Vector.IndexName),
			Metric:    domain.DistanceMetric(s.getString(keyVectorMetric, string(d.Vector.Metric))),
			BatchSize: s.getInt(keyVectorBatchSize, d.Vector.BatchSize),
			Compress:  s.getBool(keyVectorCompress, d.Vector.Compress),
		},
		Search: domain.SearchSettings{
			TopK:           s.getInt(keySearchTopK, d.Search.TopK),
			EF:             s.getInt(keySearchEF, d.Search.EF),
			QueryCacheSize: s.getInt(keySearchCache, d.Search.QueryCacheSize),
		},
		Chunking: domain.ChunkingSettings{
			ChunkSize:        s.getInt(keyChunkSize, d.Chunking.ChunkSize),
			Overlap:          s.getInt(keyChunkOverlap, d.Chunking.Overlap),
			SegmentThreshold: s.getInt(keyChunkThreshold, d.Chunking.SegmentThreshold),
			Headers:          s.configStore.GetStringSlice(keyChunkHeaders),
		},
		Ingest: domain.IngestSettings{
			Parallelism: s.getInt(keyIngestParallel, d.Ingest.Parallelism),
			ArchiveDir:  s.getString(keyIngestArchive, d.Ingest.ArchiveDir),
		},
	}

	// Dimensions follow the model unless set explicitly.
	embedDims := modelDimensions(settings.Embedding.Model, d.Embedding.Dimensions)
	settings.Embedding.Dimensions = s.getInt(keyEmbedDims, embedDims)
	settings.Vector.Dimensions = s.getInt(keyVectorDims, settings.Embedding.Dimensions)

	for _, overlay := range s.overlays {
		overlay.Apply(settings)
	}

	return settings, nil
}

// Set parses value according to the key's type and stores it.
func (s *SettingsService) Set(key, value string) error {
	kind, ok := settingKinds[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseSetting(kind, value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrInvalidInput, key, err)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

func parseSetting(kind keyKind, value string) (any, error) {
	value = strings.TrimSpace(value)
	switch kind {
	case kindInt:
		return strconv.Atoi(value)
	case kindFloat:
		return strconv.ParseFloat(value, 64)
	case kindBool:
		return strconv.ParseBool(value)
	case kindStrings:
		var out []string
		for _, part := range strings.Split(value, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out, nil
	default:
		return value, nil
	}
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	valid := false
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}

	// Local providers need a base URL, cloud providers use their default.
	baseURL := ""
	if provider.IsLocal() {
		baseURL = s.configStore.GetString(keyEmbedBaseURL)
		if baseURL == "" {
			baseURL = domain.DefaultBaseURLs()[provider]
		}
	}

	values := []configValue{
		{keyEmbedProvider, provider.String()},
		{keyEmbedModel, model},
		{keyEmbedBaseURL, baseURL},
		{keyEmbedAPIKey, apiKey},
	}
	if d, ok := domain.EmbeddingDimensions()[model]; ok {
		values = append(values, configValue{keyEmbedDims, d}, configValue{keyVectorDims, d})
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}

	baseURL := ""
	if provider.IsLocal() {
		baseURL = s.configStore.GetString(keyLLMBaseURL)
		if baseURL == "" {
			baseURL = domain.DefaultBaseURLs()[provider]
		}
	}

	// A missing key is allowed here and reported on the first chat request.
	values := []configValue{
		{keyLLMProvider, provider.String()},
		{keyLLMModel, model},
		{keyLLMBaseURL, baseURL},
		{keyLLMAPIKey, apiKey},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}
	return nil
}

// Validate checks the effective settings.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	if settings.Embedding.Dimensions > 0 && settings.Embedding.Dimensions != settings.Vector.Dimensions {
		return fmt.Errorf("%w: embedding.dimensions %d does not match vector.dimensions %d",
			domain.ErrDimensionMismatch, settings.Embedding.Dimensions, settings.Vector.Dimensions)
	}
	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(&settings.LLM)
}

// Helper methods for reading config with defaults.
// A key that is present wins even when its value is zero.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetInt(key)
}

func (s *SettingsService) getFloat(key string, defaultVal float64) float64 {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetFloat(key)
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

// modelDimensions returns the known vector size of model, or fallback.
func modelDimensions(model string, fallback int) int {
	if d, ok := domain.EmbeddingDimensions()[model]; ok {
		return d
	}
	return fallback
}
