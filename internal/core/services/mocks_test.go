package services

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockEmbeddingService implements driven.EmbeddingService for testing.
// Vectors are derived from the text so equal texts embed equally.
type mockEmbeddingService struct {
	mu        sync.Mutex
	dims      int
	embedErr  error
	wrongDims bool
	calls     int
	batches   [][]string
}

func (m *mockEmbeddingService) vector(text string) []float32 {
	dims := m.Dimensions()
	if m.wrongDims {
		dims++
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	seed := h.Sum32()
	v := make([]float32, dims)
	for i := range v {
		v[i] = float32((seed>>(uint(i)%32))&0xff) + 1
	}
	return v
}

func (m *mockEmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbeddingService) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	m.calls++
	m.batches = append(m.batches, append([]string(nil), texts...))
	m.mu.Unlock()
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	result := make([][]float32, len(texts))
	for i, text := range texts {
		result[i] = m.vector(text)
	}
	return result, nil
}

func (m *mockEmbeddingService) Dimensions() int {
	if m.dims > 0 {
		return m.dims
	}
	return 4
}

func (m *mockEmbeddingService) ModelName() string {
	return "mock-embed"
}

func (m *mockEmbeddingService) Ping(_ context.Context) error {
	return nil
}

func (m *mockEmbeddingService) Close() error {
	return nil
}

func (m *mockEmbeddingService) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockLLMService implements driven.LLMService for testing.
type mockLLMService struct {
	reply    string
	chatErr  error
	messages []driven.ChatMessage
	opts     driven.ChatOptions
	calls    int
}

func (m *mockLLMService) Chat(_ context.Context, messages []driven.ChatMessage, opts driven.ChatOptions) (string, error) {
	m.calls++
	m.messages = messages
	m.opts = opts
	if m.chatErr != nil {
		return "", m.chatErr
	}
	return m.reply, nil
}

func (m *mockLLMService) ModelName() string {
	return "mock-llm"
}

func (m *mockLLMService) Ping(_ context.Context) error {
	return nil
}

func (m *mockLLMService) Close() error {
	return nil
}

// mockVectorIndex implements driven.VectorIndex for testing.
type mockVectorIndex struct {
	upsertErr error
	queryErr  error
	matches   []driven.VectorMatch
	upserts   int
	lastTopK  int
	lastEF    int
	deleted   []string
}

func (m *mockVectorIndex) EnsureIndex(_ context.Context, _ string, _ int, _ domain.DistanceMetric) error {
	return nil
}

func (m *mockVectorIndex) Upsert(_ context.Context, _ []driven.VectorRecord) error {
	m.upserts++
	return m.upsertErr
}

func (m *mockVectorIndex) Query(_ context.Context, _ []float32, topK int, params driven.QueryParams) ([]driven.VectorMatch, error) {
	m.lastTopK = topK
	m.lastEF = params.EF
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	if topK < len(m.matches) {
		return m.matches[:topK], nil
	}
	return m.matches, nil
}

func (m *mockVectorIndex) Delete(_ context.Context, ids ...string) error {
	m.deleted = append(m.deleted, ids...)
	return nil
}

func (m *mockVectorIndex) Count(_ context.Context) (int, error) {
	return len(m.matches), nil
}

func (m *mockVectorIndex) Close() error {
	return nil
}

// mockArchive implements driven.FileArchive for testing.
type mockArchive struct {
	mu    sync.Mutex
	err   error
	saved []string
}

func (m *mockArchive) Save(_ context.Context, name string, _ []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.saved = append(m.saved, name)
	return "data/" + name, nil
}

// mockPromptStore implements driven.PromptStore for testing.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

// mockSearchService implements driving.SearchService for testing.
type mockSearchService struct {
	results []domain.SearchResult
	err     error
	query   string
}

func (m *mockSearchService) Search(_ context.Context, query string, _ domain.SearchOptions) ([]domain.SearchResult, error) {
	m.query = query
	return m.results, m.err
}

// mockAIValidator implements driven.AIConfigValidator for testing.
type mockAIValidator struct {
	embeddingErr error
	llmErr       error
	embedding    *domain.EmbeddingSettings
	llm          *domain.LLMSettings
}

func (m *mockAIValidator) ValidateEmbedding(config *domain.EmbeddingSettings) error {
	m.embedding = config
	return m.embeddingErr
}

func (m *mockAIValidator) ValidateLLM(config *domain.LLMSettings) error {
	m.llm = config
	return m.llmErr
}

// mockOverlay implements driven.SettingsOverlay for testing.
type mockOverlay struct {
	apply func(*domain.AppSettings)
}

func (m mockOverlay) Apply(s *domain.AppSettings) {
	m.apply(s)
}

// mockFileWatcher implements driven.FileWatcher for testing.
type mockFileWatcher struct {
	changes chan domain.FileChange
	err     error
}

func (m *mockFileWatcher) Watch(_ context.Context, _ string) (<-chan domain.FileChange, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.changes, nil
}

func (m *mockFileWatcher) Close() error {
	return nil
}

// mockLoader implements driven.DocumentLoader for testing.
type mockLoader struct {
	initial []domain.RawDocument
	files   map[string]domain.RawDocument
	// queued holds successive versions of a file; each LoadFile pops one.
	queued  map[string][]domain.RawDocument
	loadErr error
}

func (m *mockLoader) Load(_ context.Context, _ ...string) ([]domain.RawDocument, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.initial, nil
}

func (m *mockLoader) LoadFile(_ context.Context, path string) (*domain.RawDocument, error) {
	if versions := m.queued[path]; len(versions) > 0 {
		raw := versions[0]
		m.queued[path] = versions[1:]
		return &raw, nil
	}
	raw, ok := m.files[path]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &raw, nil
}

// textFile builds a plain text upload.
func textFile(name, content string) domain.RawDocument {
	return domain.RawDocument{
		Source:   name,
		URI:      "/uploads/" + name,
		MIMEType: "text/plain",
		Content:  []byte(content),
	}
}
