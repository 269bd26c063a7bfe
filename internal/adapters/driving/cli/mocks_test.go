package cli

import (
	"context"
	"errors"
	"time"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
)

// --- Mock implementations ---

type mockIngestService struct {
	results  []domain.IngestResult
	err      error
	chunks   []domain.Chunk
	chunkErr error
	received []domain.RawDocument
}

func (m *mockIngestService) Ingest(_ context.Context, files []domain.RawDocument) ([]domain.IngestResult, error) {
	m.received = files
	if m.results != nil {
		return m.results, m.err
	}
	results := make([]domain.IngestResult, len(files))
	for i := range files {
		results[i] = domain.IngestResult{
			Source:     files[i].Source,
			DocumentID: "doc-" + files[i].Source,
			Status:     domain.IngestStored,
			Chunks:     2,
			Stored:     2,
			Duration:   15 * time.Millisecond,
		}
	}
	return results, m.err
}

func (m *mockIngestService) Reingest(ctx context.Context, files []domain.RawDocument) ([]domain.IngestResult, error) {
	return m.Ingest(ctx, files)
}

func (m *mockIngestService) Chunk(_ context.Context, _ domain.RawDocument) ([]domain.Chunk, error) {
	return m.chunks, m.chunkErr
}

func (m *mockIngestService) Ingested() []string {
	return nil
}

type mockSearchService struct {
	results []domain.SearchResult
	err     error
	opts    domain.SearchOptions
}

func (m *mockSearchService) Search(_ context.Context, _ string, opts domain.SearchOptions) ([]domain.SearchResult, error) {
	m.opts = opts
	return m.results, m.err
}

type mockAnswerService struct {
	text string
	err  error
}

func (m *mockAnswerService) Answer(_ context.Context, _ string, _ []domain.SearchResult) (string, error) {
	return m.text, m.err
}

func (m *mockAnswerService) Ask(_ context.Context, query string, _ domain.SearchOptions) (*domain.Answer, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Answer{Query: query, Text: m.text}, nil
}

type mockDocumentService struct {
	documents []domain.Document
	details   *driving.DocumentDetails
	chunks    []domain.Chunk
	history   []domain.IngestRecord
	err       error
	lastLimit int
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Get(_ context.Context, idOrSource string) (*domain.Document, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.documents {
		if m.documents[i].ID == idOrSource || m.documents[i].Source == idOrSource {
			return &m.documents[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockDocumentService) GetDetails(_ context.Context, _ string) (*driving.DocumentDetails, error) {
	return m.details, m.err
}

func (m *mockDocumentService) GetChunks(_ context.Context, _ string) ([]domain.Chunk, error) {
	return m.chunks, m.err
}

func (m *mockDocumentService) History(_ context.Context, limit int) ([]domain.IngestRecord, error) {
	m.lastLimit = limit
	return m.history, m.err
}

type mockSettingsService struct {
	settings     domain.AppSettings
	validateErr  error
	setErr       error
	embeddingErr error
	llmErr       error
	set          map[string]string
	provider     domain.AIProvider
	model        string
	apiKey       string
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if m.set == nil {
		m.set = make(map[string]string)
	}
	m.set[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"chunking.chunk_size", "search.top_k"}
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	m.provider, m.model, m.apiKey = provider, model, apiKey
	return m.setErr
}

func (m *mockSettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	m.provider, m.model, m.apiKey = provider, model, apiKey
	return m.setErr
}

func (m *mockSettingsService) Validate() error {
	return m.validateErr
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return m.embeddingErr
}

func (m *mockSettingsService) ValidateLLMConfig() error {
	return m.llmErr
}

type mockWatchService struct {
	results []domain.IngestResult
	err     error
	dir     string
}

func (m *mockWatchService) Watch(_ context.Context, dir string, onResult func(domain.IngestResult)) error {
	m.dir = dir
	for _, r := range m.results {
		onResult(r)
	}
	return m.err
}

type mockLoader struct {
	files []domain.RawDocument
	err   error
	paths []string
}

func (m *mockLoader) Load(_ context.Context, paths ...string) ([]domain.RawDocument, error) {
	m.paths = paths
	return m.files, m.err
}

func (m *mockLoader) LoadFile(_ context.Context, path string) (*domain.RawDocument, error) {
	if m.err != nil {
		return nil, m.err
	}
	for i := range m.files {
		if m.files[i].URI == path {
			return &m.files[i], nil
		}
	}
	return nil, errors.New("no such file")
}

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	ingest   *mockIngestService
	search   *mockSearchService
	answer   *mockAnswerService
	document *mockDocumentService
	settings *mockSettingsService
	watch    *mockWatchService
	loader   *mockLoader
}

var testUpdated = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestServices() *testServices {
	return &testServices{
		ingest: &mockIngestService{},
		search: &mockSearchService{results: []domain.SearchResult{
			{
				ID:         "cv.pdf_chunk_0",
				ChunkID:    "chunk_0",
				Text:       "[Skills] Go, Rust, Python",
				Source:     "cv.pdf",
				Similarity: 0.9123,
			},
		}},
		answer: &mockAnswerService{text: "The candidate knows Go and Rust."},
		document: &mockDocumentService{
			documents: []domain.Document{
				{ID: "doc-1", Source: "cv.pdf", Title: "cv", Content: "Skills\nGo, Rust", UpdatedAt: testUpdated},
			},
			details: &driving.DocumentDetails{
				ID:         "doc-1",
				Source:     "cv.pdf",
				Title:      "cv",
				URI:        "/uploads/cv.pdf",
				ChunkCount: 2,
				Sections:   []string{"Skills", "Education"},
				CreatedAt:  testUpdated,
				UpdatedAt:  testUpdated,
				Metadata:   map[string]string{"pages": "2"},
			},
			chunks: []domain.Chunk{
				{ID: "chunk_0", Section: "Skills", Content: "[Skills] Go, Rust"},
			},
			history: []domain.IngestRecord{
				{Source: "cv.pdf", DocumentID: "doc-1", Chunks: 2, IngestedAt: testUpdated},
			},
		},
		settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
		watch:    &mockWatchService{},
		loader: &mockLoader{files: []domain.RawDocument{
			{Source: "cv.pdf", URI: "/uploads/cv.pdf", MIMEType: "application/pdf"},
		}},
	}
}

func (ts *testServices) install() {
	SetServices(&Services{
		Ingest:   ts.ingest,
		Search:   ts.search,
		Answer:   ts.answer,
		Document: ts.document,
		Settings: ts.settings,
		Watch:    ts.watch,
		Loader:   ts.loader,
	})
}

// setupTestServices installs default mocks and returns a cleanup function.
func setupTestServices() func() {
	cleanup, _ := setupTestServicesWith()
	return cleanup
}

// setupTestServicesWith installs default mocks and returns them for tweaking.
func setupTestServicesWith() (func(), *testServices) {
	old := &Services{
		Ingest:   ingestService,
		Search:   searchService,
		Answer:   answerService,
		Document: documentService,
		Settings: settingsService,
		Watch:    watchService,
		Loader:   documentLoader,
	}

	ts := newTestServices()
	ts.install()

	return func() { SetServices(old) }, ts
}
