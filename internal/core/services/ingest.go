package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.IngestService = (*IngestService)(nil)

// DefaultUpsertBatchSize is the number of vector records sent per upsert.
const DefaultUpsertBatchSize = 500

// IngestService turns uploaded files into stored chunk vectors.
//
// Filenames that were ingested successfully are remembered for the lifetime
// of the service, with a digest of their content, and skipped by later Ingest
// calls. Reingest processes them again when the content changed. A failed
// file is not remembered and can be retried.
type IngestService struct {
	registry    driven.NormaliserRegistry
	pipeline    driven.PostProcessorPipeline
	embedder    driven.EmbeddingService
	vectorIndex driven.VectorIndex

	docStore    driven.DocumentStore
	archive     driven.FileArchive
	limiter     *rate.Limiter
	batchSize   int
	parallelism int
	now         func() time.Time
	newID       func() string

	mu       sync.Mutex
	ingested map[string]string // source -> content digest
	inFlight map[string]struct{}
}

// IngestOption configures an IngestService.
type IngestOption func(*IngestService)

// WithDocumentStore records documents, chunks and the ingestion log.
func WithDocumentStore(store driven.DocumentStore) IngestOption {
	return func(s *IngestService) {
		s.docStore = store
	}
}

// WithArchive keeps a copy of every uploaded file.
func WithArchive(archive driven.FileArchive) IngestOption {
	return func(s *IngestService) {
		s.archive = archive
	}
}

// WithBatchSize sets the number of records per upsert call.
func WithBatchSize(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithParallelism sets how many files are processed at once.
func WithParallelism(n int) IngestOption {
	return func(s *IngestService) {
		if n > 0 {
			s.parallelism = n
		}
	}
}

// WithRateLimit throttles embedding calls to rps requests per second.
// Zero or less disables throttling.
func WithRateLimit(rps float64) IngestOption {
	return func(s *IngestService) {
		if rps > 0 {
			s.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			s.limiter = nil
		}
	}
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) IngestOption {
	return func(s *IngestService) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides how new document IDs are generated.
func WithIDGenerator(newID func() string) IngestOption {
	return func(s *IngestService) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// NewIngestService creates a new ingest service.
// The embedder and vector index may be nil, in which case Ingest fails
// but Chunk still works.
func NewIngestService(
	registry driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	vectorIndex driven.VectorIndex,
	opts ...IngestOption,
) *IngestService {
	s := &IngestService{
		registry:    registry,
		pipeline:    pipeline,
		embedder:    embedder,
		vectorIndex: vectorIndex,
		batchSize:   DefaultUpsertBatchSize,
		parallelism: 1,
		now:         time.Now,
		newID:       uuid.NewString,
		ingested:    make(map[string]string),
		inFlight:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ingest processes files and reports one result per file, in input order.
func (s *IngestService) Ingest(ctx context.Context, files []domain.RawDocument) ([]domain.IngestResult, error) {
	return s.run(ctx, files, false)
}

// Reingest is Ingest for files that may have changed on disk. A file already
// ingested in this session is processed again unless its content is unchanged.
func (s *IngestService) Reingest(ctx context.Context, files []domain.RawDocument) ([]domain.IngestResult, error) {
	return s.run(ctx, files, true)
}

func (s *IngestService) run(ctx context.Context, files []domain.RawDocument, refresh bool) ([]domain.IngestResult, error) {
	if s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}
	if s.vectorIndex == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}

	logger.Section("Ingest")
	done := logger.Timer("ingested %d file(s)", len(files))
	defer done()

	results := make([]domain.IngestResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.parallelism)
	for i := range files {
		g.Go(func() error {
			results[i] = s.ingestOne(gctx, &files[i], refresh)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil && r.Status != domain.IngestSkipped {
			errs = append(errs, fmt.Errorf("%s: %w", r.Source, r.Err))
		}
	}
	return results, errors.Join(errs...)
}

// ingestOne runs a single file through reserve, archive, extract, chunk,
// embed, upsert and record.
func (s *IngestService) ingestOne(
	ctx context.Context,
	raw *domain.RawDocument,
	refresh bool,
) (result domain.IngestResult) {
	start := time.Now()
	source := sourceName(raw)
	digest := contentDigest(raw.Content)
	result.Source = source

	if !s.reserve(source, digest, refresh) {
		logger.Info("%s already ingested, skipping", source)
		result.Status = domain.IngestSkipped
		result.Err = domain.ErrAlreadyIngested
		return result
	}

	stored := false
	defer func() {
		s.release(source, digest, stored)
		result.Duration = time.Since(start)
	}()

	if err := ctx.Err(); err != nil {
		result.Status = domain.IngestFailed
		result.Err = err
		return result
	}

	if s.archive != nil {
		if path, err := s.archive.Save(ctx, source, raw.Content); err != nil {
			logger.Warn("archive %s: %v", source, err)
		} else {
			logger.Debug("archived %s to %s", source, path)
		}
	}

	doc, chunks, status, err := s.extract(ctx, raw)
	if err != nil {
		logger.Warn("%s: %v", source, err)
		result.Status = status
		result.Err = err
		return result
	}
	result.Chunks = len(chunks)

	doc.ID = s.documentID(ctx, source)
	result.DocumentID = doc.ID
	for i := range chunks {
		chunks[i].DocumentID = doc.ID
	}

	previous := s.previousKeys(ctx, doc.ID, source)

	n, err := s.store(ctx, source, chunks)
	result.Stored = n
	if err != nil {
		logger.Error("%s: %v", source, err)
		result.Status = domain.IngestFailed
		result.Err = err
		return result
	}
	s.prune(ctx, source, previous, chunks)

	if err := s.record(ctx, doc, chunks); err != nil {
		logger.Error("%s: %v", source, err)
		result.Status = domain.IngestFailed
		result.Err = err
		return result
	}

	stored = true
	result.Status = domain.IngestStored
	logger.Info("%s: stored %d chunk(s)", source, n)
	return result
}

// extract normalises and chunks a file. On failure the returned status
// says which stage failed.
func (s *IngestService) extract(
	ctx context.Context,
	raw *domain.RawDocument,
) (*domain.Document, []domain.Chunk, domain.IngestStatus, error) {
	normalised, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, nil, domain.IngestFailed, fmt.Errorf("normalise: %w", err)
	}

	doc := normalised.Document
	if doc.Source == "" {
		doc.Source = sourceName(raw)
	}
	if doc.URI == "" {
		doc.URI = raw.URI
	}
	if strings.TrimSpace(doc.Content) == "" {
		return nil, nil, domain.IngestNoText, domain.ErrNoText
	}

	chunks, err := s.pipeline.Process(ctx, &doc)
	if err != nil {
		return nil, nil, domain.IngestFailed, fmt.Errorf("post-process: %w", err)
	}
	if len(chunks) == 0 {
		return nil, nil, domain.IngestChunkingFailed, domain.ErrNoChunks
	}
	return &doc, chunks, domain.IngestStored, nil
}

// store embeds and upserts chunks in batches, in emission order.
// Returns the number of records upserted before any failure.
func (s *IngestService) store(ctx context.Context, source string, chunks []domain.Chunk) (int, error) {
	dims := s.embedder.Dimensions()
	stored := 0

	for start := 0; start < len(chunks); start += s.batchSize {
		end := min(start+s.batchSize, len(chunks))
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}

		if s.limiter != nil {
			if err := s.limiter.Wait(ctx); err != nil {
				return stored, fmt.Errorf("rate limit: %w", err)
			}
		}
		vectors, err := s.embedder.EmbedBatch(ctx, texts)
		if err != nil {
			return stored, fmt.Errorf("embed: %w", err)
		}
		if len(vectors) != len(batch) {
			return stored, fmt.Errorf("embed: got %d vectors for %d chunks", len(vectors), len(batch))
		}

		records := make([]driven.VectorRecord, len(batch))
		for i, c := range batch {
			if len(vectors[i]) != dims {
				return stored, fmt.Errorf("%w: chunk %s has %d dimensions, want %d",
					domain.ErrDimensionMismatch, c.ID, len(vectors[i]), dims)
			}
			records[i] = driven.VectorRecord{
				ID:     domain.StorageKey(source, c.ID),
				Vector: vectors[i],
				Metadata: map[string]string{
					driven.MetaText:    c.Content,
					driven.MetaSource:  source,
					driven.MetaChunkID: c.ID,
				},
			}
		}

		if err := s.vectorIndex.Upsert(ctx, records); err != nil {
			return stored, fmt.Errorf("upsert: %w", err)
		}
		stored += len(records)
		logger.Debug("%s: upserted %d/%d", source, stored, len(chunks))
	}

	return stored, nil
}

// record writes the document, its chunks and a log entry to the document store.
func (s *IngestService) record(ctx context.Context, doc *domain.Document, chunks []domain.Chunk) error {
	if s.docStore == nil {
		return nil
	}

	now := s.now()
	doc.CreatedAt = now
	doc.UpdatedAt = now
	if existing, err := s.docStore.GetDocument(ctx, doc.ID); err == nil {
		doc.CreatedAt = existing.CreatedAt
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	if err := s.docStore.ReplaceChunks(ctx, doc.ID, chunks); err != nil {
		return fmt.Errorf("save chunks: %w", err)
	}
	if err := s.docStore.RecordIngest(ctx, domain.IngestRecord{
		Source:     doc.Source,
		DocumentID: doc.ID,
		Chunks:     len(chunks),
		IngestedAt: now,
	}); err != nil {
		return fmt.Errorf("record ingest: %w", err)
	}
	return nil
}

// documentID reuses the ID of an earlier ingest of the same filename.
func (s *IngestService) documentID(ctx context.Context, source string) string {
	if s.docStore != nil {
		if doc, err := s.docStore.GetDocumentBySource(ctx, source); err == nil {
			return doc.ID
		}
	}
	return s.newID()
}

// reserve claims a filename for processing. Returns false if the file was
// already ingested or is being processed by another goroutine.
// reserve claims source for this call. It fails when the file is in flight,
// or was ingested before and refresh is off or the content is unchanged.
func (s *IngestService) reserve(source, digest string, refresh bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.ingested[source]; ok && (!refresh || prev == digest) {
		return false
	}
	if _, ok := s.inFlight[source]; ok {
		return false
	}
	s.inFlight[source] = struct{}{}
	return true
}

func (s *IngestService) release(source, digest string, stored bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.inFlight, source)
	if stored {
		s.ingested[source] = digest
	}
}

func contentDigest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// previousKeys returns the storage keys of the chunks recorded for a
// document by an earlier ingest.
func (s *IngestService) previousKeys(ctx context.Context, documentID, source string) []string {
	if s.docStore == nil {
		return nil
	}
	chunks, err := s.docStore.GetChunks(ctx, documentID)
	if err != nil {
		return nil
	}
	keys := make([]string, len(chunks))
	for i, c := range chunks {
		keys[i] = domain.StorageKey(source, c.ID)
	}
	return keys
}

// prune deletes vectors of earlier chunks that the new chunking no longer
// produces, so a shrunken document stops matching on removed text.
func (s *IngestService) prune(ctx context.Context, source string, previous []string, chunks []domain.Chunk) {
	if len(previous) == 0 {
		return
	}
	current := make(map[string]bool, len(chunks))
	for _, c := range chunks {
		current[domain.StorageKey(source, c.ID)] = true
	}
	var stale []string
	for _, key := range previous {
		if !current[key] {
			stale = append(stale, key)
		}
	}
	if len(stale) == 0 {
		return
	}
	if err := s.vectorIndex.Delete(ctx, stale...); err != nil {
		logger.Warn("%s: removing %d stale vector(s): %v", source, len(stale), err)
		return
	}
	logger.Debug("%s: removed %d stale vector(s)", source, len(stale))
}

// Chunk extracts and chunks a file without embedding or storing anything.
func (s *IngestService) Chunk(ctx context.Context, file domain.RawDocument) ([]domain.Chunk, error) {
	_, chunks, _, err := s.extract(ctx, &file)
	if errors.Is(err, domain.ErrNoChunks) {
		return []domain.Chunk{}, nil
	}
	if err != nil {
		return nil, err
	}
	return chunks, nil
}

// Ingested returns the filenames ingested in this session, sorted.
func (s *IngestService) Ingested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	names := make([]string, 0, len(s.ingested))
	for name := range s.ingested {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// sourceName is the filename a raw document is tracked under.
func sourceName(raw *domain.RawDocument) string {
	if raw.Source != "" {
		return raw.Source
	}
	return filepath.Base(raw.URI)
}
