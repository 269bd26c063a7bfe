package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/ai"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/archive/local"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/config/env"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-rag/internal/connectors/filesystem"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/services"
	"github.com/custodia-labs/sercha-rag/internal/logger"
	"github.com/custodia-labs/sercha-rag/internal/normalisers"
	"github.com/custodia-labs/sercha-rag/internal/postprocessors"
)

// paths holds the on-disk locations used by the application.
type paths struct {
	configDir string
	dataDir   string
	promptDir string
}

// defaultPaths resolves everything under ~/.sercha-rag.
func defaultPaths() (paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return paths{}, fmt.Errorf("getting home directory: %w", err)
	}
	root := filepath.Join(home, ".sercha-rag")
	return paths{
		configDir: root,
		dataDir:   filepath.Join(root, "data"),
		promptDir: filepath.Join(root, "prompts"),
	}, nil
}

func bootstrap(ctx context.Context, opts cli.Options) (*cli.Services, func(), error) {
	p, err := defaultPaths()
	if err != nil {
		return nil, nil, err
	}
	return build(ctx, p, opts)
}

// build wires adapters into services. The returned function closes
// everything that was opened.
func build(ctx context.Context, p paths, opts cli.Options) (*cli.Services, func(), error) {
	configStore, err := file.NewConfigStore(p.configDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening config: %w", err)
	}
	overlay, err := env.New()
	if err != nil {
		return nil, nil, err
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator(), overlay)

	if opts.SettingsOnly {
		return &cli.Services{Settings: settingsService}, func() {}, nil
	}

	settings, err := settingsService.Get()
	if err != nil {
		return nil, nil, fmt.Errorf("loading settings: %w", err)
	}
	if err := settingsService.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w. Run 'sercha-rag settings show' to review", err)
	}

	var closers []func()
	release := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*cli.Services, func(), error) {
		release()
		return nil, nil, err
	}

	aiResult, err := ai.Init(ctx, settings, p.dataDir, opts.Ephemeral)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, aiResult.Close)
	for _, w := range aiResult.Warnings {
		logger.Warn("%s", w)
	}

	docStore, closeStore, err := openDocumentStore(p.dataDir, opts.Ephemeral)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, closeStore)

	registry := normalisers.NewDefaultRegistry()
	pipeline, err := buildPipeline(settings.Chunking)
	if err != nil {
		return fail(err)
	}

	ingestOpts := []services.IngestOption{
		services.WithDocumentStore(docStore),
		services.WithBatchSize(settings.Vector.BatchSize),
		services.WithParallelism(settings.Ingest.Parallelism),
		services.WithRateLimit(settings.Embedding.RequestsPerSecond),
	}
	if !opts.Ephemeral && settings.Ingest.ArchiveDir != "" {
		ingestOpts = append(ingestOpts, services.WithArchive(local.New(settings.Ingest.ArchiveDir)))
	}
	ingestService := services.NewIngestService(
		registry, pipeline, aiResult.EmbeddingService, aiResult.VectorIndex, ingestOpts...)

	searchService := services.NewSearchService(aiResult.EmbeddingService, aiResult.VectorIndex,
		services.WithSearchDefaults(settings.Search.TopK, settings.Search.EF),
		services.WithQueryCache(settings.Search.QueryCacheSize),
	)

	prompts, err := file.NewPromptStore(p.promptDir)
	if err != nil {
		return fail(err)
	}
	answerService := services.NewAnswerService(aiResult.LLMService, searchService,
		services.WithChatOptions(settings.LLM.Temperature, settings.LLM.MaxTokens),
		services.WithPromptStore(prompts),
	)

	supported := registry.SupportedMIMETypes()
	loader := filesystem.NewLoader(filesystem.WithSupportedTypes(supported...))
	watcher := filesystem.NewWatcher()
	closers = append(closers, func() { watcher.Close() })

	return &cli.Services{
		Ingest:   ingestService,
		Search:   searchService,
		Answer:   answerService,
		Document: services.NewDocumentService(docStore),
		Settings: settingsService,
		Watch:    services.NewWatchService(watcher, loader, ingestService, supported),
		Loader:   loader,
	}, release, nil
}

// openDocumentStore opens the sqlite registry, or an in-memory one when ephemeral.
func openDocumentStore(dataDir string, ephemeral bool) (driven.DocumentStore, func(), error) {
	if ephemeral {
		store := memory.NewDocumentStore()
		return store, func() { store.Close() }, nil
	}

	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("opening document registry: %w", err)
	}
	return store.DocumentStore(), func() { store.Close() }, nil
}

// buildPipeline creates the chunking pipeline from settings.
func buildPipeline(chunking domain.ChunkingSettings) (*postprocessors.Pipeline, error) {
	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	pipeline, err := postprocessors.BuildPipeline(registry, chunking.PipelineConfig())
	if err != nil {
		return nil, fmt.Errorf("building chunking pipeline: %w", err)
	}
	return pipeline, nil
}
