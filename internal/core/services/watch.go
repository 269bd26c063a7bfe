package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure WatchService implements the interface.
var _ driving.WatchService = (*WatchService)(nil)

// WatchService feeds a directory into an IngestService.
type WatchService struct {
	watcher   driven.FileWatcher
	loader    driven.DocumentLoader
	ingest    driving.IngestService
	supported map[string]bool
}

// NewWatchService creates a watch service that only ingests files whose
// MIME type is listed in mimeTypes.
func NewWatchService(
	watcher driven.FileWatcher,
	loader driven.DocumentLoader,
	ingest driving.IngestService,
	mimeTypes []string,
) *WatchService {
	supported := make(map[string]bool, len(mimeTypes))
	for _, m := range mimeTypes {
		supported[m] = true
	}
	return &WatchService{
		watcher:   watcher,
		loader:    loader,
		ingest:    ingest,
		supported: supported,
	}
}

// Watch ingests the files already in dir, then every created or updated
// file until ctx is cancelled. An updated file is ingested again when its
// content changed. Per-file failures are reported through
// onResult and logged; they never stop the watch.
func (s *WatchService) Watch(ctx context.Context, dir string, onResult func(domain.IngestResult)) error {
	changes, err := s.watcher.Watch(ctx, dir)
	if err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	existing, err := s.loader.Load(ctx, dir)
	if err != nil {
		return fmt.Errorf("load %s: %w", dir, err)
	}
	s.process(ctx, existing, onResult, s.ingest.Ingest)

	logger.Info("watching %s", dir)
	for change := range changes {
		if change.Type == domain.ChangeDeleted {
			logger.Debug("ignoring removal of %s", change.Path)
			continue
		}

		raw, err := s.loader.LoadFile(ctx, change.Path)
		if err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Warn("load %s: %v", change.Path, err)
			}
			continue
		}
		if !s.supported[raw.MIMEType] {
			logger.Debug("skipping %s (%s)", change.Path, raw.MIMEType)
			continue
		}
		s.process(ctx, []domain.RawDocument{*raw}, onResult, s.ingest.Reingest)
	}

	if err := ctx.Err(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

type ingestFunc func(context.Context, []domain.RawDocument) ([]domain.IngestResult, error)

func (s *WatchService) process(
	ctx context.Context,
	files []domain.RawDocument,
	onResult func(domain.IngestResult),
	ingest ingestFunc,
) {
	if len(files) == 0 {
		return
	}
	results, err := ingest(ctx, files)
	if err != nil && len(results) == 0 {
		logger.Error("ingest: %v", err)
		return
	}
	for _, r := range results {
		if onResult != nil {
			onResult(r)
		}
	}
}
