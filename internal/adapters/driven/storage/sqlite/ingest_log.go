package sqlite

import (
	"context"
	"fmt"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// RecordIngest appends an entry to the ingestion log.
func (s *documentStore) RecordIngest(ctx context.Context, rec domain.IngestRecord) error {
	if rec.Source == "" {
		return domain.ErrInvalidInput
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO ingest_log (source, document_id, chunks, ingested_at)
		VALUES (?, ?, ?, ?)
	`, rec.Source, rec.DocumentID, rec.Chunks, formatTime(rec.IngestedAt))
	if err != nil {
		return fmt.Errorf("recording ingest: %w", err)
	}
	return nil
}

// ListIngests returns the ingestion log, newest first.
// A limit of zero or less returns everything.
func (s *documentStore) ListIngests(ctx context.Context, limit int) ([]domain.IngestRecord, error) {
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT source, document_id, chunks, ingested_at
		FROM ingest_log
		ORDER BY ingested_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying ingest log: %w", err)
	}
	defer rows.Close()

	records := []domain.IngestRecord{}
	for rows.Next() {
		var rec domain.IngestRecord
		var ingestedAt string
		if err := rows.Scan(&rec.Source, &rec.DocumentID, &rec.Chunks, &ingestedAt); err != nil {
			return nil, fmt.Errorf("scanning ingest record: %w", err)
		}
		rec.IngestedAt = parseTime(ingestedAt)
		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating ingest log: %w", err)
	}

	return records, nil
}
