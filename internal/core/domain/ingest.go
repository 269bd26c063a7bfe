package domain

import "time"

// IngestStatus is the outcome of ingesting one file.
type IngestStatus string

// Ingest outcomes.
const (
	IngestStored         IngestStatus = "stored"
	IngestSkipped        IngestStatus = "skipped"
	IngestNoText         IngestStatus = "no_text"
	IngestChunkingFailed IngestStatus = "chunking_failed"
	IngestFailed         IngestStatus = "failed"
)

// IngestResult reports what happened to one file.
type IngestResult struct {
	Source     string
	DocumentID string
	Status     IngestStatus
	Chunks     int
	Stored     int
	Duration   time.Duration
	Err        error
}

// OK returns true when the file was stored or intentionally skipped.
func (r IngestResult) OK() bool {
	return r.Status == IngestStored || r.Status == IngestSkipped
}

// IngestRecord is a persisted entry of the ingestion log.
type IngestRecord struct {
	Source     string
	DocumentID string
	Chunks     int
	IngestedAt time.Time
}
