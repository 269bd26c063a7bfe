package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func TestWatchService_Watch(t *testing.T) {
	f := newIngestFixture(t)
	changes := make(chan domain.FileChange)
	zipFile := textFile("archive.zip", "PK")
	zipFile.MIMEType = "application/zip"
	loader := &mockLoader{
		initial: []domain.RawDocument{textFile("existing.txt", resumeText)},
		files: map[string]domain.RawDocument{
			"/in/new.txt":     textFile("new.txt", "Projects\nSearch engine"),
			"/in/archive.zip": zipFile,
		},
	}
	svc := NewWatchService(&mockFileWatcher{changes: changes}, loader, f.svc, []string{"text/plain"})

	var mu sync.Mutex
	var results []domain.IngestResult
	onResult := func(r domain.IngestResult) {
		mu.Lock()
		defer mu.Unlock()
		results = append(results, r)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() {
		done <- svc.Watch(ctx, "/in", onResult)
	}()

	changes <- domain.FileChange{Type: domain.ChangeCreated, Path: "/in/new.txt"}
	changes <- domain.FileChange{Type: domain.ChangeUpdated, Path: "/in/new.txt"}
	changes <- domain.FileChange{Type: domain.ChangeCreated, Path: "/in/archive.zip"}
	changes <- domain.FileChange{Type: domain.ChangeDeleted, Path: "/in/existing.txt"}
	changes <- domain.FileChange{Type: domain.ChangeCreated, Path: "/in/vanished.txt"}
	close(changes)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, results, 3)
	assert.Equal(t, "existing.txt", results[0].Source)
	assert.Equal(t, domain.IngestStored, results[0].Status)
	assert.Equal(t, "new.txt", results[1].Source)
	assert.Equal(t, domain.IngestStored, results[1].Status)
	assert.Equal(t, domain.IngestSkipped, results[2].Status)
	assert.Equal(t, []string{"existing.txt", "new.txt"}, f.svc.Ingested())
}

func TestWatchService_Watch_ReingestsChangedFile(t *testing.T) {
	f := newIngestFixture(t)
	changes := make(chan domain.FileChange)
	loader := &mockLoader{
		queued: map[string][]domain.RawDocument{
			"/in/cv.txt": {
				textFile("cv.txt", resumeText),
				textFile("cv.txt", "Skills\nGo, Rust, Zig"),
			},
		},
	}
	svc := NewWatchService(&mockFileWatcher{changes: changes}, loader, f.svc, []string{"text/plain"})

	var results []domain.IngestResult
	done := make(chan error, 1)
	go func() {
		done <- svc.Watch(context.Background(), "/in", func(r domain.IngestResult) {
			results = append(results, r)
		})
	}()

	changes <- domain.FileChange{Type: domain.ChangeCreated, Path: "/in/cv.txt"}
	changes <- domain.FileChange{Type: domain.ChangeUpdated, Path: "/in/cv.txt"}
	close(changes)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return")
	}

	require.Len(t, results, 2)
	assert.Equal(t, domain.IngestStored, results[0].Status)
	assert.Equal(t, 2, results[0].Stored)
	assert.Equal(t, domain.IngestStored, results[1].Status)
	assert.Equal(t, 1, results[1].Stored)

	count, err := f.index.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestWatchService_Watch_Errors(t *testing.T) {
	f := newIngestFixture(t)

	svc := NewWatchService(&mockFileWatcher{err: domain.ErrNotFound}, &mockLoader{}, f.svc, nil)
	err := svc.Watch(context.Background(), "/missing", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	changes := make(chan domain.FileChange)
	close(changes)
	svc = NewWatchService(&mockFileWatcher{changes: changes}, &mockLoader{loadErr: errors.New("denied")}, f.svc, nil)
	err = svc.Watch(context.Background(), "/in", nil)
	assert.ErrorContains(t, err, "denied")
}

func TestWatchService_Watch_StopsOnCancel(t *testing.T) {
	f := newIngestFixture(t)
	changes := make(chan domain.FileChange)
	svc := NewWatchService(&mockFileWatcher{changes: changes}, &mockLoader{}, f.svc, []string{"text/plain"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- svc.Watch(ctx, "/in", nil)
	}()

	cancel()
	close(changes)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not return")
	}
}
