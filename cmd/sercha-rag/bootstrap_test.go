package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/adapters/driving/cli"
	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func testPaths(t *testing.T) paths {
	t.Helper()
	dir := t.TempDir()
	return paths{
		configDir: dir,
		dataDir:   filepath.Join(dir, "data"),
		promptDir: filepath.Join(dir, "prompts"),
	}
}

func TestBuild_SettingsOnly(t *testing.T) {
	svcs, release, err := build(context.Background(), testPaths(t), cli.Options{SettingsOnly: true})
	require.NoError(t, err)
	defer release()

	assert.NotNil(t, svcs.Settings)
	assert.Nil(t, svcs.Ingest)
	assert.Nil(t, svcs.Search)
}

func TestBuild_Ephemeral(t *testing.T) {
	p := testPaths(t)
	svcs, release, err := build(context.Background(), p, cli.Options{Ephemeral: true})
	require.NoError(t, err)
	defer release()

	assert.NotNil(t, svcs.Ingest)
	assert.NotNil(t, svcs.Search)
	assert.NotNil(t, svcs.Answer)
	assert.NotNil(t, svcs.Document)
	assert.NotNil(t, svcs.Watch)
	assert.NotNil(t, svcs.Loader)

	// Chunking needs no providers.
	chunks, err := svcs.Ingest.Chunk(context.Background(), domain.RawDocument{
		Source:   "cv.txt",
		MIMEType: "text/plain",
		Content:  []byte("Skills\nGo, Rust\n\nEducation\nBSc Computer Science"),
	})
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "[Skills] Go, Rust", chunks[0].Content)

	// Nothing is written to the data directory.
	_, err = os.Stat(filepath.Join(p.dataDir, "metadata.db"))
	assert.True(t, os.IsNotExist(err))
}

func TestBuild_Persistent(t *testing.T) {
	p := testPaths(t)
	svcs, release, err := build(context.Background(), p, cli.Options{})
	require.NoError(t, err)
	defer release()

	docs, err := svcs.Document.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)

	_, err = os.Stat(filepath.Join(p.dataDir, "metadata.db"))
	assert.NoError(t, err)
}

func TestBuild_InvalidSettings(t *testing.T) {
	p := testPaths(t)
	require.NoError(t, os.WriteFile(filepath.Join(p.configDir, "config.toml"),
		[]byte("[chunking]\nchunk_size = 0\n"), 0o600))

	_, _, err := build(context.Background(), p, cli.Options{Ephemeral: true})

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
