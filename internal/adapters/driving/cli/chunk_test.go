package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

func TestChunkCmd_PrintsChunks(t *testing.T) {
	cleanup, ts := setupTestServicesWith()
	defer cleanup()
	ts.ingest.chunks = []domain.Chunk{
		{ID: "chunk_0", Section: "Skills", Content: "[Skills] Go, Rust"},
		{ID: "chunk_1", Content: "Unlabelled intro"},
	}

	out, err := executeCommand("chunk", "/uploads/cv.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, "chunk_0 Skills")
	assert.Contains(t, out, "[Skills] Go, Rust")
	assert.Contains(t, out, "(17 characters)")
	assert.Contains(t, out, "Total: 2 chunks")
}

func TestChunkCmd_JSONOutput(t *testing.T) {
	cleanup, ts := setupTestServicesWith()
	defer cleanup()
	ts.ingest.chunks = []domain.Chunk{{ID: "chunk_0", Section: "Skills", Content: "[Skills] Go"}}

	out, err := executeCommand("chunk", "--json", "/uploads/cv.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, `"id": "chunk_0"`)
	assert.Contains(t, out, `"section": "Skills"`)
	assert.Contains(t, out, `"text": "[Skills] Go"`)
}

func TestChunkCmd_NoChunks(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	out, err := executeCommand("chunk", "/uploads/cv.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, "No chunks produced.")
}

func TestChunkCmd_Errors(t *testing.T) {
	cleanup, ts := setupTestServicesWith()
	defer cleanup()

	_, err := executeCommand("chunk", "/uploads/missing.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read file")

	ts.ingest.chunkErr = domain.ErrNoText
	_, err = executeCommand("chunk", "/uploads/cv.pdf")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoText)
}
