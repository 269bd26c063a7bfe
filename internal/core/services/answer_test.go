package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
)

func sampleResults() []domain.SearchResult {
	return []domain.SearchResult{
		{ID: "cv.pdf_chunk_0", ChunkID: "chunk_0", Text: "[Skills] Go, Rust", Source: "cv.pdf", Similarity: 0.9123},
		{ID: "cv.pdf_chunk_1", ChunkID: "chunk_1", Text: "[Education] BSc", Source: "cv.pdf", Similarity: 0.5},
	}
}

func TestBuildContext(t *testing.T) {
	got := BuildContext(sampleResults())

	want := "[Chunk 1] (source: cv.pdf, relevance: 0.91)\n[Skills] Go, Rust\n\n" +
		"[Chunk 2] (source: cv.pdf, relevance: 0.50)\n[Education] BSc"
	assert.Equal(t, want, got)
}

func TestBuildUserMessage(t *testing.T) {
	got := BuildUserMessage("What languages?", sampleResults()[:1])

	assert.Equal(t,
		"Question: What languages?\n\nRetrieved document chunks:\n"+
			"[Chunk 1] (source: cv.pdf, relevance: 0.91)\n[Skills] Go, Rust",
		got)
}

func TestAnswerService_Answer_NoChunks(t *testing.T) {
	llm := &mockLLMService{reply: "should not be used"}
	svc := NewAnswerService(llm, nil)

	answer, err := svc.Answer(context.Background(), "anything", nil)

	require.NoError(t, err)
	assert.Equal(t, NoChunksMessage, answer)
	assert.Zero(t, llm.calls)
}

func TestAnswerService_Answer(t *testing.T) {
	llm := &mockLLMService{reply: "Go and Rust."}
	svc := NewAnswerService(llm, nil)

	answer, err := svc.Answer(context.Background(), "What languages?", sampleResults())

	require.NoError(t, err)
	assert.Equal(t, "Go and Rust.", answer)
	require.Len(t, llm.messages, 2)
	assert.Equal(t, driven.RoleSystem, llm.messages[0].Role)
	assert.Equal(t, domain.DefaultAnswerSystemPrompt, llm.messages[0].Content)
	assert.Equal(t, driven.RoleUser, llm.messages[1].Role)
	assert.Equal(t, BuildUserMessage("What languages?", sampleResults()), llm.messages[1].Content)
	assert.InDelta(t, 0.3, llm.opts.Temperature, 1e-9)
	assert.Equal(t, 1024, llm.opts.MaxTokens)
}

func TestAnswerService_Answer_PromptStore(t *testing.T) {
	tests := []struct {
		name  string
		store *mockPromptStore
		want  string
	}{
		{
			name:  "custom prompt",
			store: &mockPromptStore{prompts: map[string]string{driven.PromptAnswerSystem: "Be brief."}},
			want:  "Be brief.",
		},
		{
			name:  "blank prompt falls back",
			store: &mockPromptStore{prompts: map[string]string{driven.PromptAnswerSystem: "  "}},
			want:  domain.DefaultAnswerSystemPrompt,
		},
		{
			name:  "load error falls back",
			store: &mockPromptStore{err: errors.New("permission denied")},
			want:  domain.DefaultAnswerSystemPrompt,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			llm := &mockLLMService{reply: "ok"}
			svc := NewAnswerService(llm, nil, WithPromptStore(tt.store))

			_, err := svc.Answer(context.Background(), "q", sampleResults())

			require.NoError(t, err)
			assert.Equal(t, tt.want, llm.messages[0].Content)
		})
	}
}

func TestAnswerService_Answer_ChatOptions(t *testing.T) {
	llm := &mockLLMService{reply: "ok"}
	svc := NewAnswerService(llm, nil, WithChatOptions(0.7, 256))

	_, err := svc.Answer(context.Background(), "q", sampleResults())

	require.NoError(t, err)
	assert.InDelta(t, 0.7, llm.opts.Temperature, 1e-9)
	assert.Equal(t, 256, llm.opts.MaxTokens)
}

func TestAnswerService_Answer_Errors(t *testing.T) {
	_, err := NewAnswerService(nil, nil).Answer(context.Background(), "q", sampleResults())
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)

	llm := &mockLLMService{chatErr: domain.ErrMissingCredentials}
	_, err = NewAnswerService(llm, nil).Answer(context.Background(), "q", sampleResults())
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
}

func TestAnswerService_Ask(t *testing.T) {
	search := &mockSearchService{results: sampleResults()}
	llm := &mockLLMService{reply: "Go and Rust."}
	svc := NewAnswerService(llm, search)

	answer, err := svc.Ask(context.Background(), "What languages?", domain.SearchOptions{TopK: 2})

	require.NoError(t, err)
	assert.Equal(t, "What languages?", search.query)
	assert.Equal(t, "Go and Rust.", answer.Text)
	assert.Equal(t, sampleResults(), answer.Results)
}

func TestAnswerService_Ask_NothingRetrieved(t *testing.T) {
	svc := NewAnswerService(nil, &mockSearchService{results: []domain.SearchResult{}})

	answer, err := svc.Ask(context.Background(), "q", domain.SearchOptions{})

	require.NoError(t, err)
	assert.Equal(t, NoChunksMessage, answer.Text)
}

func TestAnswerService_Ask_SearchError(t *testing.T) {
	svc := NewAnswerService(&mockLLMService{}, &mockSearchService{err: domain.ErrEmbeddingUnavailable})

	_, err := svc.Ask(context.Background(), "q", domain.SearchOptions{})

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}
