package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AnswerService = (*AnswerService)(nil)

// NoChunksMessage is returned instead of calling the LLM when nothing was retrieved.
const NoChunksMessage = "No relevant document chunks were found. Please upload and process a document first."

// Answer defaults.
const (
	DefaultAnswerTemperature = 0.3
	DefaultAnswerMaxTokens   = 1024
)

// AnswerService synthesises answers grounded in retrieved chunks.
type AnswerService struct {
	llm     driven.LLMService
	search  driving.SearchService
	prompts driven.PromptStore
	chat    driven.ChatOptions
}

// AnswerOption configures an AnswerService.
type AnswerOption func(*AnswerService)

// WithChatOptions sets the sampling temperature and answer length.
func WithChatOptions(temperature float64, maxTokens int) AnswerOption {
	return func(s *AnswerService) {
		if temperature >= 0 {
			s.chat.Temperature = temperature
		}
		if maxTokens > 0 {
			s.chat.MaxTokens = maxTokens
		}
	}
}

// WithPromptStore loads the system prompt from store.
func WithPromptStore(store driven.PromptStore) AnswerOption {
	return func(s *AnswerService) {
		s.prompts = store
	}
}

// NewAnswerService creates a new answer service.
// The llm may be nil, in which case every answer fails with ErrLLMUnavailable.
func NewAnswerService(llm driven.LLMService, search driving.SearchService, opts ...AnswerOption) *AnswerService {
	s := &AnswerService{
		llm:    llm,
		search: search,
		chat: driven.ChatOptions{
			Temperature: DefaultAnswerTemperature,
			MaxTokens:   DefaultAnswerMaxTokens,
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Answer generates an answer from already retrieved chunks.
func (s *AnswerService) Answer(ctx context.Context, query string, chunks []domain.SearchResult) (string, error) {
	if len(chunks) == 0 {
		return NoChunksMessage, nil
	}
	if s.llm == nil {
		return "", domain.ErrLLMUnavailable
	}

	messages := []driven.ChatMessage{
		{Role: driven.RoleSystem, Content: s.systemPrompt()},
		{Role: driven.RoleUser, Content: BuildUserMessage(query, chunks)},
	}

	done := logger.Timer("answer synthesis (%d chunks)", len(chunks))
	text, err := s.llm.Chat(ctx, messages, s.chat)
	done()
	if err != nil {
		return "", fmt.Errorf("chat: %w", err)
	}
	return text, nil
}

// Ask retrieves chunks for the query and answers from them.
func (s *AnswerService) Ask(ctx context.Context, query string, opts domain.SearchOptions) (*domain.Answer, error) {
	if s.search == nil {
		return nil, domain.ErrVectorIndexUnavailable
	}
	results, err := s.search.Search(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	text, err := s.Answer(ctx, query, results)
	if err != nil {
		return nil, err
	}
	return &domain.Answer{Query: query, Text: text, Results: results}, nil
}

func (s *AnswerService) systemPrompt() string {
	if s.prompts == nil {
		return domain.DefaultAnswerSystemPrompt
	}
	prompt, err := s.prompts.Load(driven.PromptAnswerSystem)
	if err != nil || strings.TrimSpace(prompt) == "" {
		if err != nil {
			logger.Warn("load prompt %s: %v", driven.PromptAnswerSystem, err)
		}
		return domain.DefaultAnswerSystemPrompt
	}
	return prompt
}

// BuildContext numbers the chunks from 1 and joins them with blank lines.
func BuildContext(chunks []domain.SearchResult) string {
	parts := make([]string, len(chunks))
	for i, c := range chunks {
		parts[i] = fmt.Sprintf("[Chunk %d] (source: %s, relevance: %.2f)\n%s",
			i+1, c.Source, c.Similarity, c.Text)
	}
	return strings.Join(parts, "\n\n")
}

// BuildUserMessage is the user turn sent to the LLM.
func BuildUserMessage(query string, chunks []domain.SearchResult) string {
	return "Question: " + query + "\n\nRetrieved document chunks:\n" + BuildContext(chunks)
}
