package ai

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

// ollamaStub answers /api/tags and returns a vector of n values for embeddings.
func ollamaStub(t *testing.T, n int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			_, _ = w.Write([]byte(`{}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"embedding": make([]float64, n)})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestNewConfigValidator(t *testing.T) {
	validator := NewConfigValidator()
	require.NotNil(t, validator)
	assert.Equal(t, pingTimeout, validator.timeout)

	assert.Equal(t, time.Second, NewConfigValidator(WithValidationTimeout(time.Second)).timeout)
	assert.Equal(t, pingTimeout, NewConfigValidator(WithValidationTimeout(0)).timeout)
}

func TestConfigValidator_NilConfigs(t *testing.T) {
	validator := NewConfigValidator()

	assert.NoError(t, validator.ValidateEmbedding(nil))
	assert.NoError(t, validator.ValidateLLM(nil))
}

func TestConfigValidator_UnconfiguredProvider(t *testing.T) {
	validator := NewConfigValidator()

	assert.NoError(t, validator.ValidateEmbedding(&domain.EmbeddingSettings{Model: "test-model"}))
	assert.NoError(t, validator.ValidateLLM(&domain.LLMSettings{Model: "test-model"}))
}

func TestConfigValidator_ValidateEmbedding(t *testing.T) {
	tests := []struct {
		name    string
		values  int
		wantErr error
	}{
		{name: "matching dimensions", values: 3},
		{name: "dimension mismatch", values: 5, wantErr: domain.ErrDimensionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := ollamaStub(t, tt.values)

			err := NewConfigValidator().ValidateEmbedding(&domain.EmbeddingSettings{
				Provider:   domain.AIProviderOllama,
				BaseURL:    srv.URL,
				Model:      "tiny",
				Dimensions: 3,
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestConfigValidator_ValidateEmbedding_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewConfigValidator().ValidateEmbedding(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		BaseURL:  srv.URL,
		Model:    "tiny",
	})

	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestConfigValidator_ValidateEmbedding_Groq(t *testing.T) {
	err := NewConfigValidator().ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderGroq})

	assert.Error(t, err)
}

func TestConfigValidator_ValidateLLM_MissingKey(t *testing.T) {
	validator := NewConfigValidator()

	err := validator.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderOpenAI})

	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
	assert.Contains(t, err.Error(), "OPENAI_API_KEY")

	err = validator.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderGroq})
	assert.ErrorIs(t, err, domain.ErrMissingCredentials)
}
