package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no normaliser handles a MIME type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNoText indicates extraction produced no usable text.
	ErrNoText = errors.New("no text found")

	// ErrNoChunks indicates chunking produced nothing to store.
	ErrNoChunks = errors.New("chunking failed")

	// ErrAlreadyIngested indicates the file was already ingested in this session.
	ErrAlreadyIngested = errors.New("already ingested")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Answer synthesis is disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrMissingCredentials indicates a required API key is not set.
	// Reported on first use of the service that needs it.
	ErrMissingCredentials = errors.New("missing credentials")

	// ErrDimensionMismatch indicates a vector of unexpected length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrUnsupportedMetric indicates a distance metric the index cannot serve.
	ErrUnsupportedMetric = errors.New("unsupported distance metric")
)
