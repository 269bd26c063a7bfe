package domain

import "math"

// UnknownSource is reported for results whose metadata lacks a source.
const UnknownSource = "unknown"

// SearchOptions configures a semantic search query.
type SearchOptions struct {
	// TopK is the maximum number of results. Zero uses the configured default.
	TopK int

	// EF is the index search breadth. Zero uses the configured default.
	EF int
}

// SearchResult is a retrieved chunk with its similarity score.
type SearchResult struct {
	// ID is the vector storage key ("{source}_{chunk_id}").
	ID string

	// ChunkID is the local chunk ID.
	ChunkID string

	// Text is the chunk text.
	Text string

	// Source is the original filename.
	Source string

	// Similarity is the cosine similarity, rounded to 4 decimal places.
	Similarity float64
}

// RoundSimilarity rounds a similarity score to 4 decimal places.
func RoundSimilarity(s float64) float64 {
	return math.Round(s*10000) / 10000
}

// Answer is a synthesised response and the chunks it was grounded in.
type Answer struct {
	Query   string
	Text    string
	Results []SearchResult
}
