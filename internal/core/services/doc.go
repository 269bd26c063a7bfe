// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// The ingest flow is normalise, chunk, embed, upsert and record.
// Search and answer synthesis read from the same vector index.
package services
