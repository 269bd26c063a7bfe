// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for ingestion and search to function:
//
//   - Normaliser: Extracts text from an uploaded file (PDF, text, Markdown)
//   - NormaliserRegistry: Selects the normaliser for a MIME type
//   - PostProcessorPipeline: Turns extracted text into chunks
//   - EmbeddingService: Generates vector embeddings
//   - VectorIndex: Stores and queries chunk vectors
//   - DocumentStore: Document, chunk and ingestion log persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Answer synthesis. Without it, only retrieval is available.
//   - PromptStore: Custom prompts. Without it, built-in prompts are used.
//   - FileArchive: Local copies of uploads. Without it, nothing is archived.
//   - FileWatcher: Directory watching for the watch command.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
