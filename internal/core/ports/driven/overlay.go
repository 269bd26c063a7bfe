package driven

import "github.com/custodia-labs/sercha-rag/internal/core/domain"

// SettingsOverlay applies a configuration layer on top of stored settings,
// such as environment variables.
type SettingsOverlay interface {
	// Apply overwrites the fields this layer sets.
	Apply(settings *domain.AppSettings)
}
