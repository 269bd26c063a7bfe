// Package cli provides the sercha-rag command line interface built on cobra.
package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-rag/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-rag/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

// Global flags.
var (
	verbose   bool
	ephemeral bool
)

// Services bundles everything the commands call into.
type Services struct {
	Ingest   driving.IngestService
	Search   driving.SearchService
	Answer   driving.AnswerService
	Document driving.DocumentService
	Settings driving.SettingsService
	Watch    driving.WatchService
	Loader   driven.DocumentLoader
}

// Options carries the global flags to a Bootstrap function.
type Options struct {
	// Ephemeral keeps the vector index and document registry in memory.
	Ephemeral bool

	// SettingsOnly asks for the settings service alone, so settings can be
	// repaired even when the configured providers or index cannot start.
	SettingsOnly bool
}

// Bootstrap builds the services once flags are parsed.
// The returned function releases whatever the services hold open.
type Bootstrap func(ctx context.Context, opts Options) (*Services, func(), error)

// Service instances used by the commands.
var (
	ingestService   driving.IngestService
	searchService   driving.SearchService
	answerService   driving.AnswerService
	documentService driving.DocumentService
	settingsService driving.SettingsService
	watchService    driving.WatchService
	documentLoader  driven.DocumentLoader
)

var (
	bootstrap Bootstrap
	shutdown  func()
)

// Command annotations read by setupServices.
const (
	skipServicesAnnotation = "skip-services"
	settingsOnlyAnnotation = "settings-only"
)

var rootCmd = &cobra.Command{
	Use:   "sercha-rag",
	Short: "Chunk, embed and question your documents",
	Long: `sercha-rag ingests PDF, Markdown, HTML and text files, splits them into
section-aware chunks, stores their embeddings in a vector index and answers
questions grounded in the retrieved chunks.`,
	SilenceUsage:       true,
	PersistentPreRunE:  setupServices,
	PersistentPostRunE: teardownServices,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false,
		"keep the vector index and document registry in memory for this run")
}

// SetBootstrap registers the function that builds services before a command runs.
func SetBootstrap(b Bootstrap) {
	bootstrap = b
}

// SetServices injects services directly, bypassing Bootstrap.
func SetServices(s *Services) {
	if s == nil {
		s = &Services{}
	}
	ingestService = s.Ingest
	searchService = s.Search
	answerService = s.Answer
	documentService = s.Document
	settingsService = s.Settings
	watchService = s.Watch
	documentLoader = s.Loader
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Close releases services built by Bootstrap. Safe to call more than once.
func Close() {
	teardownServices(nil, nil) //nolint:errcheck // never fails
}

func setupServices(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if bootstrap == nil || hasAnnotation(cmd, skipServicesAnnotation) {
		return nil
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	opts := Options{
		Ephemeral:    ephemeral,
		SettingsOnly: hasAnnotation(cmd, settingsOnlyAnnotation),
	}
	services, release, err := bootstrap(ctx, opts)
	if err != nil {
		return err
	}
	if services == nil {
		return errors.New("bootstrap returned no services")
	}
	SetServices(services)
	shutdown = release
	return nil
}

func teardownServices(_ *cobra.Command, _ []string) error {
	if shutdown != nil {
		shutdown()
		shutdown = nil
	}
	return nil
}

// hasAnnotation reports whether cmd or one of its parents carries the annotation.
func hasAnnotation(cmd *cobra.Command, key string) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[key] == "true" {
			return true
		}
	}
	return false
}

// commandContext returns the command's context, or Background when run
// outside Execute (as some tests do).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
