package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Ingest a directory and keep it in sync",
	Long: `Ingests every supported file in the directory, then watches it and ingests
files as they are created or modified. Stop with Ctrl+C.

Files already ingested in this session are skipped, so a modified file is only
re-ingested by a new session.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchService == nil {
		return errors.New("watch service not configured")
	}

	dir := args[0]
	st := stylesFor(cmd.OutOrStdout())
	cmd.Printf("Watching %s (Ctrl+C to stop)\n", dir)

	err := watchService.Watch(commandContext(cmd), dir, func(r domain.IngestResult) {
		printIngestResult(cmd, st, r)
	})
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	cmd.Println("Stopped watching.")
	return nil
}
