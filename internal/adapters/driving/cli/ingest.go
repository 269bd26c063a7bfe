package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

var ingestJSON bool

var ingestCmd = &cobra.Command{
	Use:   "ingest [paths...]",
	Short: "Ingest files or directories",
	Long: `Extracts text from each file, splits it into section-aware chunks, embeds
the chunks and stores them in the vector index.

Directories are walked recursively and only supported file types are read.
Files already ingested in this session are skipped.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(ingestCmd)
}

// ingestResultJSON is the JSON shape of an ingest result.
type ingestResultJSON struct {
	Source     string `json:"source"`
	DocumentID string `json:"document_id,omitempty"`
	Status     string `json:"status"`
	Chunks     int    `json:"chunks"`
	Stored     int    `json:"stored"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if documentLoader == nil {
		return errors.New("document loader not configured")
	}

	ctx := commandContext(cmd)
	files, err := documentLoader.Load(ctx, args...)
	if err != nil {
		return fmt.Errorf("failed to read files: %w", err)
	}
	if len(files) == 0 {
		cmd.Println("No supported files found.")
		return nil
	}

	// Per-file failures are reported in the results.
	results, _ := ingestService.Ingest(ctx, files) //nolint:errcheck // summarised below

	if ingestJSON {
		if err := outputIngestJSON(cmd, results); err != nil {
			return err
		}
	} else {
		outputIngestTable(cmd, results)
	}

	failed := 0
	for i := range results {
		if !results[i].OK() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(results))
	}
	return nil
}

func outputIngestJSON(cmd *cobra.Command, results []domain.IngestResult) error {
	out := make([]ingestResultJSON, len(results))
	for i := range results {
		out[i] = ingestResultJSON{
			Source:     results[i].Source,
			DocumentID: results[i].DocumentID,
			Status:     string(results[i].Status),
			Chunks:     results[i].Chunks,
			Stored:     results[i].Stored,
			DurationMS: results[i].Duration.Milliseconds(),
		}
		if results[i].Err != nil {
			out[i].Error = results[i].Err.Error()
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputIngestTable(cmd *cobra.Command, results []domain.IngestResult) {
	st := stylesFor(cmd.OutOrStdout())

	stored := 0
	for i := range results {
		printIngestResult(cmd, st, results[i])
		if results[i].Status == domain.IngestStored {
			stored++
		}
	}

	cmd.Println()
	cmd.Printf("Stored %d of %d file(s).\n", stored, len(results))
}

func printIngestResult(cmd *cobra.Command, st *styles, r domain.IngestResult) {
	status := fmt.Sprintf("%-16s", r.Status)
	switch r.Status {
	case domain.IngestStored:
		cmd.Printf("  %s %s %s\n", st.Success.Render(status), r.Source,
			st.Muted.Render(fmt.Sprintf("(%d chunks, %s)", r.Stored, r.Duration.Round(time.Millisecond))))
	case domain.IngestSkipped:
		cmd.Printf("  %s %s %s\n", st.Warning.Render(status), r.Source,
			st.Muted.Render("already ingested this session"))
	default:
		reason := ""
		if r.Err != nil {
			reason = r.Err.Error()
		}
		cmd.Printf("  %s %s %s\n", st.Error.Render(status), r.Source, st.Muted.Render(reason))
	}
}
