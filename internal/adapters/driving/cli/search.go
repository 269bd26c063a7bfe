package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

var (
	searchTopK int
	searchJSON bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search ingested documents",
	Long: `Embeds the query and returns the most similar chunks from the vector index,
ranked by cosine similarity.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "maximum number of results (0 = configured default)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

// resultJSON is the JSON shape of a search result.
type resultJSON struct {
	ID         string  `json:"id"`
	ChunkID    string  `json:"chunk_id"`
	Text       string  `json:"text"`
	Source     string  `json:"source"`
	Similarity float64 `json:"similarity"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}

	results, err := searchService.Search(commandContext(cmd), query, domain.SearchOptions{TopK: searchTopK})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, results)
	}

	return outputSearchTable(cmd, results)
}

func toResultJSON(results []domain.SearchResult) []resultJSON {
	out := make([]resultJSON, len(results))
	for i := range results {
		out[i] = resultJSON{
			ID:         results[i].ID,
			ChunkID:    results[i].ChunkID,
			Text:       results[i].Text,
			Source:     results[i].Source,
			Similarity: results[i].Similarity,
		}
	}
	return out
}

func outputSearchJSON(cmd *cobra.Command, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(toResultJSON(results), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Title.Render("Results:"))
	cmd.Println()
	for i := range results {
		// Format: [N] source (similarity)
		cmd.Printf("  [%d] %s %s\n", i+1,
			st.Label.Render(results[i].Source),
			st.Muted.Render(fmt.Sprintf("(%.4f, %s)", results[i].Similarity, results[i].ChunkID)))
		cmd.Printf("      %s\n", preview(results[i].Text, previewLength))
		cmd.Println()
	}

	return nil
}

// previewLength is the number of characters of chunk text shown in tables.
const previewLength = 240

// preview flattens text onto one line and truncates it to n runes.
func preview(text string, n int) string {
	flat := strings.Join(strings.Fields(text), " ")
	runes := []rune(flat)
	if len(runes) <= n {
		return flat
	}
	return string(runes[:n]) + "..."
}
