package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

var chunkJSON bool

var chunkCmd = &cobra.Command{
	Use:   "chunk [file]",
	Short: "Show how a file would be chunked",
	Long: `Extracts text from the file and prints the chunks it produces.
Nothing is embedded or stored.`,
	Args: cobra.ExactArgs(1),
	RunE: runChunk,
}

func init() {
	chunkCmd.Flags().BoolVar(&chunkJSON, "json", false, "output chunks as JSON")
	rootCmd.AddCommand(chunkCmd)
}

// chunkJSONOutput is the JSON shape of a chunk.
type chunkJSONOutput struct {
	ID      string `json:"id"`
	Section string `json:"section,omitempty"`
	Text    string `json:"text"`
}

func runChunk(cmd *cobra.Command, args []string) error {
	if ingestService == nil {
		return errors.New("ingest service not configured")
	}
	if documentLoader == nil {
		return errors.New("document loader not configured")
	}

	ctx := commandContext(cmd)
	raw, err := documentLoader.LoadFile(ctx, args[0])
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	chunks, err := ingestService.Chunk(ctx, *raw)
	if err != nil {
		return fmt.Errorf("chunking failed: %w", err)
	}

	if chunkJSON {
		return outputChunksJSON(cmd, chunks)
	}
	outputChunks(cmd, chunks)
	return nil
}

func outputChunksJSON(cmd *cobra.Command, chunks []domain.Chunk) error {
	out := make([]chunkJSONOutput, len(chunks))
	for i := range chunks {
		out[i] = chunkJSONOutput{
			ID:      chunks[i].ID,
			Section: chunks[i].Section,
			Text:    chunks[i].Content,
		}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal chunks: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputChunks(cmd *cobra.Command, chunks []domain.Chunk) {
	if len(chunks) == 0 {
		cmd.Println("No chunks produced.")
		return
	}

	st := stylesFor(cmd.OutOrStdout())
	for i := range chunks {
		header := chunks[i].ID
		if chunks[i].Section != "" {
			header += " " + st.Label.Render(chunks[i].Section)
		}
		cmd.Println(st.Title.Render(header))
		cmd.Println(chunks[i].Content)
		cmd.Printf("%s\n\n", st.Muted.Render(fmt.Sprintf("(%d characters)", len([]rune(chunks[i].Content)))))
	}
	cmd.Printf("Total: %d chunks\n", len(chunks))
}
