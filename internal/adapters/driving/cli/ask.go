package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-rag/internal/core/domain"
)

var (
	askTopK int
	askJSON bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Answer a question from the ingested documents",
	Long: `Retrieves the chunks most similar to the question and asks the configured
LLM to answer using only those chunks.

When the LLM is not configured or fails to answer, the retrieved chunks are
still shown (as JSON sources with an empty answer under --json).`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (0 = configured default)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer and sources as JSON")
	rootCmd.AddCommand(askCmd)
}

// answerJSON is the JSON shape of an answer.
type answerJSON struct {
	Question string       `json:"question"`
	Answer   string       `json:"answer"`
	Sources  []resultJSON `json:"sources"`
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if searchService == nil {
		return errors.New("search service not configured")
	}
	if answerService == nil {
		return errors.New("answer service not configured")
	}

	ctx := commandContext(cmd)
	results, err := searchService.Search(ctx, question, domain.SearchOptions{TopK: askTopK})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	answer, err := answerService.Answer(ctx, question, results)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("answer failed: %w", err)
		}
		st := stylesFor(cmd.ErrOrStderr())
		cmd.PrintErrln(st.Warning.Render(
			fmt.Sprintf("LLM answer unavailable: %v; showing retrieved chunks only.", err)))
		if askJSON {
			return outputAnswerJSON(cmd, question, "", results)
		}
		return outputSearchTable(cmd, results)
	}

	if askJSON {
		return outputAnswerJSON(cmd, question, answer, results)
	}

	st := stylesFor(cmd.OutOrStdout())
	cmd.Println(st.Title.Render("Answer:"))
	cmd.Println()
	cmd.Println(answer)

	if len(results) > 0 {
		cmd.Println()
		cmd.Println(st.Title.Render("Sources:"))
		for i := range results {
			cmd.Printf("  [%d] %s %s\n", i+1,
				st.Label.Render(results[i].Source),
				st.Muted.Render(fmt.Sprintf("(%.2f)", results[i].Similarity)))
		}
	}

	return nil
}

func outputAnswerJSON(cmd *cobra.Command, question, answer string, results []domain.SearchResult) error {
	data, err := json.MarshalIndent(answerJSON{
		Question: question,
		Answer:   answer,
		Sources:  toResultJSON(results),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
