package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

var documentCmd = &cobra.Command{
	Use:     "document",
	Aliases: []string{"documents", "docs"},
	Short:   "Inspect ingested documents",
	Long:    `List ingested documents and view their details, text, chunks and ingestion history.`,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List ingested documents",
	Args:  cobra.NoArgs,
	RunE:  runDocumentList,
}

var documentGetCmd = &cobra.Command{
	Use:     "get [doc-id|filename]",
	Aliases: []string{"show"},
	Short:   "Show document details",
	Args:    cobra.ExactArgs(1),
	RunE:    runDocumentGet,
}

var documentContentCmd = &cobra.Command{
	Use:   "content [doc-id|filename]",
	Short: "Print the extracted text",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentContent,
}

var documentChunksCmd = &cobra.Command{
	Use:   "chunks [doc-id|filename]",
	Short: "Print the stored chunks",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentChunks,
}

var documentHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the ingestion log",
	Args:  cobra.NoArgs,
	RunE:  runDocumentHistory,
}

// historyLimit is a flag for the history command.
var historyLimit int

func init() {
	documentHistoryCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of entries (0 = all)")

	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentGetCmd)
	documentCmd.AddCommand(documentContentCmd)
	documentCmd.AddCommand(documentChunksCmd)
	documentCmd.AddCommand(documentHistoryCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	docs, err := documentService.List(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if len(docs) == 0 {
		cmd.Println("No documents ingested yet.")
		return nil
	}

	cmd.Println("Documents:")
	cmd.Println()
	for i := range docs {
		cmd.Printf("  %s\n", docs[i].ID)
		cmd.Printf("    Source:  %s\n", docs[i].Source)
		if docs[i].Title != "" && docs[i].Title != docs[i].Source {
			cmd.Printf("    Title:   %s\n", docs[i].Title)
		}
		cmd.Printf("    Updated: %s\n", docs[i].UpdatedAt.Format(displayTimeLayout))
		cmd.Println()
	}

	cmd.Printf("Total: %d documents\n", len(docs))
	return nil
}

func runDocumentGet(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	details, err := documentService.GetDetails(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document details: %w", err)
	}

	cmd.Printf("Document: %s\n\n", details.ID)
	cmd.Printf("  Source:   %s\n", details.Source)
	cmd.Printf("  Title:    %s\n", details.Title)
	cmd.Printf("  URI:      %s\n", details.URI)
	cmd.Printf("  Chunks:   %d\n", details.ChunkCount)
	if len(details.Sections) > 0 {
		cmd.Printf("  Sections: %s\n", strings.Join(details.Sections, ", "))
	}
	cmd.Printf("  Created:  %s\n", details.CreatedAt.Format(displayTimeLayout))
	cmd.Printf("  Updated:  %s\n", details.UpdatedAt.Format(displayTimeLayout))

	if len(details.Metadata) > 0 {
		cmd.Println("\n  Metadata:")
		keys := make([]string, 0, len(details.Metadata))
		for k := range details.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			cmd.Printf("    %s: %s\n", k, details.Metadata[k])
		}
	}

	return nil
}

func runDocumentContent(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	doc, err := documentService.Get(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Println(doc.Content)
	return nil
}

func runDocumentChunks(cmd *cobra.Command, args []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	chunks, err := documentService.GetChunks(commandContext(cmd), args[0])
	if err != nil {
		return fmt.Errorf("failed to get chunks: %w", err)
	}

	outputChunks(cmd, chunks)
	return nil
}

func runDocumentHistory(cmd *cobra.Command, _ []string) error {
	if documentService == nil {
		return errors.New("document service not configured")
	}

	records, err := documentService.History(commandContext(cmd), historyLimit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}

	if len(records) == 0 {
		cmd.Println("No ingestions recorded.")
		return nil
	}

	for _, rec := range records {
		cmd.Printf("  %s  %s (%d chunks)\n", rec.IngestedAt.Format(displayTimeLayout), rec.Source, rec.Chunks)
	}
	return nil
}

// displayTimeLayout formats timestamps for terminal output.
const displayTimeLayout = "2006-01-02 15:04:05"
