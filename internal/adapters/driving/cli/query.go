package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studyrag/internal/core/domain"
)

var (
	queryTopK int
	queryJSON bool
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Find the most relevant chunks for a question",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryTopK, "top-k", "n", 5, "number of chunks to return")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if retriever == nil {
		return errors.New("query service not configured")
	}

	chunks, err := retriever.RelevantChunks(context.Background(), flagUser, args[0], queryTopK)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if queryJSON {
		return outputChunksJSON(cmd, chunks)
	}
	return outputChunksText(cmd, chunks)
}

func outputChunksJSON(cmd *cobra.Command, chunks []domain.RetrievedChunk) error {
	data, err := json.MarshalIndent(chunks, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputChunksText(cmd *cobra.Command, chunks []domain.RetrievedChunk) error {
	if len(chunks) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	for i, chunk := range chunks {
		cmd.Printf("[%d] %s (score %.3f)\n", i+1, chunk.Metadata.Source, chunk.Score)
		text := strings.TrimSpace(chunk.Text)
		if len(text) > 300 {
			text = text[:300] + "..."
		}
		cmd.Println("    " + strings.ReplaceAll(text, "\n", "\n    "))
		cmd.Println()
	}
	return nil
}
