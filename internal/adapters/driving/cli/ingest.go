package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/studyrag/internal/extractor"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [file...]",
	Short: "Ingest study material",
	Long: `Copies the given PDF or DOCX files into the user's upload folder,
extracts the text, and stores the embedded chunks.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	if ingestor == nil {
		return errors.New("ingest service not configured")
	}

	ctx := context.Background()
	var failed int
	for _, path := range args {
		mime, ok := extractor.MIMEForPath(path)
		if !ok {
			cmd.PrintErrf("Skipping %s: unsupported file type\n", path)
			failed++
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			cmd.PrintErrf("Skipping %s: %v\n", path, err)
			failed++
			continue
		}

		report, err := ingestor.IngestDocument(ctx, flagUser, data, filepath.Base(path), mime)
		if err != nil {
			cmd.PrintErrf("Failed to ingest %s: %v\n", path, err)
			failed++
			continue
		}

		if len(report.FailedChunks) > 0 {
			cmd.Printf("Ingested %s: %d chunks stored, %d failed\n",
				report.FileName, report.ChunksAdded, len(report.FailedChunks))
		} else {
			cmd.Printf("Ingested %s: %d chunks\n", report.FileName, report.ChunksAdded)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(args))
	}
	return nil
}
