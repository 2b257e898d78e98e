package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile the store with the upload folder",
	Long: `Scans the user's upload folder and brings the vector store in line
with it: new and changed files are ingested, chunks of deleted
files are removed.`,
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
}

func runSync(cmd *cobra.Command, _ []string) error {
	if ingestor == nil {
		return errors.New("ingest service not configured")
	}

	report, err := ingestor.Reconcile(context.Background(), flagUser)
	if err != nil {
		return fmt.Errorf("sync failed: %w", err)
	}

	cmd.Printf("Sync complete: %d ingested, %d removed, %d failed\n",
		report.Ingested, report.Removed, report.Failed)
	if report.Failed > 0 {
		cmd.Println("Failed files stay unprocessed and are retried on the next sync.")
	}
	return nil
}
