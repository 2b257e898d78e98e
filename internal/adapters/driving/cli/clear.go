package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var clearYes bool

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete all of the user's files, chunks and ledger entries",
	RunE:  runClear,
}

func init() {
	clearCmd.Flags().BoolVar(&clearYes, "yes", false, "skip the confirmation prompt")
	rootCmd.AddCommand(clearCmd)
}

func runClear(cmd *cobra.Command, _ []string) error {
	if ingestor == nil {
		return errors.New("ingest service not configured")
	}

	if !clearYes {
		cmd.Printf("This deletes all data for user %q. Re-run with --yes to confirm.\n", flagUser)
		return nil
	}

	if err := ingestor.ClearUserData(context.Background(), flagUser); err != nil {
		return fmt.Errorf("clear failed: %w", err)
	}

	cmd.Printf("All data for user %q deleted.\n", flagUser)
	return nil
}
