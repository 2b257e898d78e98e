package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var filesCmd = &cobra.Command{
	Use:   "files",
	Short: "List the user's uploaded files",
	RunE:  runFiles,
}

func init() {
	rootCmd.AddCommand(filesCmd)
}

func runFiles(cmd *cobra.Command, _ []string) error {
	if ingestor == nil {
		return errors.New("ingest service not configured")
	}

	files, err := ingestor.ListFiles(context.Background(), flagUser)
	if err != nil {
		return fmt.Errorf("listing files failed: %w", err)
	}

	if len(files) == 0 {
		cmd.Println("No files uploaded.")
		return nil
	}

	for _, f := range files {
		status := "pending"
		if f.Processed {
			status = "processed"
		}
		cmd.Printf("%-40s %8d bytes  %s  %s\n",
			f.Name, f.Size, f.ModTime.Format("2006-01-02 15:04"), status)
	}
	return nil
}
