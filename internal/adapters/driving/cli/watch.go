package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/studyrag/internal/extractor"
	"github.com/custodia-labs/studyrag/internal/logger"
)

// watchDebounce batches rapid filesystem events into one reconcile.
// Editors and copies fire several events per file.
var watchDebounce = 2 * time.Second

var watchDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the upload folder and reconcile on changes",
	Long: `Watches the user's upload folder and runs a reconcile pass whenever
files are added, changed or removed. Stops on Ctrl-C.`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", "", "folder to watch (defaults to the user's upload folder)")
	rootCmd.AddCommand(watchCmd)
}

// UploadDirProvider is implemented by ingestors that expose the
// per-user upload folder location.
type UploadDirProvider interface {
	FilesDir(userID string) string
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if ingestor == nil {
		return errors.New("ingest service not configured")
	}

	dir := watchDir
	if dir == "" {
		provider, ok := ingestor.(UploadDirProvider)
		if !ok {
			return errors.New("upload folder unknown, pass --dir")
		}
		dir = provider.FilesDir(flagUser)
	}
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("creating watch folder: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Catch up on anything that changed while the watcher was down
	if err := reconcileAndReport(ctx, cmd); err != nil {
		return err
	}

	cmd.Printf("Watching %s (Ctrl-C to stop)\n", dir)

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case <-ctx.Done():
			cmd.Println("\nStopped.")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod {
				continue
			}
			if _, supported := extractor.MIMEForPath(event.Name); !supported {
				continue
			}
			logger.Debug("Watch event: %s", event)
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})

		case <-pending:
			if err := reconcileAndReport(ctx, cmd); err != nil {
				logger.Error("Reconcile failed: %v", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

func reconcileAndReport(ctx context.Context, cmd *cobra.Command) error {
	report, err := ingestor.Reconcile(ctx, flagUser)
	if err != nil {
		return err
	}
	if report.Ingested+report.Removed+report.Failed > 0 {
		cmd.Printf("Reconciled: %d ingested, %d removed, %d failed\n",
			report.Ingested, report.Removed, report.Failed)
	}
	return nil
}
