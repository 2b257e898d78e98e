// Package cli provides the command-line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/studyrag/internal/core/ports/driving"
	"github.com/custodia-labs/studyrag/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Services injected by the composition root before Execute runs.
var (
	ingestor  driving.Ingestor
	retriever driving.Retriever
)

var (
	flagUser    string
	flagVerbose bool
	flagConfig  string
)

var rootCmd = &cobra.Command{
	Use:   "studyrag",
	Short: "Per-user document retrieval for study material",
	Long: `studyrag ingests PDF and DOCX study material, splits it into
overlapping chunks, embeds each chunk, and answers similarity
queries against a per-user vector store.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(flagVerbose)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagUser, "user", "u", "default", "user whose data to operate on")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "path to config file")
}

// SetServices injects the driving services. Must be called before Execute.
func SetServices(ing driving.Ingestor, ret driving.Retriever) {
	ingestor = ing
	retriever = ret
}

// ConfigPath returns the --config flag value, empty when unset.
func ConfigPath() string {
	return flagConfig
}

// SetVersion overrides the reported version string.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute parses flags once so the composition root can read them, then
// runs the selected command.
func Execute() error {
	return rootCmd.Execute()
}

// ParseFlags pre-parses the persistent flags without running a command,
// so the composition root can honour --config before wiring services.
func ParseFlags(args []string) {
	_ = rootCmd.PersistentFlags().Parse(args)
}
