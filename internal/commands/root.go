package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/helper-kust/internal/config"
	"github.com/PabloGalante/helper-kust/internal/observability"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "helperkust",
	Short: "A homework assistant backed by a multimodal model",
	Long: `helperkust keeps a list of homework tasks and holds one conversation at a time
about the active task, either guiding you to the answer (help) or solving it (solve).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		observability.SetLevel(cfg.LogLevel)
		observability.SetLogFile(cfg.LogFile)
	},
}

// loadConfig is replaced in tests.
var loadConfig = config.Load

// SetVersion sets the version information
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "helperkust %s (commit %s, built %s)\n", version, commit, date)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(keyCmd)
	rootCmd.AddCommand(versionCmd)
}
