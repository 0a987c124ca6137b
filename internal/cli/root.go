package cli

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/cargotune-labs/cargotune/internal/branding"
	"github.com/cargotune-labs/cargotune/internal/config"
)

var (
	buildVersion string
	buildCommit  string
	buildDate    string

	projectDir string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   branding.CLIName(),
	Short: branding.Description(),
	Long: branding.DisplayName() + ` probes the host for fast linkers and compiler caches, picks the
best available tool per category, and merges the matching settings into the
project's .cargo/config.toml — with backups and full rollback.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		log.SetLevel(log.WarnLevel)
		if verbose {
			log.SetLevel(log.DebugLevel)
		}
		config.Load()

		if projectDir == "" {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			projectDir = cwd
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&projectDir, "dir", "", "Project root (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	buildVersion = version
	buildCommit = commit
	buildDate = date
	if err := rootCmd.Execute(); err != nil {
		log.Error(err.Error())
		return err
	}
	return nil
}
