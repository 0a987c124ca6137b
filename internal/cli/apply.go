package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cargotune-labs/cargotune/internal/config"
	"github.com/cargotune-labs/cargotune/internal/optimize"
)

var applyJobsPercent int

func init() {
	applyCmd.Flags().IntVar(&applyJobsPercent, "jobs-percent", 0, "Fraction of logical CPUs for build.jobs (1-100)")
	rootCmd.AddCommand(applyCmd)
}

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Probe the host and write optimized Cargo settings",
	Long: `Probe the host for fast linkers and compiler caches, pick the best of
each, and merge the resulting settings into .cargo/config.toml. The prior
file content is backed up first and can be restored with 'rollback'.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := optimize.Apply(cmd.Context(), optimize.Options{
			Dir:          projectDir,
			ProbeTimeout: config.ProbeTimeout(),
			JobsPercent:  applyJobsPercent,
		})
		if err != nil {
			return err
		}

		printSelections(cmd, report)

		if report.Backup.HadPriorFile {
			fmt.Fprintf(cmd.OutOrStdout(), "Backup: %s\n", report.Backup.BackupPath)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (no prior file)\n", report.ConfigPath)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Run '%s rollback' to restore the previous state.\n", rootCmd.Name())
		return nil
	},
}

func printSelections(cmd *cobra.Command, report *optimize.Report) {
	out := cmd.OutOrStdout()

	if report.Linker.Chosen != nil {
		fmt.Fprintf(out, "Linker: %s", report.Linker.Chosen.Name)
		if report.Linker.Version != "" {
			fmt.Fprintf(out, " %s", report.Linker.Version)
		}
		fmt.Fprintln(out)
	} else {
		fmt.Fprintln(out, "Linker: platform default (no fast linker found)")
	}

	if report.Cache.Chosen != nil {
		fmt.Fprintf(out, "Cache:  %s", report.Cache.Chosen.Name)
		if report.Cache.Version != "" {
			fmt.Fprintf(out, " %s", report.Cache.Version)
		}
		fmt.Fprintln(out)
	} else {
		fmt.Fprintln(out, "Cache:  none")
	}

	if report.Document.Jobs > 0 {
		fmt.Fprintf(out, "Jobs:   %d\n", report.Document.Jobs)
	}

	for key, value := range report.Document.EnvHints {
		fmt.Fprintf(out, "Hint:   set %s=%s to activate the cache wrapper\n", key, value)
	}
}
