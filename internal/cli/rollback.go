package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cargotune-labs/cargotune/internal/optimize"
)

func init() {
	rootCmd.AddCommand(rollbackCmd)
}

var rollbackCmd = &cobra.Command{
	Use:   "rollback",
	Short: "Restore .cargo/config.toml to its state before the last apply",
	Long: `Restore the managed config file from the backup taken by the last apply.
A file that apply created from nothing is deleted. Restoration reads from
the backup, so manual edits made after apply do not affect the result.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := optimize.Rollback(optimize.Options{Dir: projectDir})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch {
		case result.NoOp:
			fmt.Fprintln(out, "Nothing to roll back: no backup record found.")
		case result.Restored:
			fmt.Fprintf(out, "Restored %s from %s\n", result.Record.OriginalPath, result.Record.BackupPath)
			fmt.Fprintln(out, "The backup copy was kept; delete it when no longer needed.")
		case result.Deleted:
			fmt.Fprintf(out, "Removed %s (it did not exist before apply)\n", result.Record.OriginalPath)
		}
		return nil
	},
}
