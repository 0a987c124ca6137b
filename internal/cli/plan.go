package cli

import (
	"fmt"
	"sort"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/cargotune-labs/cargotune/internal/config"
	"github.com/cargotune-labs/cargotune/internal/optimize"
)

var planShowToml bool

func init() {
	planCmd.Flags().BoolVar(&planShowToml, "toml", false, "Print the settings that would be written, as TOML")
	rootCmd.AddCommand(planCmd)
}

var planCmd = &cobra.Command{
	Use:     "plan",
	Aliases: []string{"dry-run"},
	Short:   "Show what apply would do without writing anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := optimize.Plan(cmd.Context(), optimize.Options{
			Dir:          projectDir,
			ProbeTimeout: config.ProbeTimeout(),
		})
		if err != nil {
			return err
		}

		printSelections(cmd, report)

		if !planShowToml {
			return nil
		}
		if report.Document.Empty() {
			fmt.Fprintln(cmd.OutOrStdout(), "Nothing to write.")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\nWould merge into %s:\n\n", report.ConfigPath)
		return printDocumentTOML(cmd, report)
	},
}

// printDocumentTOML renders just the managed keys, in the file's native
// format, for inspection.
func printDocumentTOML(cmd *cobra.Command, report *optimize.Report) error {
	tree := map[string]any{}

	if len(report.Document.Targets) > 0 {
		targets := map[string]any{}
		triples := make([]string, 0, len(report.Document.Targets))
		for t := range report.Document.Targets {
			triples = append(triples, t)
		}
		sort.Strings(triples)
		for _, triple := range triples {
			tc := report.Document.Targets[triple]
			entry := map[string]any{"linker": tc.Linker}
			if len(tc.Rustflags) > 0 {
				entry["rustflags"] = tc.Rustflags
			}
			targets[triple] = entry
		}
		tree["target"] = targets
	}
	if report.Document.Jobs > 0 {
		tree["build"] = map[string]any{"jobs": report.Document.Jobs}
	}

	out, err := toml.Marshal(tree)
	if err != nil {
		return fmt.Errorf("rendering plan: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
