package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/cargotune-labs/cargotune/internal/config"
	"github.com/cargotune-labs/cargotune/internal/hostinfo"
	"github.com/cargotune-labs/cargotune/internal/toolchain"
)

func init() {
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report which build-acceleration tools are available on this host",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		platform := runtime.GOOS

		fmt.Fprintf(w, "Host: %s, %d logical CPUs\n\n", platform, hostinfo.LogicalCPUs())

		prober := &toolchain.Prober{Timeout: config.ProbeTimeout()}
		results := prober.Probe(cmd.Context(), toolchain.ForPlatform(platform))

		printCategory(w, results, toolchain.CategoryLinker, "Linkers")
		printCategory(w, results, toolchain.CategoryCache, "Compiler caches")
		return nil
	},
}

func printCategory(w io.Writer, results []toolchain.Result, cat toolchain.Category, title string) {
	fmt.Fprintf(w, "%s:\n", title)
	for _, r := range results {
		if r.Candidate.Category != cat {
			continue
		}
		if r.Present {
			fmt.Fprintf(w, "  [ OK ] %-10s %s", r.Candidate.Name, r.Path)
			if r.Version != "" {
				fmt.Fprintf(w, " (%s)", r.Version)
			}
			fmt.Fprintln(w)
			continue
		}
		fmt.Fprintf(w, "  [MISS] %-10s %s\n", r.Candidate.Name, r.Candidate.InstallHint())
	}
	fmt.Fprintln(w)
}
