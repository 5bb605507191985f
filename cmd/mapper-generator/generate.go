package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"mapper-generator/internal/orchestrate"
)

func newGenerateCmd(a *app) *cobra.Command {
	var cfg orchestrate.Config

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate mappers for all entity and DTO pairs",
		Long: `Discovers entity/DTO pairs from the override file, //mapper:from directives
and the DTO naming convention, then writes one mapper per pair. Pairs whose
mapper file exists are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			report, err := orchestrate.New(cfg, a.logger).Run(cmd.Context())
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), report, a.verbose)

			return nil
		},
	}

	bindGenerateFlags(cmd, &cfg)

	return cmd
}

// printReport writes one line per pair, then the diagnostics and a summary.
// Info diagnostics are shown in verbose mode only.
func printReport(w io.Writer, report *orchestrate.Report, verbose bool) {
	for _, res := range report.Results {
		switch res.Status {
		case orchestrate.StatusGenerated:
			fmt.Fprintf(w, "generated %s -> %s\n", res.Mapper, res.Path)
		case orchestrate.StatusSkipped:
			fmt.Fprintf(w, "skipped   %s (file exists)\n", res.Mapper)
		case orchestrate.StatusFailed:
			fmt.Fprintf(w, "failed    %s: %v\n", res.Mapper, res.Err)
		}
	}

	diags := report.Diagnostics

	for _, d := range diags.Errors {
		fmt.Fprintf(w, "error: %s\n", d)
	}

	for _, d := range diags.Warnings {
		fmt.Fprintf(w, "warning: %s\n", d)
	}

	if verbose {
		for _, d := range diags.Infos {
			fmt.Fprintf(w, "info: %s\n", d)
		}
	}

	fmt.Fprintf(w, "%d generated, %d skipped, %d failed\n",
		report.Count(orchestrate.StatusGenerated),
		report.Count(orchestrate.StatusSkipped),
		report.Count(orchestrate.StatusFailed))
}
