package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

// app is shared by the subcommands.
type app struct {
	verbose bool
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{logger: slog.Default()}

	root := &cobra.Command{
		Use:   "mapper-generator",
		Short: "Generates bidirectional mappers between entity and DTO types",
		Long: `mapper-generator reads entity and DTO struct types, resolves how their
properties correspond and writes one mapper per pair with a forward and a
backward method. Generated files are plain Go and never overwritten.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := slog.LevelInfo
			if a.verbose {
				level = slog.LevelDebug
			}

			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(a.logger)
		},
	}

	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Verbose output")

	root.AddCommand(
		newGenerateCmd(a),
		newInspectCmd(a),
		newWatchCmd(a),
	)

	return root
}
