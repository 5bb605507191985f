package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"mapper-generator/internal/orchestrate"
	"mapper-generator/internal/watch"
)

func newWatchCmd(a *app) *cobra.Command {
	var cfg orchestrate.Config

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Generate mappers, then regenerate them when sources change",
		Long: `Runs generate once, then watches the entity and DTO trees and regenerates
all mappers after Go files change. Regeneration replaces previously
generated files. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			out := cmd.OutOrStdout()

			report, err := orchestrate.New(cfg, a.logger).Run(ctx)
			if err != nil {
				return err
			}

			printReport(out, report, a.verbose)

			rerun := cfg
			rerun.Clear = true

			w, err := watch.New(watch.Config{
				Roots:   []string{cfg.EntityDir, cfg.DTODir},
				Exclude: []string{cfg.OutputDir},
			}, func(ctx context.Context) error {
				report, err := orchestrate.New(rerun, a.logger).Run(ctx)
				if err != nil {
					return err
				}

				printReport(out, report, a.verbose)

				return nil
			}, a.logger)
			if err != nil {
				return err
			}

			a.logger.Info("watching for changes", "entity", cfg.EntityDir, "dto", cfg.DTODir)

			if err := w.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}

			return nil
		},
	}

	bindGenerateFlags(cmd, &cfg)

	return cmd
}
