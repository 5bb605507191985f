package main

import (
	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"

	"mapper-generator/internal/orchestrate"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func newInspectCmd(a *app) *cobra.Command {
	var cfg orchestrate.Config

	cmd := &cobra.Command{
		Use:   "inspect <type>...",
		Short: "Dump the extracted schema of entity or DTO types",
		Long: `Prints the schema the generator sees for each type: fields, accessors,
mutators, constructor and annotations. Types may be given as full ids,
as pkg.Name or as bare names.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			schemas, err := orchestrate.New(cfg, a.logger).Inspect(args)
			if err != nil {
				return err
			}

			for _, schema := range schemas {
				dumper.Fdump(cmd.OutOrStdout(), schema)
			}

			return nil
		},
	}

	bindSourceFlags(cmd, &cfg)

	return cmd
}
