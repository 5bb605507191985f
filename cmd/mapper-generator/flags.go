package main

import (
	"github.com/spf13/cobra"

	"mapper-generator/internal/gen"
	"mapper-generator/internal/orchestrate"
	"mapper-generator/internal/plan"
)

const (
	defaultEntityPath = "./internal/entity"
	defaultDTOPath    = "./internal/dto"
	defaultOutputPath = "./internal/mappers"
	defaultConfigPath = "mappers.yaml"
)

// bindSourceFlags binds the flags locating the entity and DTO types.
func bindSourceFlags(cmd *cobra.Command, cfg *orchestrate.Config) {
	f := cmd.Flags()
	f.StringVar(&cfg.EntityDir, "entity-path", defaultEntityPath, "Directory of the entity package tree")
	f.StringVar(&cfg.EntityPackage, "entity-package", "", "Import path of the entity package (default: derived from go.mod)")
	f.StringVar(&cfg.DTODir, "dto-path", defaultDTOPath, "Directory of the DTO package tree")
	f.StringVar(&cfg.DTOPackage, "dto-package", "", "Import path of the DTO package (default: derived from go.mod)")
	f.StringVar(&cfg.ManifestPath, "manifest", "", "Read schemas from a YAML manifest instead of Go sources")
}

// bindGenerateFlags binds the flags of a generation run.
func bindGenerateFlags(cmd *cobra.Command, cfg *orchestrate.Config) {
	bindSourceFlags(cmd, cfg)

	def := gen.DefaultGeneratorConfig()

	f := cmd.Flags()
	f.StringVar(&cfg.OutputDir, "output-path", defaultOutputPath, "Directory the mappers are written to")
	f.StringVar(&cfg.OutputPackage, "output-package", "", "Import path of the mapper package (default: derived from go.mod)")
	f.StringVarP(&cfg.OverridesPath, "config", "c", defaultConfigPath, "Mapper override file; a missing file is ignored")
	f.BoolVar(&cfg.Clear, "clear", false, "Remove previously generated mappers first")
	f.StringVar(&cfg.Suffix, "suffix", plan.DefaultSuffix, "Suffix of DTO type names")
	f.StringVar(&cfg.ForwardMethod, "forward-method", def.ForwardMethod, "Name of the entity to DTO method")
	f.StringVar(&cfg.BackwardMethod, "backward-method", def.BackwardMethod, "Name of the DTO to entity method")
	f.BoolVar(&cfg.Asymmetric, "asymmetric", false, "Resolve the backward direction without inverting the forward mapping")
}
