package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"latetrack/internal/config"
	apperrors "latetrack/internal/errors"
	"latetrack/internal/files"
	"latetrack/pkg/contracts/domain"
)

var templateCmd = &cobra.Command{
	Use:   "template",
	Short: "Print a sample dataset descriptor list",
	Long: "Print a sample dataset descriptor list. With --discover, draft one " +
		"descriptor for every CSV or Excel table in the data directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := optionsFromFlags(cmd)
		discover, _ := cmd.Flags().GetBool("discover")

		cfg, err := config.Load(opts.ConfigFile)
		if err != nil {
			return apperrors.NewConfigError("failed to load configuration", err)
		}
		tiers := cfg.Grading.Tiers

		list := config.TemplateDatasets(tiers)
		if discover {
			if opts.DataDir != "" {
				cfg.Paths.DataDir = opts.DataDir
			}
			paths, err := config.GetPaths(cfg.Paths)
			if err != nil {
				return apperrors.NewConfigError("failed to resolve paths", err)
			}
			list, err = discoverDatasets(paths, tiers)
			if err != nil {
				return err
			}
		}

		data, err := json.MarshalIndent(list, "", "    ")
		if err != nil {
			return fmt.Errorf("encode template: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

func discoverDatasets(paths *config.Paths, tiers []string) ([]domain.DatasetDescriptor, error) {
	tables, err := files.NewDiscovery(paths.BaseDir).FindTables(paths.DataDir)
	if err != nil {
		return nil, apperrors.NewNotFoundError(paths.DataDir).WithContext("cause", err.Error())
	}
	if len(tables) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("tables in %s", paths.DataDir))
	}

	names := make([]string, 0, len(tables))
	for _, f := range tables {
		names = append(names, f.Name)
	}
	return config.TemplateDatasetsFor(names, tiers), nil
}

func init() {
	templateCmd.Flags().Bool("discover", false, "Draft descriptors from the tables in the data directory")
}
