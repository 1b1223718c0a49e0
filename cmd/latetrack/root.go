package main

import (
	"github.com/spf13/cobra"

	"latetrack/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "latetrack",
	Short: "Classify late project submissions per student",
	Long: "latetrack reads per-project grade tables, sorts late submissions into " +
		"lateness tiers and reports them per project and per student.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (default: latetrack.yaml if present)")
	rootCmd.PersistentFlags().String("datasets", "", "Dataset descriptor list (overrides paths.datasets_file)")
	rootCmd.PersistentFlags().String("roster", "", "Roster descriptor (overrides paths.roster_file)")
	rootCmd.PersistentFlags().String("data-dir", "", "Directory holding the source tables")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(templateCmd)
	rootCmd.AddCommand(versionCmd)
}

// optionsFromFlags collects the overrides shared by every command.
func optionsFromFlags(cmd *cobra.Command) app.Options {
	configFile, _ := cmd.Flags().GetString("config")
	datasets, _ := cmd.Flags().GetString("datasets")
	roster, _ := cmd.Flags().GetString("roster")
	dataDir, _ := cmd.Flags().GetString("data-dir")

	return app.Options{
		ConfigFile:   configFile,
		DatasetsFile: datasets,
		RosterFile:   roster,
		DataDir:      dataDir,
	}
}
