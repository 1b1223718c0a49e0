package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"latetrack/internal/app"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Classify every dataset and write the reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := optionsFromFlags(cmd)
		opts.ReportsDir, _ = cmd.Flags().GetString("out")
		opts.NoCharts, _ = cmd.Flags().GetBool("no-charts")
		opts.Diagnostics = cmd.ErrOrStderr()

		application, err := app.New(opts)
		if err != nil {
			return err
		}
		defer application.Close()

		result, err := application.Run(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%-24s  %6s  %10s  %12s  %7s\n", "Project", "Rows", "Classified", "Unclassified", "Skipped")
		for _, s := range result.Stats {
			fmt.Fprintf(out, "%-24s  %6d  %10d  %12d  %7d\n", s.Project, s.Rows, s.Classified, s.Unclassified, s.Skipped)
		}
		fmt.Fprintf(out, "\n%d students with late submissions, %d rows skipped\n", result.Students, result.Diagnostics)
		for _, s := range result.Top {
			fmt.Fprintf(out, "  %s  %-24s  %d\n", s.SID, s.Name, s.Total)
		}
		for _, path := range result.Written {
			fmt.Fprintln(out, "wrote", path)
		}
		return nil
	},
}

func init() {
	runCmd.Flags().String("out", "", "Reports directory (overrides paths.reports_dir)")
	runCmd.Flags().Bool("no-charts", false, "Skip the chart workbook")
}
