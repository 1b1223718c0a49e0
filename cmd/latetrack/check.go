package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"latetrack/internal/app"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate descriptors and source tables without writing reports",
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.New(optionsFromFlags(cmd))
		if err != nil {
			return err
		}
		defer application.Close()

		result, err := application.Check(cmd.Context())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "OK: %d datasets\n", result.Datasets)
		for _, name := range result.Unreferenced {
			fmt.Fprintln(out, "unreferenced table:", name)
		}
		return nil
	},
}
