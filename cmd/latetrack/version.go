package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"latetrack/pkg/contracts"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current version",
	RunE: func(cmd *cobra.Command, args []string) error {
		full, _ := cmd.Flags().GetBool("full")
		if full {
			fmt.Fprintln(cmd.OutOrStdout(), contracts.GetFullVersionString())
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), contracts.GetVersionString())
		return nil
	},
}

func init() {
	versionCmd.Flags().Bool("full", false, "Include build details")
}
