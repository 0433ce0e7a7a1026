package main

import (
	"context"
	"os"

	"github.com/aretw0/motionplan/internal/cli"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report [run-id]",
	Short: "List stored reports or print one",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := options(cmd)
		opts.JSON, _ = cmd.Flags().GetBool("json")

		runID := ""
		if len(args) > 0 {
			runID = args[0]
		}
		return cli.ShowReport(context.Background(), opts, runID, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.Flags().Bool("json", false, "Print the report as JSON")
}
