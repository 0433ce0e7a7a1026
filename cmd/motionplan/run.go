package main

import (
	"context"
	"os"

	"github.com/aretw0/motionplan/internal/cli"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Solve every scenario of a batch",
	Long: `Loads the batch configuration, solves every scenario found under input_path and
prints the report. Scenario failures are part of the report; the command only
fails on configuration or infrastructure errors.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := options(cmd)
		if !cmd.Flags().Changed("config") && len(args) > 0 {
			opts.ConfigPath = args[0]
		}
		opts.Sequential, _ = cmd.Flags().GetBool("sequential")
		opts.Workers, _ = cmd.Flags().GetInt("workers")
		opts.JSON, _ = cmd.Flags().GetBool("json")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		_, err := cli.RunBatch(sigCtx, opts, os.Stdout)
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().Bool("sequential", false, "Solve scenarios one after another in this process")
	runCmd.Flags().IntP("workers", "w", 0, "Worker count (default: num_worker_processes from the batch file)")
	runCmd.Flags().Bool("json", false, "Print the report as JSON")
}
