package main

import (
	"context"
	"os"

	"github.com/aretw0/motionplan/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the batch configuration and scenarios without solving",
	Long:  `Resolves every scenario's configuration and checks that each scenario loads, has the selected planning problem and has primitives for its vehicle.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := options(cmd)
		if !cmd.Flags().Changed("config") && len(args) > 0 {
			opts.ConfigPath = args[0]
		}
		// validation never writes reports
		opts.Store = cli.StoreMemory
		return cli.Validate(context.Background(), opts, os.Stdout)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
