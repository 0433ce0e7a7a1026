package main

import (
	"context"
	"strings"

	"github.com/aretw0/motionplan"
	"github.com/aretw0/motionplan/internal/cli"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP report API",
	Long: `Serves stored reports, solutions and Prometheus metrics over HTTP.
With --config, POST /runs starts the batch and /events streams task progress (SSE).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.Serve(sigCtx, options(cmd), port, strings.TrimSpace(motionplan.Version))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on")
}
