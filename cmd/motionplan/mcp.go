package main

import (
	"context"
	"strings"

	"github.com/aretw0/motionplan"
	"github.com/aretw0/motionplan/internal/cli"
	"github.com/spf13/cobra"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve reports and scenario solving to MCP clients",
	Long: `Exposes stored reports as MCP tools. With --config, solve_scenario solves a
single scenario using the batch configuration.

Transports: stdio (default, JSON-RPC on stdin/stdout; logs go to stderr)
or sse (HTTP on --port).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		return cli.ServeMCP(sigCtx, options(cmd), transport, port, strings.TrimSpace(motionplan.Version))
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().Int("port", 8080, "SSE listen port")
}
