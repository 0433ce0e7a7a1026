package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/motionplan/pkg/adapters/mcp"
)

// NewMCPServer builds the MCP adapter. solve_scenario is only offered with a batch config.
func NewMCPServer(app *App, version string) (*mcp.Server, error) {
	opts := []mcp.Option{mcp.WithLogger(app.Logger)}
	if app.Loader != nil {
		orch, err := app.Orchestrator()
		if err != nil {
			return nil, err
		}
		opts = append(opts, mcp.WithSolver(orch, app.Batch))
	}
	return mcp.NewServer(app.Reports, version, opts...), nil
}

// ServeMCP runs the MCP server over stdio or SSE.
func ServeMCP(ctx context.Context, opts Options, transport string, port int, version string) error {
	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	srv, err := NewMCPServer(app, version)
	if err != nil {
		return err
	}

	switch transport {
	case "stdio":
		app.Logger.Info("Starting motionplan MCP server (stdio)")
		return srv.ServeStdio()
	case "sse":
		app.Logger.Info("Starting motionplan MCP server (SSE)", "port", port)
		return srv.ServeSSE(ctx, port)
	default:
		return fmt.Errorf("unknown transport %q (want stdio or sse)", transport)
	}
}
