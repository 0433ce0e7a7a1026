package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/aretw0/motionplan/internal/logging"
	"github.com/aretw0/motionplan/pkg/config"
	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Solver runs one scenario with a resolved Config.
// *batch.Orchestrator satisfies it.
type Solver interface {
	RunScenario(ctx context.Context, scenarioID string, cfg config.Config) domain.Result
}

// Server exposes stored reports and single-scenario solving as MCP tools.
type Server struct {
	reports   ports.ReportStore
	solver    Solver
	batch     *config.Batch
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithSolver enables the solve_scenario tool. Scenario configs are resolved
// against b before tool arguments are applied.
func WithSolver(solver Solver, b *config.Batch) Option {
	return func(s *Server) {
		s.solver = solver
		s.batch = b
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(reports ports.ReportStore, version string, opts ...Option) *Server {
	s := &Server{
		reports:   reports,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("motionplan-mcp", strings.TrimSpace(version)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: list_reports
	s.mcpServer.AddTool(mcp.NewTool("list_reports",
		mcp.WithDescription("List the run ids of every stored batch report."),
	), s.handleListReports)

	// TOOL: get_report
	s.mcpServer.AddTool(mcp.NewTool("get_report",
		mcp.WithDescription("Get a batch report with its per-status summary."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run id of the report")),
	), s.handleGetReport)

	// TOOL: get_result
	s.mcpServer.AddTool(mcp.NewTool("get_result",
		mcp.WithDescription("Get the result of one scenario inside a batch report."),
		mcp.WithString("run_id", mcp.Required(), mcp.Description("Run id of the report")),
		mcp.WithString("scenario_id", mcp.Required(), mcp.Description("Scenario id")),
		mcp.WithOutputSchema[domain.Result](),
	), mcp.NewStructuredToolHandler(s.handleGetResult))

	if s.solver == nil {
		return
	}

	// TOOL: solve_scenario
	s.mcpServer.AddTool(mcp.NewTool("solve_scenario",
		mcp.WithDescription("Solve one scenario with the batch configuration, optionally overriding the planner or timeout."),
		mcp.WithString("scenario_id", mcp.Required(), mcp.Description("Scenario id")),
		mcp.WithString("planner", mcp.Description("Planner id (bfs, dfs, ucs, gbfs, astar)")),
		mcp.WithNumber("timeout", mcp.Description("Timeout in seconds")),
		mcp.WithNumber("max_tree_depth", mcp.Description("Maximum search depth")),
		mcp.WithOutputSchema[domain.Result](),
	), mcp.NewStructuredToolHandler(s.handleSolve))
}

// reportView adds the summary to a report.
type reportView struct {
	*domain.Report
	Summary map[domain.Status]int `json:"summary"`
}

func (s *Server) handleListReports(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ids, err := s.reports.List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("list failed: %v", err)), nil
	}
	if ids == nil {
		ids = []string{}
	}
	jsonBytes, _ := json.Marshal(ids)
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	runID := request.GetString("run_id", "")
	if runID == "" {
		return mcp.NewToolResultError("run_id is required"), nil
	}
	report, err := s.reports.Load(ctx, runID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	jsonBytes, _ := json.Marshal(reportView{Report: report, Summary: report.Summary()})
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleGetResult(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Result, error) {
	runID, _ := args["run_id"].(string)
	scenarioID, _ := args["scenario_id"].(string)

	report, err := s.reports.Load(ctx, runID)
	if err != nil {
		return domain.Result{}, fmt.Errorf("load failed: %w", err)
	}
	res, ok := report.Lookup(scenarioID)
	if !ok {
		return domain.Result{}, fmt.Errorf("%w: %s in run %s", domain.ErrScenarioNotFound, scenarioID, runID)
	}
	return res, nil
}

func (s *Server) handleSolve(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (domain.Result, error) {
	scenarioID, _ := args["scenario_id"].(string)
	if scenarioID == "" {
		return domain.Result{}, errors.New("scenario_id is required")
	}

	cfg, err := s.batch.Resolve(scenarioID)
	if err != nil {
		return domain.Result{}, err
	}
	if planner, ok := args["planner"].(string); ok && planner != "" {
		cfg.Planner = planner
	}
	if timeout, ok := args["timeout"].(float64); ok && timeout > 0 {
		cfg.Timeout = timeout
	}
	if depth, ok := args["max_tree_depth"].(float64); ok && depth > 0 {
		cfg.MaxTreeDepth = int(depth)
	}

	s.logger.Info("MCP solve", "scenario_id", scenarioID, "planner", cfg.Planner)
	return s.solver.RunScenario(ctx, scenarioID, cfg), nil
}

func (s *Server) registerResources() {
	// EXPOSE: motionplan://reports
	s.mcpServer.AddResource(mcp.NewResource("motionplan://reports", "Stored Batch Reports",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.reports.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list reports: %w", err)
		}
		jsonBytes, _ := json.Marshal(ids)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "motionplan://reports",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
