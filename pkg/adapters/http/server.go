package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/motionplan/internal/logging"
	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RunFunc starts one batch run and returns its report.
// hooks stream task progress to /events subscribers.
type RunFunc func(ctx context.Context, hooks domain.LifecycleHooks) (*domain.Report, error)

// Server exposes stored reports and solutions over HTTP.
type Server struct {
	Reports   ports.ReportStore
	Solutions ports.SolutionWriter
	Streams   *StreamManager

	version  string
	run      RunFunc
	gatherer prometheus.Gatherer
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	wg      sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// WithSolutions serves solution artifacts under /solutions.
func WithSolutions(w ports.SolutionWriter) Option {
	return func(s *Server) {
		s.Solutions = w
	}
}

// WithRunner enables POST /runs.
func WithRunner(run RunFunc) Option {
	return func(s *Server) {
		s.run = run
	}
}

// WithGatherer serves metrics from g on /metrics.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// WithVersion sets the version reported by /info.
func WithVersion(v string) Option {
	return func(s *Server) {
		s.version = v
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// NewServer creates a server over a report store.
func NewServer(reports ports.ReportStore, opts ...Option) *Server {
	s := &Server{
		Reports: reports,
		version: "unknown",
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler is a shortcut for NewServer(...).Handler().
func NewHandler(reports ports.ReportStore, opts ...Option) http.Handler {
	return NewServer(reports, opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/events", s.SubscribeEvents)

	r.Route("/reports", func(r chi.Router) {
		r.Get("/", s.ListReports)
		r.Get("/{runID}", s.GetReport)
		r.Delete("/{runID}", s.DeleteReport)
		r.Get("/{runID}/summary", s.GetSummary)
		r.Get("/{runID}/results/{scenarioID}", s.GetResult)
	})
	r.Get("/solutions/{scenarioID}", s.GetSolution)
	r.Post("/runs", s.StartRun)

	if s.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}

	return enableCORS(r)
}

// Hooks broadcasts task events to SSE subscribers, keyed by scenario id.
func (s *Server) Hooks() domain.LifecycleHooks {
	send := func(_ context.Context, e *domain.TaskEvent) {
		data, err := json.Marshal(e)
		if err != nil {
			s.logger.Error("Failed to encode task event", "err", err)
			return
		}
		s.Streams.Broadcast(e.ScenarioID, string(data))
	}
	return domain.LifecycleHooks{OnTaskStart: send, OnTaskDone: send}
}

// Wait blocks until background runs started through POST /runs finish.
func (s *Server) Wait() {
	s.wg.Wait()
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrReportNotFound), errors.Is(err, domain.ErrSolutionNotFound):
		status = http.StatusNotFound
	default:
		s.logger.Error("Request failed", "err", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "motionplan-http",
		"version": s.version,
	})
}

// ListReports handles GET /reports.
func (s *Server) ListReports(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Reports.List(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"reports": ids})
}

// GetReport handles GET /reports/{runID}.
func (s *Server) GetReport(w http.ResponseWriter, r *http.Request) {
	report, err := s.Reports.Load(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, report)
}

// DeleteReport handles DELETE /reports/{runID}.
func (s *Server) DeleteReport(w http.ResponseWriter, r *http.Request) {
	if err := s.Reports.Delete(r.Context(), chi.URLParam(r, "runID")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetSummary handles GET /reports/{runID}/summary.
func (s *Server) GetSummary(w http.ResponseWriter, r *http.Request) {
	report, err := s.Reports.Load(r.Context(), chi.URLParam(r, "runID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"run_id":    report.RunID,
		"scenarios": len(report.Results),
		"summary":   report.Summary(),
	})
}

// GetResult handles GET /reports/{runID}/results/{scenarioID}.
func (s *Server) GetResult(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "runID")
	report, err := s.Reports.Load(r.Context(), runID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	scenarioID := chi.URLParam(r, "scenarioID")
	res, ok := report.Lookup(scenarioID)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]string{
			"error": fmt.Sprintf("scenario %s not in report %s", scenarioID, runID),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// GetSolution handles GET /solutions/{scenarioID}.
func (s *Server) GetSolution(w http.ResponseWriter, r *http.Request) {
	if s.Solutions == nil {
		http.Error(w, "solutions are not served", http.StatusNotImplemented)
		return
	}
	res, err := s.Solutions.Read(r.Context(), chi.URLParam(r, "scenarioID"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

// StartRun handles POST /runs. The batch runs in the background; progress is
// streamed on /events and the report lands in the store.
func (s *Server) StartRun(w http.ResponseWriter, r *http.Request) {
	if s.run == nil {
		http.Error(w, "runs are not enabled", http.StatusNotImplemented)
		return
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": "a run is already in progress"})
		return
	}
	s.running = true
	s.mu.Unlock()

	ctx := context.WithoutCancel(r.Context())
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			s.running = false
			s.mu.Unlock()
		}()

		report, err := s.run(ctx, s.Hooks())
		if err != nil {
			s.logger.Error("Background run failed", "err", err)
			return
		}
		s.logger.Info("Background run finished", "run_id", report.RunID)
	}()

	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

// SubscribeEvents handles the GET /events request (SSE).
// The optional scenario query parameter narrows the stream to one scenario.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	topic := r.URL.Query().Get("scenario")
	ch, cancel := s.Streams.Subscribe(topic)
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
