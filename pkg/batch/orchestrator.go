package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/aretw0/motionplan/internal/logging"
	"github.com/aretw0/motionplan/pkg/artifacts"
	"github.com/aretw0/motionplan/pkg/config"
	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
	"github.com/aretw0/motionplan/pkg/registry"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultGrace is how long a worker waits past a task's timeout before it
// abandons the search and records TIMEOUT.
const DefaultGrace = 500 * time.Millisecond

// Task is the unit of work handed to a worker.
type Task struct {
	ScenarioID string
	Config     config.Config
}

// Orchestrator runs batches of planning tasks.
type Orchestrator struct {
	loader    ports.ScenarioLoader
	workers   int
	registry  *registry.Registry
	writer    ports.SolutionWriter
	guard     *artifacts.Manager
	validator ports.Validator
	store     ports.ReportStore
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	grace     time.Duration
	now       func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithWorkers fixes the pool size, overriding the batch file.
// One worker means sequential execution on the caller's goroutine.
func WithWorkers(n int) Option {
	return func(o *Orchestrator) {
		o.workers = n
	}
}

// WithWriter stores solutions through w, guarded by an in-process artifact lock.
func WithWriter(w ports.SolutionWriter) Option {
	return func(o *Orchestrator) {
		o.writer = w
	}
}

// WithGuard stores solutions through an existing artifact manager,
// e.g. one backed by a distributed locker.
func WithGuard(m *artifacts.Manager) Option {
	return func(o *Orchestrator) {
		o.guard = m
	}
}

// WithValidator checks SOLVED results when validate_solution is set.
func WithValidator(v ports.Validator) Option {
	return func(o *Orchestrator) {
		o.validator = v
	}
}

// WithRegistry replaces the planner registry.
func WithRegistry(r *registry.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = r
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		o.logger = logger
	}
}

// WithHooks registers lifecycle callbacks. They are passed down to every search.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(o *Orchestrator) {
		o.hooks = o.hooks.Merge(hooks)
	}
}

// WithStore persists every finished report.
func WithStore(s ports.ReportStore) Option {
	return func(o *Orchestrator) {
		o.store = s
	}
}

// WithGrace sets the slack added to a task's timeout in parallel mode.
func WithGrace(d time.Duration) Option {
	return func(o *Orchestrator) {
		o.grace = d
	}
}

// New creates an orchestrator reading scenarios from loader.
func New(loader ports.ScenarioLoader, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		loader:    loader,
		registry:  registry.Default(),
		validator: ConsistencyValidator{},
		logger:    logging.NewNop(),
		grace:     DefaultGrace,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.guard == nil && o.writer != nil {
		o.guard = artifacts.NewManager(o.writer, artifacts.WithLogger(o.logger))
	}
	return o
}

// Run executes every scenario of the loader with its resolved Config.
// The returned report lists each scenario exactly once, sorted by id.
func (o *Orchestrator) Run(ctx context.Context, b *config.Batch) (*domain.Report, error) {
	ids, err := o.loader.ListScenarios(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}
	tasks, err := o.Plan(b, ids)
	if err != nil {
		return nil, err
	}

	workers := o.workers
	if workers <= 0 {
		workers = b.Workers
	}

	report := &domain.Report{
		RunID:     uuid.NewString(),
		StartedAt: o.now(),
	}
	o.logger.Info("Batch started",
		"run_id", report.RunID,
		"scenarios", len(tasks),
		"workers", workers,
	)

	if workers <= 1 {
		report.Results = o.runSequential(ctx, tasks)
	} else {
		report.Results = o.runParallel(ctx, tasks, workers)
	}
	report.SortResults()
	report.FinishedAt = o.now()

	o.logger.Info("Batch finished",
		"run_id", report.RunID,
		"elapsed", report.FinishedAt.Sub(report.StartedAt),
		"summary", report.Summary(),
	)

	if o.store != nil {
		if err := o.store.Save(ctx, report); err != nil {
			return report, fmt.Errorf("failed to save report %s: %w", report.RunID, err)
		}
	}
	return report, nil
}

// Plan resolves one task per scenario. It fails on the first invalid Config
// or unknown planner, before anything runs.
func (o *Orchestrator) Plan(b *config.Batch, ids []string) ([]Task, error) {
	cfgs, err := b.ResolveAll(ids)
	if err != nil {
		return nil, err
	}

	sorted := make([]string, 0, len(cfgs))
	for id := range cfgs {
		sorted = append(sorted, id)
	}
	sort.Strings(sorted)

	tasks := make([]Task, 0, len(sorted))
	for _, id := range sorted {
		cfg := cfgs[id]
		if !o.registry.Has(cfg.Planner) {
			return nil, &domain.ConfigError{Scenario: id, Key: "planner", Reason: fmt.Sprintf("unknown planner %q", cfg.Planner)}
		}
		tasks = append(tasks, Task{ScenarioID: id, Config: cfg})
	}
	return tasks, nil
}

// RunScenario solves a single scenario with a hard timeout.
func (o *Orchestrator) RunScenario(ctx context.Context, scenarioID string, cfg config.Config) domain.Result {
	if err := cfg.Validate(); err != nil {
		return failed(Task{ScenarioID: scenarioID, Config: cfg}, err)
	}
	if !o.registry.Has(cfg.Planner) {
		return failed(Task{ScenarioID: scenarioID, Config: cfg}, fmt.Errorf("%w: %s", domain.ErrUnknownPlanner, cfg.Planner))
	}
	return o.runTask(ctx, Task{ScenarioID: scenarioID, Config: cfg}, true)
}

func (o *Orchestrator) runSequential(ctx context.Context, tasks []Task) []domain.Result {
	results := make([]domain.Result, 0, len(tasks))
	for _, t := range tasks {
		results = append(results, o.runTask(ctx, t, false))
	}
	return results
}

func (o *Orchestrator) runParallel(ctx context.Context, tasks []Task, workers int) []domain.Result {
	queue := make(chan Task)
	out := make(chan domain.Result, len(tasks))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(queue)
		for _, t := range tasks {
			select {
			case queue <- t:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for t := range queue {
				out <- o.runTask(gctx, t, true)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		o.logger.Warn("Batch interrupted", "err", err)
	}
	close(out)

	results := make([]domain.Result, 0, len(tasks))
	seen := make(map[string]bool, len(tasks))
	for res := range out {
		seen[res.ScenarioID] = true
		results = append(results, res)
	}

	// never dispatched because the batch context ended
	for _, t := range tasks {
		if !seen[t.ScenarioID] {
			cause := ctx.Err()
			if cause == nil {
				cause = errors.New("task not dispatched")
			}
			results = append(results, failed(t, cause))
		}
	}
	return results
}
