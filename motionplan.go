package motionplan

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/motionplan/internal/logging"
	"github.com/aretw0/motionplan/pkg/adapters/lattice"
	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
	"github.com/aretw0/motionplan/pkg/registry"
	"github.com/aretw0/motionplan/pkg/search"
)

// Version is the release of the motionplan library and CLI.
var Version = "0.4.0"

// Planner is the high-level entry point for solving single planning problems.
// It wraps the search engine and the planner registry.
type Planner struct {
	planner        string
	model          domain.VehicleModel
	vehicle        domain.VehicleType
	maxDepth       int
	timeout        time.Duration
	weights        search.Weights
	obstacleWeight float64

	registry  *registry.Registry
	automata  ports.AutomatonProvider
	collision ports.CollisionChecker
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
}

// Option defines a functional option for configuring the Planner.
type Option func(*Planner)

// WithPlanner selects the planner id (default astar).
func WithPlanner(name string) Option {
	return func(p *Planner) {
		p.planner = name
	}
}

// WithVehicle selects the primitive set and reference-point offset.
func WithVehicle(model domain.VehicleModel, vehicle domain.VehicleType) Option {
	return func(p *Planner) {
		p.model = model
		p.vehicle = vehicle
	}
}

// WithMaxDepth bounds the number of primitives per trajectory.
func WithMaxDepth(d int) Option {
	return func(p *Planner) {
		p.maxDepth = d
	}
}

// WithTimeout bounds the wall-clock time of a search.
func WithTimeout(d time.Duration) Option {
	return func(p *Planner) {
		p.timeout = d
	}
}

// WithWeights sets the A* weights.
func WithWeights(w search.Weights) Option {
	return func(p *Planner) {
		p.weights = w
	}
}

// WithObstacleWeight sets the obstacle-clearance bias used by the student planner.
func WithObstacleWeight(w float64) Option {
	return func(p *Planner) {
		p.obstacleWeight = w
	}
}

// WithRegistry replaces the built-in planner registry.
func WithRegistry(r *registry.Registry) Option {
	return func(p *Planner) {
		p.registry = r
	}
}

// WithAutomata injects a primitive provider, bypassing the built-in lattice.
func WithAutomata(a ports.AutomatonProvider) Option {
	return func(p *Planner) {
		p.automata = a
	}
}

// WithCollision sets the obstacle model. The default is free space.
func WithCollision(c ports.CollisionChecker) Option {
	return func(p *Planner) {
		p.collision = c
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(p *Planner) {
		p.hooks = hooks
	}
}

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Planner) {
		p.logger = logger
	}
}

// New creates a Planner with the given options.
func New(opts ...Option) *Planner {
	p := &Planner{
		planner:  domain.PlannerAStar,
		model:    domain.ModelKinematicSingle,
		vehicle:  domain.VehicleBMW320i,
		maxDepth: 100,
		timeout:  time.Minute,
		weights:  search.DefaultWeights,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.registry == nil {
		p.registry = registry.Default()
	}
	if p.automata == nil {
		p.automata = lattice.Default()
	}
	if p.collision == nil {
		p.collision = ports.FreeSpace{}
	}
	return p
}

// Solve searches for a trajectory from the problem's initial state into its goal region.
// Non-goal terminations are reported through SearchResult.Outcome, not as errors.
func (p *Planner) Solve(ctx context.Context, problem domain.PlanningProblem) (*search.SearchResult, error) {
	automaton, err := p.automata.Automaton(p.model, p.vehicle)
	if err != nil {
		return nil, fmt.Errorf("failed to load motion primitives: %w", err)
	}

	offset := domain.RearAxleDistance(p.vehicle)
	strategy, err := p.registry.Build(p.planner, registry.Env{
		Problem:        problem,
		Offset:         offset,
		Collision:      p.collision,
		Weights:        p.weights,
		ObstacleWeight: p.obstacleWeight,
	})
	if err != nil {
		return nil, err
	}

	engine := search.NewEngine(strategy, automaton, p.collision, problem.Goal,
		search.WithMaxDepth(p.maxDepth),
		search.WithTimeout(p.timeout),
		search.WithOffset(offset),
		search.WithLogger(p.logger.With("planner", p.planner)),
		search.WithHooks(p.hooks),
	)
	return engine.Search(ctx, problem.Initial)
}

// Solve is a shortcut for New(opts...).Solve(ctx, problem).
func Solve(ctx context.Context, problem domain.PlanningProblem, opts ...Option) (*search.SearchResult, error) {
	return New(opts...).Solve(ctx, problem)
}
