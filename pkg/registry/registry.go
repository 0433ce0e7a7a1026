package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
	"github.com/aretw0/motionplan/pkg/search"
)

// Env carries the per-problem inputs a planner may bind into its strategy.
type Env struct {
	Problem        domain.PlanningProblem
	Offset         float64
	Collision      ports.CollisionChecker
	Weights        search.Weights // zero value means search.DefaultWeights
	ObstacleWeight float64
}

// Factory builds a strategy for one planning problem.
type Factory func(env Env) search.Strategy

// Registry manages the available planners.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a planner to the registry.
// If a planner with the same name exists, it is overwritten.
func (r *Registry) Register(name string, fn Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = fn
}

// Build looks up a planner by name and binds it to env.
// Returns domain.ErrUnknownPlanner if the planner is not registered.
func (r *Registry) Build(name string, env Env) (search.Strategy, error) {
	r.mu.RLock()
	fn, ok := r.factories[name]
	r.mu.RUnlock()

	if !ok {
		return search.Strategy{}, fmt.Errorf("%w: %s", domain.ErrUnknownPlanner, name)
	}

	if env.Weights == (search.Weights{}) {
		env.Weights = search.DefaultWeights
	}
	s := fn(env)
	if s.Name == "" {
		s.Name = name
	}
	return s, nil
}

// Has reports whether a planner is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[name]
	return ok
}

// Names returns the registered planner ids in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns a registry with every built-in planner.
func Default() *Registry {
	r := NewRegistry()
	r.Register(domain.PlannerBFS, func(Env) search.Strategy { return search.BreadthFirst() })
	r.Register(domain.PlannerDFS, func(Env) search.Strategy { return search.DepthFirst() })
	r.Register(domain.PlannerDLS, func(Env) search.Strategy { return search.DepthLimited() })
	r.Register(domain.PlannerUCS, func(Env) search.Strategy { return search.UniformCost() })
	r.Register(domain.PlannerGBFS, func(env Env) search.Strategy {
		return search.GreedyBestFirst(search.TimeToGoal(env.Problem, env.Offset))
	})
	r.Register(domain.PlannerAStar, func(env Env) search.Strategy {
		return search.AStar(search.TimeLowerBound(env.Problem), env.Weights)
	})
	r.Register(domain.PlannerStudentExample, StudentExample)
	r.Register(domain.PlannerStudent, Student)
	return r
}

// StudentExample is A* driven by the vehicle-center time-to-goal estimate.
func StudentExample(env Env) search.Strategy {
	return search.Custom(search.AStar(search.Zero, env.Weights),
		search.WithHeuristic(search.TimeToGoal(env.Problem, env.Offset)),
		search.WithName(domain.PlannerStudentExample),
	)
}

// Student extends StudentExample with an obstacle-clearance bias.
func Student(env Env) search.Strategy {
	h := search.TimeToGoal(env.Problem, env.Offset)
	return search.Custom(search.AStar(search.Zero, env.Weights),
		search.WithHeuristic(search.WithObstacleBias(h, env.Collision, env.ObstacleWeight)),
		search.WithName(domain.PlannerStudent),
	)
}
