package batch_test

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/motionplan/pkg/adapters/memory"
	"github.com/aretw0/motionplan/pkg/config"
	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
	"github.com/stretchr/testify/require"
)

// provider serves the same automaton for every vehicle.
type provider struct {
	automaton ports.Automaton
}

func (p provider) Automaton(domain.VehicleModel, domain.VehicleType) (ports.Automaton, error) {
	return p.automaton, nil
}

// line offers three primitives along +x, two time steps each.
func line(calls *atomic.Int64, delay time.Duration) ports.Automaton {
	return ports.AutomatonFunc(func(from domain.State) ([]domain.Path, error) {
		if calls != nil {
			calls.Add(1)
		}
		if delay > 0 {
			time.Sleep(delay)
		}
		out := make([]domain.Path, 0, 3)
		for _, dx := range []float64{1, 2, 3} {
			out = append(out, domain.Path{{
				Position: domain.Vec2{X: from.Position.X + dx},
				Velocity: from.Velocity,
				TimeStep: from.TimeStep + 2,
			}})
		}
		return out, nil
	})
}

func panicking() ports.Automaton {
	return ports.AutomatonFunc(func(domain.State) ([]domain.Path, error) {
		panic("primitive table corrupted")
	})
}

// reachAt accepts any state at exactly time step t.
func reachAt(t int) domain.GoalRegion {
	return domain.GoalRegion{Time: domain.TimeInterval{Start: t, End: t}}
}

func scenario(id string, a ports.Automaton, goal domain.GoalRegion) *ports.Scenario {
	return &ports.Scenario{
		ID: id,
		Problems: []domain.PlanningProblem{{
			ID:      1,
			Initial: domain.State{Velocity: 1},
			Goal:    goal,
		}},
		Collision: ports.FreeSpace{},
		Automata:  provider{automaton: a},
	}
}

func loader(t *testing.T, scenarios ...*ports.Scenario) *memory.Loader {
	t.Helper()
	l, err := memory.NewLoader(scenarios...)
	require.NoError(t, err)
	return l
}

func defaults() map[string]any {
	return map[string]any{
		"vehicle_model":        "KS",
		"vehicle_type":         "BMW_320i",
		"cost_function":        "WX1",
		"planner":              "bfs",
		"planning_problem_idx": 0,
		"max_tree_depth":       10,
		"timeout":              5.0,
		"overwrite":            true,
	}
}

func batchOf(t *testing.T, def map[string]any, overrides map[string]map[string]any) *config.Batch {
	t.Helper()
	b, err := config.New(def, overrides)
	require.NoError(t, err)
	return b
}

// withoutRuntime zeroes timing so results can be compared across runs.
func withoutRuntime(results []domain.Result) []domain.Result {
	out := make([]domain.Result, len(results))
	for i, r := range results {
		r.RuntimeSeconds = 0
		out[i] = r
	}
	return out
}
