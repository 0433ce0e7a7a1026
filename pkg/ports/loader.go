package ports

import (
	"context"
	"fmt"

	"github.com/aretw0/motionplan/pkg/domain"
)

// Scenario bundles everything a search task needs for one input scenario.
type Scenario struct {
	ID        string
	Problems  []domain.PlanningProblem
	Collision CollisionChecker
	Automata  AutomatonProvider
}

// Problem returns the planning problem at idx.
func (s *Scenario) Problem(idx int) (domain.PlanningProblem, error) {
	if idx < 0 || idx >= len(s.Problems) {
		return domain.PlanningProblem{}, fmt.Errorf("scenario %s: planning problem %d out of range [0,%d)", s.ID, idx, len(s.Problems))
	}
	return s.Problems[idx], nil
}

// ScenarioLoader defines how the orchestrator discovers and opens scenarios.
// This allows the storage layer (Loam, Memory) to be decoupled.
type ScenarioLoader interface {
	// ListScenarios returns every scenario id available in the input.
	ListScenarios(ctx context.Context) ([]string, error)

	// LoadScenario opens a scenario by id.
	// Returns domain.ErrScenarioNotFound if it does not exist.
	LoadScenario(ctx context.Context, id string) (*Scenario, error)
}
