package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
)

// Loader implements ports.ScenarioLoader over scenarios built in code.
// Scenarios are handed out as-is and must not be mutated by callers.
type Loader struct {
	scenarios map[string]*ports.Scenario
}

// NewLoader creates a Loader holding the given scenarios.
func NewLoader(scenarios ...*ports.Scenario) (*Loader, error) {
	l := &Loader{scenarios: make(map[string]*ports.Scenario, len(scenarios))}
	for _, sc := range scenarios {
		if sc.ID == "" {
			return nil, fmt.Errorf("scenario missing ID")
		}
		if _, dup := l.scenarios[sc.ID]; dup {
			return nil, fmt.Errorf("duplicate scenario %s", sc.ID)
		}
		l.scenarios[sc.ID] = sc
	}
	return l, nil
}

// ListScenarios returns all scenario IDs.
func (l *Loader) ListScenarios(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(l.scenarios))
	for k := range l.scenarios {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}

// LoadScenario returns the scenario registered under id.
func (l *Loader) LoadScenario(ctx context.Context, id string) (*ports.Scenario, error) {
	sc, ok := l.scenarios[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrScenarioNotFound, id)
	}
	return sc, nil
}
