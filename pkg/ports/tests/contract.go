package tests

import (
	"context"
	"errors"
	"testing"

	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
)

// ScenarioLoaderContractTest is a reusable test suite that verifies if an adapter complies with ports.ScenarioLoader.
// expected maps each scenario id to its number of planning problems.
func ScenarioLoaderContractTest(t *testing.T, loader ports.ScenarioLoader, expected map[string]int) {
	t.Helper()
	ctx := context.Background()

	t.Run("LoadScenario_Success", func(t *testing.T) {
		for id, problems := range expected {
			sc, err := loader.LoadScenario(ctx, id)
			if err != nil {
				t.Fatalf("unexpected error loading scenario %s: %v", id, err)
			}
			if sc.ID != id {
				t.Errorf("id mismatch: got %q, want %q", sc.ID, id)
			}
			if len(sc.Problems) != problems {
				t.Errorf("scenario %s: got %d planning problems, want %d", id, len(sc.Problems), problems)
			}
			if sc.Collision == nil || sc.Automata == nil {
				t.Errorf("scenario %s: missing collision checker or automaton provider", id)
			}
		}
	})

	t.Run("LoadScenario_NotFound", func(t *testing.T) {
		_, err := loader.LoadScenario(ctx, "non-existent-scenario")
		if err == nil {
			t.Fatal("expected error for non-existent scenario, got nil")
		}
		if !errors.Is(err, domain.ErrScenarioNotFound) {
			t.Errorf("expected ErrScenarioNotFound, got %v", err)
		}
	})

	t.Run("ListScenarios", func(t *testing.T) {
		ids, err := loader.ListScenarios(ctx)
		if err != nil {
			t.Fatalf("unexpected error listing scenarios: %v", err)
		}

		if len(ids) != len(expected) {
			t.Errorf("expected %d scenarios, got %d", len(expected), len(ids))
		}

		lookup := make(map[string]bool)
		for _, id := range ids {
			lookup[id] = true
		}

		for id := range expected {
			if !lookup[id] {
				t.Errorf("scenario %s missing from list", id)
			}
		}
	})
}
