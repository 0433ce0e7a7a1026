package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
)

// Validate resolves every scenario's config and checks that each scenario
// loads, has the selected planning problem and has primitives for its vehicle.
// Config errors stop at the first one; scenario errors are collected.
func Validate(ctx context.Context, opts Options, out io.Writer) error {
	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	orch, err := app.Orchestrator()
	if err != nil {
		return err
	}

	ids, err := app.Loader.ListScenarios(ctx)
	if err != nil {
		return fmt.Errorf("failed to list scenarios: %w", err)
	}
	tasks, err := orch.Plan(app.Batch, ids)
	if err != nil {
		return err
	}

	var errs []error
	for _, t := range tasks {
		sc, err := app.Loader.LoadScenario(ctx, t.ScenarioID)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if _, err := sc.Problem(t.Config.PlanningProblemIdx); err != nil {
			errs = append(errs, err)
			continue
		}
		if sc.Automata == nil {
			errs = append(errs, fmt.Errorf("scenario %s: no automaton provider", t.ScenarioID))
			continue
		}
		if _, err := sc.Automata.Automaton(t.Config.VehicleModel, t.Config.VehicleType); err != nil {
			errs = append(errs, fmt.Errorf("scenario %s: %w", t.ScenarioID, err))
			continue
		}
		fmt.Fprintf(out, "ok  %s (%s, %s/%s, problem %d)\n",
			t.ScenarioID, t.Config.Planner, t.Config.VehicleModel, t.Config.VehicleType, t.Config.PlanningProblemIdx)
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	fmt.Fprintf(out, "%d scenarios valid\n", len(tasks))
	return nil
}
