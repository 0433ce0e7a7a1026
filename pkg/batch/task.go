package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
	"github.com/aretw0/motionplan/pkg/registry"
	"github.com/aretw0/motionplan/pkg/search"
)

// runTask produces the Result of one task and fires the task hooks.
// With hard set, the search runs on its own goroutine and is abandoned once
// timeout plus grace has elapsed.
func (o *Orchestrator) runTask(ctx context.Context, t Task, hard bool) domain.Result {
	if o.hooks.OnTaskStart != nil {
		o.hooks.OnTaskStart(ctx, &domain.TaskEvent{
			EventBase:  domain.EventBase{Timestamp: o.now(), Type: domain.EventTaskStart},
			ScenarioID: t.ScenarioID,
			Planner:    t.Config.Planner,
		})
	}

	start := time.Now()
	var res domain.Result
	if hard {
		res = o.runBounded(ctx, t)
	} else {
		res = o.safeSolve(ctx, t)
	}
	res.RuntimeSeconds = time.Since(start).Seconds()

	logger := o.logger.With("scenario", t.ScenarioID, "planner", t.Config.Planner)
	if res.Status == domain.StatusError {
		logger.Error("Task failed", "err", res.Error)
	} else {
		logger.Info("Task finished",
			"status", res.Status,
			"runtime", res.Runtime(),
			"reused", res.Reused,
		)
	}

	if o.hooks.OnTaskDone != nil {
		done := res
		o.hooks.OnTaskDone(ctx, &domain.TaskEvent{
			EventBase:  domain.EventBase{Timestamp: o.now(), Type: domain.EventTaskDone},
			ScenarioID: t.ScenarioID,
			Planner:    t.Config.Planner,
			Result:     &done,
		})
	}
	return res
}

func (o *Orchestrator) runBounded(ctx context.Context, t Task) domain.Result {
	taskCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan domain.Result, 1)
	go func() {
		done <- o.safeSolve(taskCtx, t)
	}()

	timer := time.NewTimer(t.Config.TimeoutDuration() + o.grace)
	defer timer.Stop()

	select {
	case res := <-done:
		return res
	case <-timer.C:
		// the goroutine exits at its next loop iteration once taskCtx is canceled
		return timedOut(t, fmt.Errorf("%w: abandoned after %s", domain.ErrTimeout, t.Config.TimeoutDuration()+o.grace))
	case <-ctx.Done():
		return timedOut(t, fmt.Errorf("%w: %v", domain.ErrTimeout, ctx.Err()))
	}
}

// safeSolve turns a panic inside the task into an ERROR result.
func (o *Orchestrator) safeSolve(ctx context.Context, t Task) (res domain.Result) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("Task panicked",
				"scenario", t.ScenarioID,
				"panic", r,
				"stack", string(debug.Stack()),
			)
			res = failed(t, fmt.Errorf("%w: panic: %v", domain.ErrWorkerFailure, r))
		}
	}()

	if o.guard == nil {
		return o.solve(ctx, t)
	}

	err := o.guard.WithLock(ctx, t.ScenarioID, func(ctx context.Context) error {
		if !t.Config.Overwrite {
			existing, err := o.guard.Existing(ctx, t.ScenarioID)
			if err != nil {
				return err
			}
			if existing != nil {
				res = reused(t, existing)
				return nil
			}
		}

		res = o.solve(ctx, t)
		if res.Status != domain.StatusSolved {
			return nil
		}
		if ctx.Err() != nil {
			// the worker has already given up on this task
			res = timedOut(t, fmt.Errorf("%w: %v", domain.ErrTimeout, ctx.Err()))
			return nil
		}
		if err := o.guard.Publish(ctx, &res); err != nil {
			res = failed(t, err)
		}
		return nil
	})
	if err != nil {
		return failed(t, err)
	}
	return res
}

// solve runs the configured planner on the scenario's selected problem.
func (o *Orchestrator) solve(ctx context.Context, t Task) domain.Result {
	cfg := t.Config
	logger := o.logger.With("scenario", t.ScenarioID, "planner", cfg.Planner)

	sc, err := o.loader.LoadScenario(ctx, t.ScenarioID)
	if err != nil {
		return failed(t, err)
	}
	problem, err := sc.Problem(cfg.PlanningProblemIdx)
	if err != nil {
		return failed(t, err)
	}
	if sc.Automata == nil {
		return failed(t, fmt.Errorf("scenario %s has no motion primitives", sc.ID))
	}
	automaton, err := sc.Automata.Automaton(cfg.VehicleModel, cfg.VehicleType)
	if err != nil {
		return failed(t, fmt.Errorf("failed to load motion primitives: %w", err))
	}

	checker := sc.Collision
	if checker == nil {
		checker = ports.FreeSpace{}
	}
	offset := domain.RearAxleDistance(cfg.VehicleType)

	strategy, err := o.registry.Build(cfg.Planner, registry.Env{
		Problem:        problem,
		Offset:         offset,
		Collision:      checker,
		Weights:        cfg.Weights(),
		ObstacleWeight: cfg.ObstacleWeight,
	})
	if err != nil {
		return failed(t, err)
	}

	engine := search.NewEngine(strategy, automaton, checker, problem.Goal,
		search.WithMaxDepth(cfg.MaxTreeDepth),
		search.WithTimeout(cfg.TimeoutDuration()),
		search.WithOffset(offset),
		search.WithLogger(logger),
		search.WithHooks(o.hooks),
	)

	out, err := engine.Search(ctx, problem.Initial)
	if err != nil {
		return failed(t, err)
	}

	res := base(t)
	res.Status = out.Status()
	res.NodesExpanded = out.NodesExpanded
	if out.Outcome != domain.OutcomeGoalFound {
		res.Error = out.Outcome.Err().Error()
		return res
	}
	res.Trajectory = out.Trajectory
	res.Cost = out.Cost
	res.Depth = out.Node.Depth

	if cfg.ValidateSolution && o.validator != nil {
		verr := o.validator.Validate(ctx, sc, problem, &res)
		ok := verr == nil
		res.Validated = &ok
		if verr != nil {
			res.Status = domain.StatusError
			res.Error = fmt.Sprintf("validation failed: %v", verr)
		}
	}
	return res
}

func base(t Task) domain.Result {
	return domain.Result{
		ScenarioID:   t.ScenarioID,
		Planner:      t.Config.Planner,
		VehicleModel: t.Config.VehicleModel,
		VehicleType:  t.Config.VehicleType,
		CostFunction: t.Config.CostFunction,
	}
}

func failed(t Task, err error) domain.Result {
	res := base(t)
	res.Status = domain.StatusError
	if errors.Is(err, domain.ErrTimeout) {
		res.Status = domain.StatusTimeout
	}
	res.Error = err.Error()
	return res
}

func timedOut(t Task, err error) domain.Result {
	res := base(t)
	res.Status = domain.StatusTimeout
	res.Error = err.Error()
	return res
}

func reused(t Task, existing *domain.Result) domain.Result {
	res := *existing
	res.ScenarioID = t.ScenarioID
	res.Status = domain.StatusSolved
	res.Reused = true
	res.Error = ""
	return res
}
