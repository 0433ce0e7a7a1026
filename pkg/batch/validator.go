package batch

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
)

// ErrInvalidSolution is returned by ConsistencyValidator for a trajectory
// that does not solve its planning problem.
var ErrInvalidSolution = errors.New("invalid solution")

// ConsistencyValidator is the default validator. It replays the trajectory
// against the planning problem: it must start at the initial state, advance
// in time, end inside the goal region and never collide.
type ConsistencyValidator struct{}

// Validate implements ports.Validator.
func (ConsistencyValidator) Validate(ctx context.Context, sc *ports.Scenario, problem domain.PlanningProblem, res *domain.Result) error {
	traj := res.Trajectory
	if traj.Empty() {
		return fmt.Errorf("%w: empty trajectory", ErrInvalidSolution)
	}

	first := traj[0]
	init := problem.Initial
	if first.TimeStep != init.TimeStep ||
		math.Abs(first.Position.X-init.Position.X) > domain.Tolerance ||
		math.Abs(first.Position.Y-init.Position.Y) > domain.Tolerance {
		return fmt.Errorf("%w: trajectory does not start at the initial state", ErrInvalidSolution)
	}

	for i := 1; i < len(traj); i++ {
		if traj[i].TimeStep <= traj[i-1].TimeStep {
			return fmt.Errorf("%w: time step %d at index %d does not advance", ErrInvalidSolution, traj[i].TimeStep, i)
		}
	}

	offset := domain.RearAxleDistance(res.VehicleType)
	if !problem.Goal.Contains(traj.Last(), offset) {
		return fmt.Errorf("%w: final state at time step %d is outside the goal region", ErrInvalidSolution, traj.Last().TimeStep)
	}

	if sc != nil && sc.Collision != nil && sc.Collision.Collides(traj) {
		return fmt.Errorf("%w: trajectory collides", ErrInvalidSolution)
	}
	return nil
}

// Chain runs validators in order and stops at the first rejection.
type Chain []ports.Validator

// Validate implements ports.Validator.
func (c Chain) Validate(ctx context.Context, sc *ports.Scenario, problem domain.PlanningProblem, res *domain.Result) error {
	for _, v := range c {
		if err := v.Validate(ctx, sc, problem, res); err != nil {
			return err
		}
	}
	return nil
}
