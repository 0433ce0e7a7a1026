package search

import (
	"math"

	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
)

// velocityEpsilon matches the absolute tolerance used to call a vehicle stopped.
const velocityEpsilon = 1e-8

// ObstacleHorizon caps the clearance rewarded by WithObstacleBias, in meters.
const ObstacleHorizon = 20.0

// TimeToGoal estimates remaining time from the squared distance between the
// vehicle center and the goal rectangle, divided by the current velocity.
// Without a position goal it falls back to the earliest goal time step.
// A stopped vehicle scores +Inf. The estimate is not admissible.
func TimeToGoal(problem domain.PlanningProblem, offset float64) HeuristicFunc {
	goal := problem.Goal
	return func(n *Node) float64 {
		last := n.LastPath()
		if ReachedGoal(goal, last, offset) {
			return 0
		}

		s := last.Last()
		if goal.Position == nil {
			return float64(goal.Time.Start - s.TimeStep)
		}
		if math.Abs(s.Velocity) <= velocityEpsilon {
			return math.Inf(1)
		}

		c := domain.Center(s, offset)
		dx := goal.Position.X.Distance(c.X)
		dy := goal.Position.Y.Distance(c.Y)
		return 0.5 * (dx*dx + dy*dy) / s.Velocity
	}
}

// TimeLowerBound is the number of time steps still missing before the goal
// window opens. It never overestimates ElapsedTime and is consistent.
func TimeLowerBound(problem domain.PlanningProblem) HeuristicFunc {
	start := problem.Goal.Time.Start
	return func(n *Node) float64 {
		return math.Max(0, float64(start-n.Last().TimeStep))
	}
}

// WithObstacleBias lowers h by weight times the clearance of the last state,
// capped at ObstacleHorizon. It only reorders the frontier.
func WithObstacleBias(h HeuristicFunc, checker ports.CollisionChecker, weight float64) HeuristicFunc {
	if weight == 0 || checker == nil {
		return h
	}
	return func(n *Node) float64 {
		v := h(n)
		if math.IsInf(v, 1) {
			return v
		}
		d := math.Min(checker.DistanceToObstacle(n.Last()), ObstacleHorizon)
		return v - weight*d
	}
}
