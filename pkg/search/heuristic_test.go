package search_test

import (
	"math"
	"testing"

	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/search"
	"github.com/stretchr/testify/assert"
)

func at(s domain.State) *search.Node {
	return &search.Node{Paths: []domain.Path{{origin()}, {s}}, Depth: 1}
}

func TestTimeToGoal(t *testing.T) {
	problem := domain.PlanningProblem{Goal: domain.GoalRegion{
		Time:     domain.TimeInterval{Start: 10, End: 20},
		Position: &domain.Rect{X: domain.Interval{Start: 10, End: 12}, Y: domain.Interval{Start: 0, End: 1}},
	}}

	t.Run("GoalReached", func(t *testing.T) {
		h := search.TimeToGoal(problem, 0)
		assert.Zero(t, h(at(domain.State{Position: domain.Vec2{X: 11}, Velocity: 3, TimeStep: 15})))
	})

	t.Run("SquaredErrorOverVelocity", func(t *testing.T) {
		h := search.TimeToGoal(problem, 0)
		// dx = 10-4 = 6, dy = 3-1 = 2
		got := h(at(domain.State{Position: domain.Vec2{X: 4, Y: 3}, Velocity: 2, TimeStep: 1}))
		assert.InDelta(t, 0.5*(36+4)/2, got, 1e-12)
	})

	t.Run("InsideOnOneAxis", func(t *testing.T) {
		h := search.TimeToGoal(problem, 0)
		// y is inside, x is 2m past the far edge
		got := h(at(domain.State{Position: domain.Vec2{X: 14, Y: 0.5}, Velocity: 1, TimeStep: 1}))
		assert.InDelta(t, 0.5*4, got, 1e-12)
	})

	t.Run("VehicleCenterOffset", func(t *testing.T) {
		h := search.TimeToGoal(problem, 1.5)
		// rear axle at x=7, heading +x: center at 8.5
		got := h(at(domain.State{Position: domain.Vec2{X: 7, Y: 0.5}, Velocity: 1, TimeStep: 1}))
		assert.InDelta(t, 0.5*1.5*1.5, got, 1e-12)
	})

	t.Run("Stopped", func(t *testing.T) {
		h := search.TimeToGoal(problem, 0)
		got := h(at(domain.State{Position: domain.Vec2{X: 4}, Velocity: 1e-12, TimeStep: 1}))
		assert.True(t, math.IsInf(got, 1))
	})

	t.Run("TimeOnlyGoal", func(t *testing.T) {
		timeOnly := domain.PlanningProblem{Goal: domain.GoalRegion{Time: domain.TimeInterval{Start: 10, End: 20}}}
		h := search.TimeToGoal(timeOnly, 0)
		assert.Equal(t, 7.0, h(at(domain.State{TimeStep: 3})))
		assert.Zero(t, h(at(domain.State{TimeStep: 12})))
	})
}

func TestTimeLowerBound(t *testing.T) {
	h := search.TimeLowerBound(domain.PlanningProblem{Goal: domain.GoalRegion{Time: domain.TimeInterval{Start: 10, End: 20}}})

	assert.Equal(t, 6.0, h(at(domain.State{TimeStep: 4})))
	assert.Zero(t, h(at(domain.State{TimeStep: 10})))
	assert.Zero(t, h(at(domain.State{TimeStep: 30})))
}

func TestWithObstacleBias(t *testing.T) {
	base := func(*search.Node) float64 { return 10 }

	t.Run("ZeroWeight", func(t *testing.T) {
		h := search.WithObstacleBias(base, wall{0: true}, 0)
		assert.Equal(t, 10.0, h(at(domain.State{Position: domain.Vec2{X: 4}})))
	})

	t.Run("RewardsClearance", func(t *testing.T) {
		h := search.WithObstacleBias(base, wall{10: true}, 0.5)
		near := h(at(domain.State{Position: domain.Vec2{X: 9}}))
		far := h(at(domain.State{Position: domain.Vec2{X: 4}}))
		assert.Equal(t, 9.5, near)
		assert.Equal(t, 7.0, far)
		assert.Less(t, far, near)
	})

	t.Run("CappedAtHorizon", func(t *testing.T) {
		h := search.WithObstacleBias(base, wall{1000: true}, 1)
		assert.Equal(t, 10-search.ObstacleHorizon, h(at(domain.State{})))
	})

	t.Run("InfinityPreserved", func(t *testing.T) {
		inf := func(*search.Node) float64 { return math.Inf(1) }
		h := search.WithObstacleBias(inf, wall{1: true}, 1)
		assert.True(t, math.IsInf(h(at(domain.State{})), 1))
	})
}
