package search_test

import (
	"errors"

	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
)

// corridor moves along +x. Each primitive advances one state by dx and dt.
type corridor struct {
	steps []step
	maxX  float64 // no successors at or beyond maxX; 0 disables the bound
}

type step struct {
	dx float64
	dt int
}

func (c corridor) Successors(from domain.State) ([]domain.Path, error) {
	if c.maxX > 0 && from.Position.X >= c.maxX {
		return nil, nil
	}
	out := make([]domain.Path, 0, len(c.steps))
	for _, s := range c.steps {
		out = append(out, domain.Path{{
			Position:    domain.Vec2{X: from.Position.X + s.dx},
			Orientation: from.Orientation,
			Velocity:    from.Velocity,
			TimeStep:    from.TimeStep + s.dt,
		}})
	}
	return out, nil
}

// threeWay is the reference corridor: three primitives, two time steps each.
var threeWay = corridor{steps: []step{{1, 2}, {2, 2}, {3, 2}}}

func origin() domain.State {
	return domain.State{Velocity: 1}
}

func xGoal(lo, hi float64) domain.GoalRegion {
	return domain.GoalRegion{
		Time:     domain.TimeInterval{Start: 0, End: 1000},
		Position: &domain.Rect{X: domain.Interval{Start: lo, End: hi}, Y: domain.Interval{Start: -1, End: 1}},
	}
}

func xs(p domain.Path) []float64 {
	out := make([]float64, len(p))
	for i, s := range p {
		out[i] = s.Position.X
	}
	return out
}

// wall rejects any path entering the given x positions.
type wall map[float64]bool

func (w wall) Collides(p domain.Path) bool {
	for _, s := range p {
		if w[s.Position.X] {
			return true
		}
	}
	return false
}

func (w wall) DistanceToObstacle(s domain.State) float64 {
	best := 1e9
	for x := range w {
		d := x - s.Position.X
		if d < 0 {
			d = -d
		}
		if d < best {
			best = d
		}
	}
	return best
}

var errBroken = errors.New("primitive table missing")

var brokenAutomaton = ports.AutomatonFunc(func(domain.State) ([]domain.Path, error) {
	return nil, errBroken
})
