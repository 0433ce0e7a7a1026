package lattice

import (
	"math"

	"github.com/aretw0/motionplan/pkg/domain"
)

// Obstacle is an axis-aligned box, optionally present only during a time window.
type Obstacle struct {
	ID     string               `yaml:"id" json:"id" mapstructure:"id"`
	Box    domain.Rect          `yaml:"box" json:"box" mapstructure:"box"`
	During *domain.TimeInterval `yaml:"during,omitempty" json:"during,omitempty" mapstructure:"during"`
}

func (o Obstacle) activeAt(t int) bool {
	return o.During == nil || o.During.Contains(t)
}

// distance from p to the box, 0 inside.
func (o Obstacle) distance(p domain.Vec2) float64 {
	dx := o.Box.X.Distance(p.X)
	dy := o.Box.Y.Distance(p.Y)
	return math.Hypot(dx, dy)
}

// Obstacles implements ports.CollisionChecker for box obstacles and a
// disc-shaped vehicle of radius Margin centered on each state.
type Obstacles struct {
	Items  []Obstacle
	Margin float64

	// Offset moves the checked point from the reference point to the vehicle center.
	Offset float64
}

// Collides reports whether any state of the path is within Margin of an active obstacle.
func (o *Obstacles) Collides(path domain.Path) bool {
	for _, s := range path {
		c := domain.Center(s, o.Offset)
		for _, ob := range o.Items {
			if ob.activeAt(s.TimeStep) && ob.distance(c) <= o.Margin {
				return true
			}
		}
	}
	return false
}

// DistanceToObstacle returns the clearance between the vehicle disc and the
// closest obstacle active at the state's time step. +Inf when there is none.
func (o *Obstacles) DistanceToObstacle(s domain.State) float64 {
	c := domain.Center(s, o.Offset)
	best := math.Inf(1)
	for _, ob := range o.Items {
		if !ob.activeAt(s.TimeStep) {
			continue
		}
		best = math.Min(best, ob.distance(c)-o.Margin)
	}
	return math.Max(best, 0)
}
