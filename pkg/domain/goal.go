package domain

import "math"

// Tolerance absorbs floating-point noise in interval checks.
const Tolerance = 1e-9

// Interval is a closed range of real values.
type Interval struct {
	Start float64 `json:"start" yaml:"start" mapstructure:"start"`
	End   float64 `json:"end" yaml:"end" mapstructure:"end"`
}

// Contains reports whether v lies in [Start, End].
func (i Interval) Contains(v float64) bool {
	return v >= i.Start-Tolerance && v <= i.End+Tolerance
}

// Distance returns 0 when v is contained, otherwise the distance to the closer bound.
func (i Interval) Distance(v float64) float64 {
	if i.Contains(v) {
		return 0
	}
	return math.Min(math.Abs(i.Start-v), math.Abs(i.End-v))
}

// TimeInterval is a closed range of time steps.
type TimeInterval struct {
	Start int `json:"start" yaml:"start" mapstructure:"start"`
	End   int `json:"end" yaml:"end" mapstructure:"end"`
}

// Contains reports whether t lies in [Start, End].
func (i TimeInterval) Contains(t int) bool {
	return t >= i.Start && t <= i.End
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X Interval `json:"x" yaml:"x" mapstructure:"x"`
	Y Interval `json:"y" yaml:"y" mapstructure:"y"`
}

// Contains reports whether p lies inside the rectangle.
func (r Rect) Contains(p Vec2) bool {
	return r.X.Contains(p.X) && r.Y.Contains(p.Y)
}

// GoalRegion defines acceptance for a planning problem. Time is mandatory; the
// other constraints apply only when set.
type GoalRegion struct {
	Time        TimeInterval `json:"time" yaml:"time" mapstructure:"time"`
	Position    *Rect        `json:"position,omitempty" yaml:"position,omitempty" mapstructure:"position"`
	Orientation *Interval    `json:"orientation,omitempty" yaml:"orientation,omitempty" mapstructure:"orientation"`
	Velocity    *Interval    `json:"velocity,omitempty" yaml:"velocity,omitempty" mapstructure:"velocity"`
}

// Center shifts the state's reference point (rear axle) forward by offset along
// its orientation, yielding the vehicle center.
func Center(s State, offset float64) Vec2 {
	if offset == 0 {
		return s.Position
	}
	sin, cos := math.Sincos(s.Orientation)
	return Vec2{X: s.Position.X + offset*cos, Y: s.Position.Y + offset*sin}
}

// Contains reports whether s satisfies every constraint of the region.
// Positions are compared after the reference-point correction.
func (g GoalRegion) Contains(s State, offset float64) bool {
	if !g.Time.Contains(s.TimeStep) {
		return false
	}
	if g.Position != nil && !g.Position.Contains(Center(s, offset)) {
		return false
	}
	if g.Orientation != nil && !g.Orientation.Contains(s.Orientation) {
		return false
	}
	if g.Velocity != nil && !g.Velocity.Contains(s.Velocity) {
		return false
	}
	return true
}

// FirstReached returns the index of the first state of p inside the region.
func (g GoalRegion) FirstReached(p Path, offset float64) (int, bool) {
	for i, s := range p {
		if g.Contains(s, offset) {
			return i, true
		}
	}
	return -1, false
}

// PlanningProblem pairs an initial state with the region to reach.
type PlanningProblem struct {
	ID      int        `json:"id" yaml:"id" mapstructure:"id"`
	Initial State      `json:"initial_state" yaml:"initial_state" mapstructure:"initial_state"`
	Goal    GoalRegion `json:"goal" yaml:"goal" mapstructure:"goal"`
}
