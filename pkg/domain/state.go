package domain

import "math"

// Vec2 is a planar position in meters.
type Vec2 struct {
	X float64 `json:"x" yaml:"x" mapstructure:"x"`
	Y float64 `json:"y" yaml:"y" mapstructure:"y"`
}

// Add returns the component-wise sum.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Rotate returns v rotated counter-clockwise by theta radians.
func (v Vec2) Rotate(theta float64) Vec2 {
	sin, cos := math.Sincos(theta)
	return Vec2{X: v.X*cos - v.Y*sin, Y: v.X*sin + v.Y*cos}
}

// State represents a snapshot of the vehicle at a discrete time step.
// States are values and are never mutated once a primitive produced them.
type State struct {
	Position    Vec2    `json:"position" yaml:"position" mapstructure:"position"`
	Orientation float64 `json:"orientation" yaml:"orientation" mapstructure:"orientation"`
	Velocity    float64 `json:"velocity" yaml:"velocity" mapstructure:"velocity"`
	TimeStep    int     `json:"time_step" yaml:"time_step" mapstructure:"time_step"`
}

// Path is a chronologically ordered sequence of States.
type Path []State

// Last returns the final state of the path.
// It panics on an empty path, like indexing would.
func (p Path) Last() State {
	return p[len(p)-1]
}

// Empty reports whether the path holds no states.
func (p Path) Empty() bool {
	return len(p) == 0
}

// Clone returns a copy that does not share the backing array.
func (p Path) Clone() Path {
	if p == nil {
		return nil
	}
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Concat joins paths end to end.
func Concat(paths ...Path) Path {
	n := 0
	for _, p := range paths {
		n += len(p)
	}
	out := make(Path, 0, n)
	for _, p := range paths {
		out = append(out, p...)
	}
	return out
}
