package lattice

import (
	"fmt"

	"github.com/aretw0/motionplan/pkg/domain"
)

// Step is one state of a primitive relative to its start state.
type Step struct {
	DX       float64 `yaml:"dx" json:"dx"`
	DY       float64 `yaml:"dy" json:"dy"`
	DTheta   float64 `yaml:"dtheta" json:"dtheta"`
	Velocity float64 `yaml:"velocity" json:"velocity"` // absolute
	DT       int     `yaml:"dt" json:"dt"`
}

// Primitive is a precomputed control sequence.
type Primitive struct {
	Name  string           `yaml:"name" json:"name"`
	From  *domain.Interval `yaml:"from,omitempty" json:"from,omitempty"` // start velocities it applies to; nil means any
	Steps []Step           `yaml:"steps" json:"steps"`
}

// Validate checks that time strictly advances along the primitive.
func (p Primitive) Validate() error {
	if len(p.Steps) == 0 {
		return fmt.Errorf("primitive %q has no steps", p.Name)
	}
	prev := 0
	for i, s := range p.Steps {
		if s.DT <= prev {
			return fmt.Errorf("primitive %q: step %d does not advance time (dt=%d)", p.Name, i, s.DT)
		}
		prev = s.DT
	}
	return nil
}

// Applies reports whether the primitive can start at s.
func (p Primitive) Applies(s domain.State) bool {
	return p.From == nil || p.From.Contains(s.Velocity)
}

// Apply maps the primitive onto the start state.
func (p Primitive) Apply(from domain.State) domain.Path {
	out := make(domain.Path, len(p.Steps))
	for i, s := range p.Steps {
		rel := domain.Vec2{X: s.DX, Y: s.DY}.Rotate(from.Orientation)
		out[i] = domain.State{
			Position:    from.Position.Add(rel),
			Orientation: from.Orientation + s.DTheta,
			Velocity:    s.Velocity,
			TimeStep:    from.TimeStep + s.DT,
		}
	}
	return out
}

// Automaton implements ports.Automaton over a fixed primitive table.
type Automaton struct {
	primitives []Primitive
}

// NewAutomaton validates the primitives and keeps their order.
func NewAutomaton(primitives ...Primitive) (*Automaton, error) {
	for _, p := range primitives {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}
	return &Automaton{primitives: append([]Primitive(nil), primitives...)}, nil
}

// Successors applies every primitive valid at from, in table order.
func (a *Automaton) Successors(from domain.State) ([]domain.Path, error) {
	out := make([]domain.Path, 0, len(a.primitives))
	for _, p := range a.primitives {
		if p.Applies(from) {
			out = append(out, p.Apply(from))
		}
	}
	return out, nil
}

// Len returns the number of primitives.
func (a *Automaton) Len() int {
	return len(a.primitives)
}
