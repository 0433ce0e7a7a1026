package ports

import "github.com/aretw0/motionplan/pkg/domain"

// Automaton yields the primitive successors of a state.
type Automaton interface {
	// Successors returns one path per applicable primitive. Each path starts with
	// the first state after from and has strictly increasing time steps.
	// The order must be the same for identical input.
	Successors(from domain.State) ([]domain.Path, error)
}

// AutomatonProvider builds the automaton for a vehicle configuration.
type AutomatonProvider interface {
	Automaton(model domain.VehicleModel, vehicle domain.VehicleType) (Automaton, error)
}

// AutomatonFunc adapts a plain function to Automaton.
type AutomatonFunc func(from domain.State) ([]domain.Path, error)

// Successors calls f(from).
func (f AutomatonFunc) Successors(from domain.State) ([]domain.Path, error) {
	return f(from)
}
