// Package lattice is a table-driven motion primitive automaton.
//
// Each primitive is a list of state offsets expressed in the vehicle frame of
// the state it is applied to. Applying a primitive rotates the offsets by the
// current orientation, translates them to the current position and shifts the
// time steps. The package also provides a box-obstacle collision checker.
package lattice
