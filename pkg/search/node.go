package search

import "github.com/aretw0/motionplan/pkg/domain"

// Node is a partial trajectory waiting in, or popped from, the frontier.
// A Node is not modified after it has been pushed.
type Node struct {
	// Paths concatenated end to end reconstruct the trajectory from the initial state.
	Paths []domain.Path

	Priority float64
	Cost     float64
	Depth    int    // primitives applied since the root
	Seq      uint64 // insertion counter of the search that created the node
}

// newRoot wraps the initial state in a depth-0 node.
func newRoot(initial domain.State) *Node {
	return &Node{Paths: []domain.Path{{initial}}}
}

// Initial returns the first state of the trajectory.
func (n *Node) Initial() domain.State {
	return n.Paths[0][0]
}

// LastPath returns the most recently appended path.
func (n *Node) LastPath() domain.Path {
	return n.Paths[len(n.Paths)-1]
}

// Last returns the final state of the trajectory.
func (n *Node) Last() domain.State {
	return n.LastPath().Last()
}

// Trajectory flattens the node into one path.
func (n *Node) Trajectory() domain.Path {
	return domain.Concat(n.Paths...)
}

// child appends p in a fresh path list so siblings never share a backing array.
func (n *Node) child(p domain.Path) *Node {
	paths := make([]domain.Path, len(n.Paths), len(n.Paths)+1)
	copy(paths, n.Paths)
	return &Node{
		Paths: append(paths, p),
		Depth: n.Depth + 1,
	}
}

// withLastPath returns a copy of n whose final path is replaced by p.
func (n *Node) withLastPath(p domain.Path) *Node {
	paths := make([]domain.Path, len(n.Paths))
	copy(paths, n.Paths)
	paths[len(paths)-1] = p
	out := *n
	out.Paths = paths
	return &out
}
