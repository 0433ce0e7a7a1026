package search

import "github.com/aretw0/motionplan/pkg/domain"

// ReachedGoal reports whether any state of path lies in the goal region.
func ReachedGoal(goal domain.GoalRegion, path domain.Path, offset float64) bool {
	_, ok := goal.FirstReached(path, offset)
	return ok
}

// TrimToGoal returns the prefix of path up to and including the first goal state.
// A path that never reaches the goal is returned unchanged.
func TrimToGoal(goal domain.GoalRegion, path domain.Path, offset float64) domain.Path {
	i, ok := goal.FirstReached(path, offset)
	if !ok {
		return path
	}
	return path[:i+1]
}
