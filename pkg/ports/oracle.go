package ports

import (
	"math"

	"github.com/aretw0/motionplan/pkg/domain"
)

// CollisionChecker answers the two obstacle questions the search asks.
// Collides is a hard filter on successors; DistanceToObstacle is a soft
// signal only heuristics may use.
type CollisionChecker interface {
	Collides(path domain.Path) bool
	DistanceToObstacle(s domain.State) float64
}

// FreeSpace is a CollisionChecker for an empty world.
type FreeSpace struct{}

func (FreeSpace) Collides(domain.Path) bool { return false }

func (FreeSpace) DistanceToObstacle(domain.State) float64 { return math.Inf(1) }
