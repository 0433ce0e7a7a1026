package loam

import (
	"github.com/aretw0/motionplan/pkg/adapters/lattice"
	"github.com/aretw0/motionplan/pkg/domain"
)

// ScenarioMetadata is the front matter (or whole JSON/YAML body) of a scenario document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type ScenarioMetadata struct {
	ID               string                   `json:"id" mapstructure:"id"`
	PlanningProblems []domain.PlanningProblem `json:"planning_problems" mapstructure:"planning_problems"`
	Obstacles        []lattice.Obstacle       `json:"obstacles" mapstructure:"obstacles"`

	// Margin is the collision radius around the vehicle reference point, in meters.
	Margin float64 `json:"margin" mapstructure:"margin"`

	// General Metadata
	Tags map[string]string `json:"tags" mapstructure:"tags"`
}
