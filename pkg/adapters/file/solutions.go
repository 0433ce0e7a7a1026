package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/motionplan/pkg/domain"
)

// Solutions implements ports.SolutionWriter with one JSON file per scenario.
type Solutions struct {
	BasePath string
}

// NewSolutions creates a solution writer rooted at basePath.
func NewSolutions(basePath string) *Solutions {
	return &Solutions{BasePath: basePath}
}

// Exists reports whether <scenario>.json is present.
func (s *Solutions) Exists(ctx context.Context, scenarioID string) (bool, error) {
	_, err := os.Stat(filepath.Join(s.BasePath, scenarioID+".json"))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat solution for %s: %w", scenarioID, err)
}

// Write replaces the scenario's solution atomically.
func (s *Solutions) Write(ctx context.Context, result *domain.Result) error {
	return writeJSON(s.BasePath, result.ScenarioID, result)
}

// Read loads a stored solution.
func (s *Solutions) Read(ctx context.Context, scenarioID string) (*domain.Result, error) {
	var result domain.Result
	if err := readJSON(s.BasePath, scenarioID, &result, domain.ErrSolutionNotFound); err != nil {
		return nil, err
	}
	return &result, nil
}
