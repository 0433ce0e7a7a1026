package ports

import (
	"context"

	"github.com/aretw0/motionplan/pkg/domain"
)

// SolutionWriter persists one solution artifact per scenario.
type SolutionWriter interface {
	// Exists reports whether an artifact is already stored for the scenario.
	Exists(ctx context.Context, scenarioID string) (bool, error)

	// Write stores the result as the scenario's artifact, replacing any previous one.
	Write(ctx context.Context, result *domain.Result) error

	// Read loads a stored artifact.
	// Returns domain.ErrSolutionNotFound if there is none.
	Read(ctx context.Context, scenarioID string) (*domain.Result, error)
}

// ReportStore defines the interface for persisting batch reports.
type ReportStore interface {
	// Save persists the report under its RunID.
	Save(ctx context.Context, report *domain.Report) error

	// Load retrieves a report.
	// Returns domain.ErrReportNotFound if the run id is unknown.
	Load(ctx context.Context, runID string) (*domain.Report, error)

	// Delete removes a report. Deleting an unknown id is not an error.
	Delete(ctx context.Context, runID string) error

	// List returns all stored run ids.
	List(ctx context.Context) ([]string, error)
}

// Validator checks a solved trajectory against its planning problem.
type Validator interface {
	Validate(ctx context.Context, scenario *Scenario, problem domain.PlanningProblem, result *domain.Result) error
}
