package domain

import (
	"errors"
	"fmt"
)

// ErrNoSolution is returned when the frontier is exhausted without reaching the goal.
var ErrNoSolution = errors.New("no solution found")

// ErrDepthLimit is returned when the depth bound pruned every remaining branch.
var ErrDepthLimit = errors.New("depth limit exceeded")

// ErrTimeout is returned when a search hits its wall-clock bound.
var ErrTimeout = errors.New("search timed out")

// ErrInvalidConfig is returned when a batch configuration is missing or contradicts a required key.
var ErrInvalidConfig = errors.New("invalid config")

// ErrWorkerFailure marks an uncaught fault inside a task.
var ErrWorkerFailure = errors.New("worker failure")

// ErrScenarioNotFound is returned when a loader has no scenario with the given id.
var ErrScenarioNotFound = errors.New("scenario not found")

// ErrSolutionNotFound is returned when no solution artifact exists for a scenario.
var ErrSolutionNotFound = errors.New("solution not found")

// ErrReportNotFound is returned when a report id cannot be found in the store.
var ErrReportNotFound = errors.New("report not found")

// ErrUnknownPlanner is returned for planner ids without a registered strategy.
var ErrUnknownPlanner = errors.New("unknown planner")

// ConfigError locates an invalid configuration value.
type ConfigError struct {
	Scenario string
	Key      string
	Reason   string
}

func (e *ConfigError) Error() string {
	if e.Scenario == "" {
		return fmt.Sprintf("invalid config: %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("invalid config for scenario %s: %s: %s", e.Scenario, e.Key, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}
