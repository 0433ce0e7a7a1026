package domain

import (
	"sort"
	"time"
)

// Status is the final classification of one scenario in a batch.
type Status string

const (
	StatusSolved     Status = "SOLVED"
	StatusNoSolution Status = "NO_SOLUTION"
	StatusDepthLimit Status = "DEPTH_LIMIT"
	StatusTimeout    Status = "TIMEOUT"
	StatusError      Status = "ERROR"
)

// Statuses lists every status in report order.
var Statuses = []Status{StatusSolved, StatusNoSolution, StatusDepthLimit, StatusTimeout, StatusError}

// Outcome is the terminal state of a single search.
type Outcome string

const (
	OutcomeGoalFound         Outcome = "GOAL_FOUND"
	OutcomeExhausted         Outcome = "EXHAUSTED"
	OutcomeDepthLimitReached Outcome = "DEPTH_LIMIT_REACHED"
	OutcomeTimedOut          Outcome = "TIMED_OUT"
)

// Status maps a search outcome onto the batch status taxonomy.
func (o Outcome) Status() Status {
	switch o {
	case OutcomeGoalFound:
		return StatusSolved
	case OutcomeExhausted:
		return StatusNoSolution
	case OutcomeDepthLimitReached:
		return StatusDepthLimit
	case OutcomeTimedOut:
		return StatusTimeout
	default:
		return StatusError
	}
}

// Err returns the sentinel error describing a non-goal outcome, or nil.
func (o Outcome) Err() error {
	switch o {
	case OutcomeGoalFound:
		return nil
	case OutcomeExhausted:
		return ErrNoSolution
	case OutcomeDepthLimitReached:
		return ErrDepthLimit
	case OutcomeTimedOut:
		return ErrTimeout
	default:
		return ErrWorkerFailure
	}
}

// Result is the outcome of solving one scenario.
// It is created by a worker and never mutated once handed to the orchestrator.
type Result struct {
	ScenarioID     string       `json:"scenario_id"`
	Planner        string       `json:"planner,omitempty"`
	VehicleModel   VehicleModel `json:"vehicle_model,omitempty"`
	VehicleType    VehicleType  `json:"vehicle_type,omitempty"`
	CostFunction   string       `json:"cost_function,omitempty"`
	Status         Status       `json:"status"`
	Trajectory     Path         `json:"trajectory,omitempty"`
	Cost           float64      `json:"cost,omitempty"`
	Depth          int          `json:"depth,omitempty"`
	NodesExpanded  int          `json:"nodes_expanded,omitempty"`
	RuntimeSeconds float64      `json:"runtime_seconds"`
	Reused         bool         `json:"reused,omitempty"`
	Validated      *bool        `json:"validated,omitempty"`
	Error          string       `json:"error,omitempty"`
}

// Runtime returns the wall-clock runtime as a duration.
func (r Result) Runtime() time.Duration {
	return time.Duration(r.RuntimeSeconds * float64(time.Second))
}

// Report aggregates the results of one batch run.
type Report struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Results    []Result  `json:"results"`
}

// Summary counts results per status. Every known status is present.
func (r *Report) Summary() map[Status]int {
	counts := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		counts[s] = 0
	}
	for _, res := range r.Results {
		counts[res.Status]++
	}
	return counts
}

// Lookup finds the result for a scenario.
func (r *Report) Lookup(scenarioID string) (Result, bool) {
	for _, res := range r.Results {
		if res.ScenarioID == scenarioID {
			return res, true
		}
	}
	return Result{}, false
}

// SortResults orders results by scenario id so reports are reproducible.
func (r *Report) SortResults() {
	sort.Slice(r.Results, func(i, j int) bool {
		return r.Results[i].ScenarioID < r.Results[j].ScenarioID
	})
}
