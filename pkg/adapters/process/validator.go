package process

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/aretw0/motionplan/internal/logging"
	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
)

// ErrRejected is returned when the external checker refuses a solution.
var ErrRejected = errors.New("rejected by solution checker")

// Submission is written as JSON to the checker's stdin.
type Submission struct {
	ScenarioID      string                 `json:"scenario_id"`
	PlanningProblem domain.PlanningProblem `json:"planning_problem"`
	Planner         string                 `json:"planner"`
	VehicleModel    domain.VehicleModel    `json:"vehicle_model"`
	VehicleType     domain.VehicleType     `json:"vehicle_type"`
	CostFunction    string                 `json:"cost_function"`
	Trajectory      domain.Path            `json:"trajectory"`
}

// verdict is the optional JSON a checker prints on stdout.
type verdict struct {
	Valid  *bool  `json:"valid"`
	Reason string `json:"reason"`
}

// Validator runs an external program per solved scenario.
// A non-zero exit status, or {"valid": false} on stdout, rejects the solution.
// Solution data is passed on stdin and never as command-line flags.
type Validator struct {
	command string
	args    []string
	env     map[string]string
	dir     string
	timeout time.Duration
	logger  *slog.Logger
}

// Option configures the Validator.
type Option func(*Validator)

// WithBaseDir sets the working directory for the checker.
func WithBaseDir(dir string) Option {
	return func(v *Validator) {
		v.dir = dir
	}
}

// WithTimeout bounds a single check. 0 means only the caller's context applies.
func WithTimeout(d time.Duration) Option {
	return func(v *Validator) {
		v.timeout = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(v *Validator) {
		v.logger = logger
	}
}

// NewValidator builds a Validator from a checker config.
func NewValidator(cfg CheckerConfig, opts ...Option) *Validator {
	v := &Validator{
		command: cfg.Command,
		args:    cfg.Args,
		env:     cfg.Environment,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate implements ports.Validator.
func (v *Validator) Validate(ctx context.Context, sc *ports.Scenario, problem domain.PlanningProblem, res *domain.Result) error {
	if v.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, v.timeout)
		defer cancel()
	}

	payload, err := json.Marshal(Submission{
		ScenarioID:      res.ScenarioID,
		PlanningProblem: problem,
		Planner:         res.Planner,
		VehicleModel:    res.VehicleModel,
		VehicleType:     res.VehicleType,
		CostFunction:    res.CostFunction,
		Trajectory:      res.Trajectory,
	})
	if err != nil {
		return fmt.Errorf("failed to encode submission: %w", err)
	}

	cmd := exec.CommandContext(ctx, v.command, v.args...)
	cmd.Dir = v.dir
	cmd.WaitDelay = time.Second
	cmd.Stdin = bytes.NewReader(payload)

	env := []string{
		"MOTIONPLAN_SCENARIO_ID=" + res.ScenarioID,
		"MOTIONPLAN_PLANNER=" + res.Planner,
		"MOTIONPLAN_VEHICLE_TYPE=" + string(res.VehicleType),
	}
	for k, val := range v.env {
		env = append(env, fmt.Sprintf("%s=%s", k, val))
	}
	cmd.Env = append(cmd.Environ(), env...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	runErr := cmd.Run()
	v.logger.Debug("Solution checker finished",
		"scenario", res.ScenarioID,
		"command", v.command,
		"elapsed", time.Since(start),
		"err", runErr,
	)

	if runErr != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("solution checker interrupted: %w", ctxErr)
		}
		var exitErr *exec.ExitError
		if errors.As(runErr, &exitErr) {
			return fmt.Errorf("%w: exit status %d: %s", ErrRejected, exitErr.ExitCode(), reason(stderr.String(), stdout.String()))
		}
		return fmt.Errorf("failed to run solution checker: %w", runErr)
	}

	trimmed := strings.TrimSpace(stdout.String())
	if strings.HasPrefix(trimmed, "{") {
		var out verdict
		if err := json.Unmarshal([]byte(trimmed), &out); err == nil && out.Valid != nil && !*out.Valid {
			return fmt.Errorf("%w: %s", ErrRejected, reason(out.Reason))
		}
	}
	return nil
}

func reason(candidates ...string) string {
	for _, c := range candidates {
		if s := strings.TrimSpace(c); s != "" {
			return s
		}
	}
	return "no reason given"
}
