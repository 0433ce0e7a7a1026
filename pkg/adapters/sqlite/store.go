package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aretw0/motionplan/pkg/domain"
	_ "github.com/mattn/go-sqlite3"
)

// Store implements ports.ReportStore and ports.SolutionWriter using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dsn and applies migrations.
func New(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (s *Store) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			run_id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS results (
			run_id TEXT NOT NULL,
			position INTEGER NOT NULL,
			scenario_id TEXT NOT NULL,
			planner TEXT,
			vehicle_model TEXT,
			vehicle_type TEXT,
			cost_function TEXT,
			status TEXT NOT NULL,
			trajectory TEXT,
			cost REAL NOT NULL DEFAULT 0,
			depth INTEGER NOT NULL DEFAULT 0,
			nodes_expanded INTEGER NOT NULL DEFAULT 0,
			runtime_seconds REAL NOT NULL DEFAULT 0,
			reused INTEGER NOT NULL DEFAULT 0,
			validated INTEGER,
			error TEXT,
			PRIMARY KEY (run_id, position),
			FOREIGN KEY (run_id) REFERENCES reports(run_id) ON DELETE CASCADE
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_scenario ON results(scenario_id)`,
		`CREATE TABLE IF NOT EXISTS solutions (
			scenario_id TEXT PRIMARY KEY,
			result TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// Save replaces the report and all its results in one transaction.
func (s *Store) Save(ctx context.Context, report *domain.Report) (err error) {
	if report.RunID == "" {
		return fmt.Errorf("run id cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = deleteReport(ctx, tx, report.RunID); err != nil {
		return fmt.Errorf("failed to replace report: %w", err)
	}
	_, err = tx.ExecContext(ctx,
		`INSERT INTO reports (run_id, started_at, finished_at) VALUES (?, ?, ?)`,
		report.RunID, formatTime(report.StartedAt), formatTime(report.FinishedAt))
	if err != nil {
		return fmt.Errorf("failed to insert report: %w", err)
	}

	for i, res := range report.Results {
		var trajectory []byte
		trajectory, err = json.Marshal(res.Trajectory)
		if err != nil {
			return fmt.Errorf("failed to marshal trajectory for %s: %w", res.ScenarioID, err)
		}
		var validated sql.NullBool
		if res.Validated != nil {
			validated = sql.NullBool{Bool: *res.Validated, Valid: true}
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO results (run_id, position, scenario_id, planner, vehicle_model, vehicle_type, cost_function, status, trajectory, cost, depth, nodes_expanded, runtime_seconds, reused, validated, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			report.RunID, i, res.ScenarioID, res.Planner, string(res.VehicleModel), string(res.VehicleType), res.CostFunction,
			string(res.Status), string(trajectory),
			res.Cost, res.Depth, res.NodesExpanded, res.RuntimeSeconds, res.Reused, validated, res.Error)
		if err != nil {
			return fmt.Errorf("failed to insert result for %s: %w", res.ScenarioID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit report: %w", err)
	}
	return nil
}

// Load retrieves a report with its results in their saved order.
func (s *Store) Load(ctx context.Context, runID string) (*domain.Report, error) {
	var report domain.Report
	var started, finished string
	err := s.db.QueryRowContext(ctx,
		`SELECT run_id, started_at, finished_at FROM reports WHERE run_id = ?`,
		runID).Scan(&report.RunID, &started, &finished)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrReportNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load report: %w", err)
	}
	if report.StartedAt, err = parseTime(started); err != nil {
		return nil, err
	}
	if report.FinishedAt, err = parseTime(finished); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT scenario_id, planner, vehicle_model, vehicle_type, cost_function, status, trajectory, cost, depth, nodes_expanded, runtime_seconds, reused, validated, error
		FROM results WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to load results: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var res domain.Result
		var planner, model, vehicle, costFn, trajectory, errMsg sql.NullString
		var status string
		var validated sql.NullBool
		if err := rows.Scan(&res.ScenarioID, &planner, &model, &vehicle, &costFn, &status, &trajectory, &res.Cost, &res.Depth,
			&res.NodesExpanded, &res.RuntimeSeconds, &res.Reused, &validated, &errMsg); err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		res.Planner = planner.String
		res.VehicleModel = domain.VehicleModel(model.String)
		res.VehicleType = domain.VehicleType(vehicle.String)
		res.CostFunction = costFn.String
		res.Status = domain.Status(status)
		res.Error = errMsg.String
		if validated.Valid {
			v := validated.Bool
			res.Validated = &v
		}
		if trajectory.Valid && trajectory.String != "" && trajectory.String != "null" {
			if err := json.Unmarshal([]byte(trajectory.String), &res.Trajectory); err != nil {
				return nil, fmt.Errorf("failed to unmarshal trajectory for %s: %w", res.ScenarioID, err)
			}
		}
		report.Results = append(report.Results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate results: %w", err)
	}
	return &report, nil
}

// Delete removes a report and its results.
func (s *Store) Delete(ctx context.Context, runID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	if err := deleteReport(ctx, tx, runID); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("failed to delete report: %w", err)
	}
	return tx.Commit()
}

// deleteReport does not rely on ON DELETE CASCADE: the foreign_keys pragma
// is per connection and pooled connections may not have it.
func deleteReport(ctx context.Context, tx *sql.Tx, runID string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM results WHERE run_id = ?`, runID); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, `DELETE FROM reports WHERE run_id = ?`, runID)
	return err
}

// List returns run ids, most recent first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT run_id FROM reports ORDER BY started_at DESC, run_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Exists reports whether a solution is stored for the scenario.
func (s *Store) Exists(ctx context.Context, scenarioID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM solutions WHERE scenario_id = ?`, scenarioID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check solution: %w", err)
	}
	return n > 0, nil
}

// Write upserts the scenario's solution.
func (s *Store) Write(ctx context.Context, result *domain.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO solutions (scenario_id, result, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(scenario_id) DO UPDATE SET result = excluded.result, updated_at = excluded.updated_at`,
		result.ScenarioID, string(data), formatTime(time.Now()))
	if err != nil {
		return fmt.Errorf("failed to write solution: %w", err)
	}
	return nil
}

// Read loads a stored solution.
func (s *Store) Read(ctx context.Context, scenarioID string) (*domain.Result, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT result FROM solutions WHERE scenario_id = ?`, scenarioID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", domain.ErrSolutionNotFound, scenarioID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read solution: %w", err)
	}

	var result domain.Result
	if err := json.Unmarshal([]byte(data), &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", v, err)
	}
	return t, nil
}
