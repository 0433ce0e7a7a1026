package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/motionplan/pkg/adapters/file"
	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const straightRoad = `---
id: ZAM_Straight-1
planning_problems:
  - id: 1
    initial_state:
      position: {x: 0, y: 0}
      orientation: 0
      velocity: 5
      time_step: 0
    goal:
      time: {start: 10, end: 40}
---
Reach any state between time steps 10 and 40.`

const batchYAML = `input_path: scenarios
output_path: solutions
num_worker_processes: 2

default:
  vehicle_model: KS
  vehicle_type: BMW_320i
  cost_function: WX1
  planner: bfs
  planning_problem_idx: 0
  max_tree_depth: 5
  timeout: 5
  overwrite: true
  validate_solution: true
`

// project writes a batch file and one scenario into a temp dir and returns the config path.
func project(t *testing.T, batch string) (string, string) {
	t.Helper()
	root := t.TempDir()
	scenarios := filepath.Join(root, "scenarios")
	require.NoError(t, os.MkdirAll(scenarios, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(scenarios, "straight.md"), []byte(straightRoad), 0644))

	cfg := filepath.Join(root, "batch.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(batch), 0644))
	return root, cfg
}

func TestOptions_Validate(t *testing.T) {
	assert.Error(t, Options{}.validate())
	assert.Error(t, Options{Store: "mongo"}.validate())
	assert.Error(t, Options{Store: StoreSQLite}.validate())
	assert.Error(t, Options{Store: StoreMemory, Workers: -1}.validate())
	assert.NoError(t, Options{Store: StoreMemory}.validate())
	assert.NoError(t, Options{Store: StoreSQLite, SQLiteDSN: ":memory:"}.validate())
}

func TestNewApp_UnknownLogLevel(t *testing.T) {
	_, err := NewApp(Options{Store: StoreMemory, LogLevel: "loud"})
	assert.Error(t, err)
}

func TestNewApp_WithoutConfig(t *testing.T) {
	app, err := NewApp(Options{Store: StoreMemory, LogLevel: "error"})
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.Loader)
	assert.NotNil(t, app.Reports)

	_, err = app.Orchestrator()
	assert.Error(t, err)
}

func TestRunBatch_JSON(t *testing.T) {
	root, cfg := project(t, batchYAML)

	var out bytes.Buffer
	report, err := RunBatch(context.Background(), Options{
		ConfigPath: cfg,
		Store:      StoreMemory,
		JSON:       true,
		LogLevel:   "error",
	}, &out)
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	res := report.Results[0]
	assert.Equal(t, "ZAM_Straight-1", res.ScenarioID)
	assert.Equal(t, domain.StatusSolved, res.Status)
	assert.Equal(t, 1, res.Depth)
	require.NotNil(t, res.Validated)
	assert.True(t, *res.Validated)

	var decoded domain.Report
	require.NoError(t, json.Unmarshal(out.Bytes(), &decoded))
	assert.Equal(t, report.RunID, decoded.RunID)

	exists, err := file.NewSolutions(filepath.Join(root, "solutions")).Exists(context.Background(), "ZAM_Straight-1")
	require.NoError(t, err)
	assert.True(t, exists, "solution artifact should be written to output_path")
}

func TestRunBatch_MarkdownAndSequential(t *testing.T) {
	_, cfg := project(t, batchYAML)

	var out bytes.Buffer
	report, err := RunBatch(context.Background(), Options{
		ConfigPath: cfg,
		Store:      StoreMemory,
		Sequential: true,
		LogLevel:   "error",
	}, &out)
	require.NoError(t, err)
	assert.Equal(t, 1, report.Summary()[domain.StatusSolved])
	assert.Contains(t, out.String(), "# Run "+report.RunID)
	assert.Contains(t, out.String(), "| ZAM_Straight-1 | bfs | SOLVED |")
}

func TestRunBatch_SQLiteThenShow(t *testing.T) {
	root, cfg := project(t, batchYAML)
	opts := Options{
		ConfigPath: cfg,
		Store:      StoreSQLite,
		SQLiteDSN:  filepath.Join(root, "reports.db"),
		JSON:       true,
		LogLevel:   "error",
	}

	report, err := RunBatch(context.Background(), opts, &bytes.Buffer{})
	require.NoError(t, err)

	show := Options{Store: StoreSQLite, SQLiteDSN: opts.SQLiteDSN, JSON: true, LogLevel: "error"}

	var list bytes.Buffer
	require.NoError(t, ShowReport(context.Background(), show, "", &list))
	assert.Equal(t, report.RunID+"\n", list.String())

	var one bytes.Buffer
	require.NoError(t, ShowReport(context.Background(), show, report.RunID, &one))
	var decoded domain.Report
	require.NoError(t, json.Unmarshal(one.Bytes(), &decoded))
	assert.Equal(t, domain.StatusSolved, decoded.Results[0].Status)
}

func TestRunBatch_InvalidConfigIsFatal(t *testing.T) {
	_, cfg := project(t, batchYAML+"\nZAM_Straight-1:\n  planner: teleport\n")

	report, err := RunBatch(context.Background(), Options{ConfigPath: cfg, Store: StoreMemory, LogLevel: "error"}, &bytes.Buffer{})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Nil(t, report)
}

func TestValidate(t *testing.T) {
	_, cfg := project(t, batchYAML)

	var out bytes.Buffer
	require.NoError(t, Validate(context.Background(), Options{ConfigPath: cfg, Store: StoreMemory, LogLevel: "error"}, &out))
	assert.Contains(t, out.String(), "ok  ZAM_Straight-1 (bfs, KS/BMW_320i, problem 0)")
	assert.Contains(t, out.String(), "1 scenarios valid")
}

func TestValidate_ReportsMissingProblem(t *testing.T) {
	_, cfg := project(t, batchYAML+"\nZAM_Straight-1:\n  planning_problem_idx: 3\n")

	err := Validate(context.Background(), Options{ConfigPath: cfg, Store: StoreMemory, LogLevel: "error"}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "planning problem 3 out of range")
}

func TestNewHTTPServer(t *testing.T) {
	_, cfg := project(t, batchYAML)
	app, err := NewApp(Options{ConfigPath: cfg, Store: StoreMemory, LogLevel: "error"})
	require.NoError(t, err)
	defer app.Close()

	srv, err := NewHTTPServer(app, "test")
	require.NoError(t, err)
	h := srv.Handler()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/runs", nil))
	assert.Equal(t, http.StatusAccepted, rec.Code)
	srv.Wait()

	ids, err := app.Reports.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `motionplan_tasks_total{planner="bfs",status="SOLVED"} 1`)
}

func TestNewMCPServer(t *testing.T) {
	app, err := NewApp(Options{Store: StoreMemory, LogLevel: "error"})
	require.NoError(t, err)
	defer app.Close()

	srv, err := NewMCPServer(app, "test")
	require.NoError(t, err)
	assert.NotNil(t, srv)
}

const checkersYAML = `checkers:
  - name: strict
    command: sh
    args: ["-c", "cat > /dev/null; echo too fast; exit 3"]
  - name: lenient
    command: sh
    args: ["-c", "cat > /dev/null"]
`

func TestRunBatch_ExternalChecker(t *testing.T) {
	root, cfg := project(t, batchYAML)
	checkers := filepath.Join(root, "checkers.yaml")
	require.NoError(t, os.WriteFile(checkers, []byte(checkersYAML), 0644))

	run := func(name string) domain.Result {
		report, err := RunBatch(context.Background(), Options{
			ConfigPath:   cfg,
			CheckersPath: checkers,
			Checker:      name,
			Store:        StoreMemory,
			JSON:         true,
			LogLevel:     "error",
		}, &bytes.Buffer{})
		require.NoError(t, err)
		require.Len(t, report.Results, 1)
		return report.Results[0]
	}

	res := run("lenient")
	assert.Equal(t, domain.StatusSolved, res.Status)

	res = run("strict")
	assert.Equal(t, domain.StatusError, res.Status)
	require.NotNil(t, res.Validated)
	assert.False(t, *res.Validated)
	assert.Contains(t, res.Error, "rejected by solution checker")
}

func TestOrchestrator_UnknownChecker(t *testing.T) {
	root, cfg := project(t, batchYAML)
	app, err := NewApp(Options{
		ConfigPath:   cfg,
		CheckersPath: filepath.Join(root, "missing.yaml"),
		Checker:      "strict",
		Store:        StoreMemory,
		LogLevel:     "error",
	})
	require.NoError(t, err)
	defer app.Close()

	_, err = app.Orchestrator()
	assert.ErrorContains(t, err, `unknown solution checker "strict"`)
}
