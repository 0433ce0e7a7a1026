package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/motionplan/pkg/config"
	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validDefaults() map[string]any {
	return map[string]any{
		"vehicle_model":        "KS",
		"vehicle_type":         "BMW_320i",
		"cost_function":        "SM1",
		"planner":              "ucs",
		"planning_problem_idx": 0,
		"max_tree_depth":       10,
		"timeout":              1.0,
	}
}

func TestLoad_YAML(t *testing.T) {
	b, err := config.Load(filepath.Join("testdata", "batch.yaml"))
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("testdata", "..", "scenarios"), b.InputPath)
	assert.Equal(t, filepath.Join("testdata", "..", "solutions"), b.OutputPath)
	assert.Equal(t, 4, b.Workers)
	assert.Equal(t, []string{"USA_Lanker-1", "ZAM_Tutorial-1_2_T-1"}, b.Overrides())

	t.Run("OverrideReplacesKeys", func(t *testing.T) {
		cfg, err := b.Resolve("USA_Lanker-1")
		require.NoError(t, err)
		assert.Equal(t, domain.VehicleFordEscort, cfg.VehicleType)
		assert.Equal(t, domain.PlannerAStar, cfg.Planner)
		assert.Equal(t, 30*time.Second, cfg.TimeoutDuration())
		// inherited
		assert.Equal(t, domain.ModelKinematicSingle, cfg.VehicleModel)
		assert.Equal(t, 100, cfg.MaxTreeDepth)
		assert.True(t, cfg.Overwrite, "top-level overwrite acts as a default")
		assert.False(t, cfg.ValidateSolution)
	})

	t.Run("OtherScenariosKeepDefaults", func(t *testing.T) {
		cfg, err := b.Resolve("DEU_Flensburg-1")
		require.NoError(t, err)
		assert.Equal(t, domain.VehicleBMW320i, cfg.VehicleType)
		assert.Equal(t, domain.PlannerStudent, cfg.Planner)
		assert.Equal(t, search.DefaultWeights, cfg.Weights())
	})

	t.Run("PartialOverride", func(t *testing.T) {
		cfg, err := b.Resolve("ZAM_Tutorial-1_2_T-1")
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.PlanningProblemIdx)
		assert.Equal(t, search.Weights{G: 1, H: 2}, cfg.Weights())
		assert.Equal(t, domain.VehicleBMW320i, cfg.VehicleType)
	})
}

func TestLoad_JSON(t *testing.T) {
	b, err := config.Load(filepath.Join("testdata", "batch.json"))
	require.NoError(t, err)

	assert.Equal(t, "/data/scenarios", b.InputPath)
	assert.Equal(t, filepath.Join("testdata", "out"), b.OutputPath)
	assert.Equal(t, 2, b.Workers)

	cfg, err := b.Resolve("any")
	require.NoError(t, err)
	assert.Equal(t, domain.ModelPointMass, cfg.VehicleModel)
	assert.Equal(t, 20, cfg.MaxTreeDepth)
	assert.Equal(t, 2500*time.Millisecond, cfg.TimeoutDuration())
	assert.False(t, cfg.Overwrite)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestParse_Errors(t *testing.T) {
	cases := map[string]string{
		"MissingDefault":  "input_path: x\n",
		"DefaultNotMap":   "default: 3\n",
		"UnknownKey":      "default:\n  vehicle_model: KS\n  colour: red\n",
		"BadType":         "default:\n  max_tree_depth: deep\n",
		"UnknownTopLevel": "default: {}\nverbose: true\n",
		"BadWorkers":      "default: {}\nnum_worker_processes: 0\n",
		"Malformed":       "default: [\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := config.Parse([]byte(doc), "yaml")
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
		})
	}
}

func TestResolve_MissingRequiredKey(t *testing.T) {
	defaults := validDefaults()
	delete(defaults, "planner")
	b, err := config.New(defaults, map[string]map[string]any{
		"with-planner": {"planner": "bfs"},
	})
	require.NoError(t, err)

	cfg, err := b.Resolve("with-planner")
	require.NoError(t, err)
	assert.Equal(t, domain.PlannerBFS, cfg.Planner)

	_, err = b.Resolve("without-planner")
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
	var ce *domain.ConfigError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "without-planner", ce.Scenario)
	assert.Equal(t, "planner", ce.Key)
}

func TestResolve_Validation(t *testing.T) {
	cases := map[string]map[string]any{
		"vehicle_model":        {"vehicle_model": "XX"},
		"vehicle_type":         {"vehicle_type": "TRABANT"},
		"max_tree_depth":       {"max_tree_depth": 0},
		"timeout":              {"timeout": -1},
		"planning_problem_idx": {"planning_problem_idx": -2},
		"obstacle_weight":      {"obstacle_weight": -0.5},
		"weight_g/weight_h":    {"weight_g": 0, "weight_h": 0},
	}
	for key, override := range cases {
		t.Run(key, func(t *testing.T) {
			b, err := config.New(validDefaults(), map[string]map[string]any{"s": override})
			require.NoError(t, err)

			_, err = b.Resolve("s")
			var ce *domain.ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, key, ce.Key)
			assert.Equal(t, "s", ce.Scenario)
		})
	}
}

func TestResolveAll_FailsFast(t *testing.T) {
	b, err := config.New(validDefaults(), map[string]map[string]any{
		"bad": {"timeout": 0},
	})
	require.NoError(t, err)

	all, err := b.ResolveAll([]string{"a", "b"})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	all, err = b.ResolveAll([]string{"a", "bad", "c"})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Nil(t, all)
}

func TestResolve_DoesNotLeakBetweenScenarios(t *testing.T) {
	b, err := config.New(validDefaults(), map[string]map[string]any{
		"USA_Lanker-1": {"vehicle_type": "FORD_ESCORT"},
	})
	require.NoError(t, err)

	lanker, err := b.Resolve("USA_Lanker-1")
	require.NoError(t, err)
	other, err := b.Resolve("ZAM_Over-1_1")
	require.NoError(t, err)

	assert.Equal(t, domain.VehicleFordEscort, lanker.VehicleType)
	assert.Equal(t, domain.VehicleBMW320i, other.VehicleType)
}
