package observability_test

import (
	"context"
	"testing"

	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	hooks := m.Hooks()
	ctx := context.Background()

	start := &domain.TaskEvent{ScenarioID: "a", Planner: "astar"}
	hooks.OnTaskStart(ctx, start)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Running))

	hooks.OnExpand(ctx, &domain.ExpandEvent{Children: 2, Rejected: 1})
	hooks.OnExpand(ctx, &domain.ExpandEvent{Children: 0, Rejected: 3})
	hooks.OnGoal(ctx, &domain.ExpandEvent{})

	hooks.OnTaskDone(ctx, &domain.TaskEvent{
		ScenarioID: "a",
		Planner:    "astar",
		Result:     &domain.Result{Status: domain.StatusSolved, RuntimeSeconds: 0.3},
	})

	assert.Equal(t, 0.0, testutil.ToFloat64(m.Running))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Expansions))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.Rejected))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Goals))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Tasks.WithLabelValues("astar", "SOLVED")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.TaskDuration))
}

func TestMetrics_DoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := observability.NewMetrics(reg)
	require.NoError(t, err)

	_, err = observability.NewMetrics(reg)
	assert.Error(t, err)
}
