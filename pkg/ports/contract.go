package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunReportStoreContract runs a suite of tests to verify that a ReportStore implementation
// adheres to the defined interface contract.
func RunReportStoreContract(t *testing.T, store ReportStore) {
	ctx := context.Background()
	runID := "contract-run-" + time.Now().Format("20060102150405")

	newReport := func(id string) *domain.Report {
		return &domain.Report{
			RunID:      id,
			StartedAt:  time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
			FinishedAt: time.Date(2024, 1, 1, 12, 0, 5, 0, time.UTC),
			Results: []domain.Result{
				{
					ScenarioID:     "ZAM_Tutorial-1_2_T-1",
					Planner:        domain.PlannerUCS,
					Status:         domain.StatusSolved,
					Trajectory:     domain.Path{{TimeStep: 0}, {Position: domain.Vec2{X: 2}, TimeStep: 2}},
					Cost:           2,
					Depth:          1,
					RuntimeSeconds: 0.25,
				},
				{ScenarioID: "USA_Lanker-1", Status: domain.StatusTimeout, RuntimeSeconds: 1},
			},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		report := newReport(runID)
		require.NoError(t, store.Save(ctx, report), "Save should not return error")

		loaded, err := store.Load(ctx, runID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, runID, loaded.RunID)
		assert.True(t, report.StartedAt.Equal(loaded.StartedAt))
		require.Len(t, loaded.Results, 2)
		assert.Equal(t, domain.StatusSolved, loaded.Results[0].Status)
		assert.Equal(t, report.Results[0].Trajectory, loaded.Results[0].Trajectory)
		assert.InDelta(t, 0.25, loaded.Results[0].RuntimeSeconds, 1e-9)
		assert.Equal(t, 1, loaded.Summary()[domain.StatusTimeout])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+runID)
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, newReport(runID)))

		require.NoError(t, store.Delete(ctx, runID), "Delete should not return error")

		_, err := store.Load(ctx, runID)
		assert.ErrorIs(t, err, domain.ErrReportNotFound, "Load after Delete should return ErrReportNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := runID + "-1"
		id2 := runID + "-2"
		_ = store.Save(ctx, newReport(id1))
		_ = store.Save(ctx, newReport(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
