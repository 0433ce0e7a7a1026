package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/motionplan/pkg/adapters/file"
	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.ReportStore    = (*file.Reports)(nil)
	_ ports.SolutionWriter = (*file.Solutions)(nil)
)

func TestReports_Contract(t *testing.T) {
	ports.RunReportStoreContract(t, file.NewReports(t.TempDir()))
}

func TestReports_ListIgnoresGarbage(t *testing.T) {
	dir := t.TempDir()
	store := file.NewReports(dir)
	ctx := context.Background()

	for _, id := range []string{"r1", "r2"} {
		require.NoError(t, store.Save(ctx, &domain.Report{RunID: id}))
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "garbage.txt"), []byte("garbage"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "tmp-r3-123.json"), []byte("{"), 0644))

	ids, err := store.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"r1", "r2"}, ids)
}

func TestReports_ListMissingDir(t *testing.T) {
	store := file.NewReports(filepath.Join(t.TempDir(), "absent"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestReports_RejectsEmptyRunID(t *testing.T) {
	store := file.NewReports(t.TempDir())
	assert.Error(t, store.Save(context.Background(), &domain.Report{}))
}

func TestSolutions_WriteReadOverwrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "solutions")
	w := file.NewSolutions(dir)
	ctx := context.Background()

	ok, err := w.Exists(ctx, "ZAM_Tutorial-1_2_T-1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = w.Read(ctx, "ZAM_Tutorial-1_2_T-1")
	assert.ErrorIs(t, err, domain.ErrSolutionNotFound)

	first := &domain.Result{
		ScenarioID: "ZAM_Tutorial-1_2_T-1",
		Status:     domain.StatusSolved,
		Trajectory: domain.Path{{TimeStep: 0}, {Position: domain.Vec2{X: 1}, TimeStep: 1}},
		Cost:       1,
	}
	require.NoError(t, w.Write(ctx, first))

	ok, err = w.Exists(ctx, "ZAM_Tutorial-1_2_T-1")
	require.NoError(t, err)
	assert.True(t, ok)

	second := *first
	second.Cost = 7
	require.NoError(t, w.Write(ctx, &second))

	got, err := w.Read(ctx, "ZAM_Tutorial-1_2_T-1")
	require.NoError(t, err)
	assert.Equal(t, 7.0, got.Cost)
	assert.Equal(t, first.Trajectory, got.Trajectory)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not survive a write")
}

func TestSolutions_RejectsPathSeparators(t *testing.T) {
	w := file.NewSolutions(t.TempDir())
	err := w.Write(context.Background(), &domain.Result{ScenarioID: "../escape"})
	assert.Error(t, err)
}
