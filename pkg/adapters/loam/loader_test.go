package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/loam/pkg/core"
	"github.com/aretw0/motionplan/internal/testutils"
	"github.com/aretw0/motionplan/pkg/adapters/lattice"
	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports/tests"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tutorial = `---
id: ZAM_Tutorial-1_2_T-1
planning_problems:
  - id: 100
    initial_state:
      position: {x: 0, y: 0}
      orientation: 0
      velocity: 8
      time_step: 0
    goal:
      time: {start: 10, end: 40}
      position:
        x: {start: 20, end: 30}
        y: {start: -2, end: 2}
obstacles:
  - id: parked
    box:
      x: {start: 40, end: 45}
      y: {start: -1, end: 1}
margin: 1.5
---
Straight road with a parked car behind the goal.`

const merge = `{
  "id": "USA_Lanker-1",
  "planning_problems": [
    {"id": 1, "initial_state": {"position": {"x": 0, "y": 0}, "velocity": 5}, "goal": {"time": {"start": 0, "end": 50}}},
    {"id": 2, "initial_state": {"position": {"x": 3, "y": 1}, "velocity": 5}, "goal": {"time": {"start": 5, "end": 50}, "velocity": {"start": 0, "end": 2}}}
  ]
}`

func newLoader(t *testing.T, files map[string]string) *Loader {
	t.Helper()
	_, repo := testutils.SetupScenarioRepo(t, files)
	return New(loam.NewTypedRepository[ScenarioMetadata](repo), lattice.Default())
}

func TestLoader_Contract(t *testing.T) {
	_, repo := testutils.SetupScenarioRepo(t, nil)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, core.Document{ID: "ZAM_Tutorial-1_2_T-1.md", Content: tutorial}))
	require.NoError(t, repo.Save(ctx, core.Document{ID: "USA_Lanker-1.json", Content: merge}))

	loader := New(loam.NewTypedRepository[ScenarioMetadata](repo), lattice.Default())

	tests.ScenarioLoaderContractTest(t, loader, map[string]int{
		"ZAM_Tutorial-1_2_T-1": 1,
		"USA_Lanker-1":         2,
	})
}

func TestLoader_LoadScenario_DecodesProblem(t *testing.T) {
	loader := newLoader(t, map[string]string{"tutorial.md": tutorial})

	sc, err := loader.LoadScenario(context.Background(), "ZAM_Tutorial-1_2_T-1")
	require.NoError(t, err)

	p, err := sc.Problem(0)
	require.NoError(t, err)
	assert.Equal(t, 100, p.ID)
	assert.Equal(t, 8.0, p.Initial.Velocity)
	assert.Equal(t, domain.TimeInterval{Start: 10, End: 40}, p.Goal.Time)
	require.NotNil(t, p.Goal.Position)
	assert.Equal(t, 20.0, p.Goal.Position.X.Start)
	assert.Nil(t, p.Goal.Velocity)

	obstacles, ok := sc.Collision.(*lattice.Obstacles)
	require.True(t, ok)
	require.Len(t, obstacles.Items, 1)
	assert.Equal(t, "parked", obstacles.Items[0].ID)
	assert.Equal(t, 1.5, obstacles.Margin)

	// reference point 38.6 m is within the margin of the box starting at 40
	assert.True(t, sc.Collision.Collides(domain.Path{{Position: domain.Vec2{X: 38.6}}}))
	assert.False(t, sc.Collision.Collides(domain.Path{{Position: domain.Vec2{X: 30}}}))
}

func TestLoader_ListScenarios_NormalizesIDs(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"tutorial.md": tutorial,
		"merge.json":  merge,
		"implicit.yaml": `planning_problems:
  - id: 1
    goal: {time: {start: 0, end: 1}}`,
	})

	ids, err := loader.ListScenarios(context.Background())
	require.NoError(t, err)

	assert.Contains(t, ids, "ZAM_Tutorial-1_2_T-1", "metadata id wins over the filename")
	assert.Contains(t, ids, "USA_Lanker-1")
	assert.Contains(t, ids, "implicit", "implicit.yaml should become implicit")
	assert.Len(t, ids, 3)
}

func TestLoader_ListScenarios_DetectsCollisions(t *testing.T) {
	loader := newLoader(t, map[string]string{
		"foo.md":   "---\nid: foo\n---\n",
		"foo.json": `{"id": "foo"}`,
	})

	_, err := loader.ListScenarios(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "foo")
}

func TestLoader_LoadScenario_RejectsEmptyProblems(t *testing.T) {
	loader := newLoader(t, map[string]string{"empty.json": `{"id": "empty"}`})

	_, err := loader.LoadScenario(context.Background(), "empty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no planning problems")
}

func TestTrimExtension(t *testing.T) {
	assert.Equal(t, "a/b", trimExtension("a/b.yml"))
	assert.Equal(t, "scenario.v2", trimExtension("scenario.v2"))
	assert.Equal(t, "plain", trimExtension("plain"))
}
