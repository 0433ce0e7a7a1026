package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/motionplan/pkg/adapters/redis"
	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ ports.ReportStore       = (*redis.Store)(nil)
	_ ports.SolutionWriter    = (*redis.Store)(nil)
	_ ports.DistributedLocker = (*redis.Locker)(nil)
)

func setup(t *testing.T) (*miniredis.Miniredis, *backend.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRedisStore_Contract(t *testing.T) {
	_, client := setup(t)
	ports.RunReportStoreContract(t, redis.NewFromClient(client))
}

func TestRedisStore_TTL_Expiration(t *testing.T) {
	mr, client := setup(t)

	store := redis.NewFromClient(client, redis.WithTTL(1*time.Second))
	ctx := context.Background()

	err := store.Save(ctx, &domain.Report{RunID: "run-ttl"})
	require.NoError(t, err)

	ids, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, ids, "run-ttl")

	// key expiration
	mr.FastForward(2 * time.Second)

	_, err = store.Load(ctx, "run-ttl")
	assert.ErrorIs(t, err, domain.ErrReportNotFound)

	// The index is pruned against time.Now(), so real time has to pass.
	time.Sleep(1200 * time.Millisecond)

	ids, err = store.List(ctx)
	assert.NoError(t, err)
	assert.Empty(t, ids)
}

func TestRedisStore_Prefix(t *testing.T) {
	mr, client := setup(t)

	store := redis.NewFromClient(client, redis.WithPrefix("custom:app:"))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Report{RunID: "my-run"}))

	assert.True(t, mr.Exists("custom:app:report:my-run"), "Expected key with custom prefix to exist")
	assert.True(t, mr.Exists("custom:app:report:index"), "Expected index with custom prefix to exist")

	list, err := store.List(ctx)
	assert.NoError(t, err)
	assert.Contains(t, list, "my-run")
}

func TestRedisStore_Solutions(t *testing.T) {
	mr, client := setup(t)
	store := redis.NewFromClient(client)
	ctx := context.Background()

	ok, err := store.Exists(ctx, "USA_Lanker-1")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.Read(ctx, "USA_Lanker-1")
	assert.ErrorIs(t, err, domain.ErrSolutionNotFound)

	res := &domain.Result{
		ScenarioID: "USA_Lanker-1",
		Planner:    domain.PlannerAStar,
		Status:     domain.StatusSolved,
		Trajectory: domain.Path{{TimeStep: 0}, {Velocity: 3, TimeStep: 1}},
		Cost:       1,
	}
	require.NoError(t, store.Write(ctx, res))

	ok, err = store.Exists(ctx, "USA_Lanker-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists("motionplan:solutions"))

	got, err := store.Read(ctx, "USA_Lanker-1")
	require.NoError(t, err)
	assert.Equal(t, res, got)
}
