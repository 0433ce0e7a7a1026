package artifacts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/aretw0/motionplan/pkg/adapters/memory"
	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager_LockLifecycle(t *testing.T) {
	mgr := NewManager(memory.NewSolutions())
	ctx := context.Background()
	count := 10000

	for i := 0; i < count; i++ {
		id := fmt.Sprintf("scenario-%d", i)
		_ = mgr.WithLock(ctx, id, func(ctx context.Context) error {
			return mgr.Publish(ctx, &domain.Result{ScenarioID: id})
		})
	}

	if lockCount := len(mgr.locks); lockCount != 0 {
		t.Errorf("Memory Leak Detected: %d locks remaining after WithLock returned", lockCount)
	}
}

func TestManager_SerializesPerScenario(t *testing.T) {
	mgr := NewManager(memory.NewSolutions())
	ctx := context.Background()

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = mgr.WithLock(ctx, "same", func(context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					old := atomic.LoadInt32(&maxInside)
					if n <= old || atomic.CompareAndSwapInt32(&maxInside, old, n) {
						break
					}
				}
				time.Sleep(time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), maxInside)
}

func TestManager_Existing(t *testing.T) {
	ctx := context.Background()
	sols := memory.NewSolutions()
	mgr := NewManager(sols)

	got, err := mgr.Existing(ctx, "a")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, mgr.Publish(ctx, &domain.Result{ScenarioID: "a", Status: domain.StatusSolved}))
	got, err = mgr.Existing(ctx, "a")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, domain.StatusSolved, got.Status)
	assert.Same(t, sols, mgr.Writer())
}

type recordingLocker struct {
	mu    sync.Mutex
	keys  []string
	ttls  []time.Duration
	freed int
	fail  error
}

func (l *recordingLocker) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	if l.fail != nil {
		return nil, l.fail
	}
	l.mu.Lock()
	l.keys = append(l.keys, key)
	l.ttls = append(l.ttls, ttl)
	l.mu.Unlock()
	return func(ctx context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.freed++
		return ctx.Err()
	}, nil
}

func TestManager_DistributedLock(t *testing.T) {
	locker := &recordingLocker{}
	mgr := NewManager(memory.NewSolutions(), WithLocker(locker), WithTTL(time.Minute))

	ctx, cancel := context.WithCancel(context.Background())
	err := mgr.WithLock(ctx, "USA_Lanker-1", func(context.Context) error {
		cancel() // unlock must still run with a live context
		return nil
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"artifact:USA_Lanker-1"}, locker.keys)
	assert.Equal(t, []time.Duration{time.Minute}, locker.ttls)
	assert.Equal(t, 1, locker.freed)
}

func TestManager_DistributedLockFailure(t *testing.T) {
	boom := errors.New("redis down")
	mgr := NewManager(memory.NewSolutions(), WithLocker(&recordingLocker{fail: boom}))

	called := false
	err := mgr.WithLock(context.Background(), "a", func(context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, called)
	assert.Empty(t, mgr.locks)
}
