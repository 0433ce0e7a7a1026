package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for distributed concurrency control.
// It lets several batch runners share one output directory without writing the
// same scenario artifact twice.
type DistributedLocker interface {
	// Lock acquires a lock for key (a scenario id). It blocks until the lock is
	// acquired or the context is canceled. The returned UnlockFunc MUST be called.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
