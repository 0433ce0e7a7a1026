package artifacts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/motionplan/internal/logging"
	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/aretw0/motionplan/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed holder can block a scenario.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager coordinates artifact access, ensuring safe concurrent operations.
// It uses Reference Counting to garbage collect unused locks.
type Manager struct {
	writer ports.SolutionWriter

	mu    sync.Mutex            // Global lock for the map
	locks map[string]*lockEntry // Map of active locks

	locker ports.DistributedLocker // Optional distributed locker
	ttl    time.Duration
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithTTL sets the distributed lock TTL.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager over the given solution writer.
func NewManager(writer ports.SolutionWriter, opts ...Option) *Manager {
	m := &Manager{
		writer: writer,
		locks:  make(map[string]*lockEntry),
		ttl:    DefaultLockTTL,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock the entry.mu, and then call release(scenarioID) after unlocking.
func (m *Manager) acquire(scenarioID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[scenarioID]
	if !exists {
		entry = &lockEntry{}
		m.locks[scenarioID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry if it reaches zero.
func (m *Manager) release(scenarioID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[scenarioID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, scenarioID)
	}
}

// Existing returns the stored artifact for the scenario, or nil when there is none.
func (m *Manager) Existing(ctx context.Context, scenarioID string) (*domain.Result, error) {
	ok, err := m.writer.Exists(ctx, scenarioID)
	if err != nil {
		return nil, fmt.Errorf("failed to check artifact for %s: %w", scenarioID, err)
	}
	if !ok {
		return nil, nil
	}
	res, err := m.writer.Read(ctx, scenarioID)
	if errors.Is(err, domain.ErrSolutionNotFound) {
		// removed between Exists and Read
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact for %s: %w", scenarioID, err)
	}
	return res, nil
}

// Publish writes the artifact of a solved scenario.
func (m *Manager) Publish(ctx context.Context, result *domain.Result) error {
	if err := m.writer.Write(ctx, result); err != nil {
		return fmt.Errorf("failed to write artifact for %s: %w", result.ScenarioID, err)
	}
	return nil
}

// Writer returns the underlying solution writer.
func (m *Manager) Writer() ports.SolutionWriter {
	return m.writer
}

// WithLock executes fn while holding the lock for the scenario.
func (m *Manager) WithLock(ctx context.Context, scenarioID string, fn func(context.Context) error) error {
	entry := m.acquire(scenarioID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(scenarioID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, "artifact:"+scenarioID, m.ttl)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			// the task context may already be expired by a timeout
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"scenario", scenarioID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
