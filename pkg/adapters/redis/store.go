package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/motionplan/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// farFuture scores index entries that never expire (2100-01-01).
const farFuture = 4102444800

// Store implements ports.ReportStore and ports.SolutionWriter using Redis.
// Reports live under <prefix>report:<run id> with a ZSET index; solutions
// live in the <prefix>solutions hash keyed by scenario id.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for reports.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "motionplan:",
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) reportKey(runID string) string {
	return s.prefix + "report:" + runID
}

func (s *Store) indexKey() string {
	return s.prefix + "report:index"
}

func (s *Store) solutionsKey() string {
	return s.prefix + "solutions"
}

// Save persists the report to Redis.
func (s *Store) Save(ctx context.Context, report *domain.Report) error {
	if report.RunID == "" {
		return fmt.Errorf("run id cannot be empty")
	}
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	score := float64(time.Now().Add(s.ttl).Unix())
	if s.ttl == 0 {
		score = farFuture
	}

	pipe := s.client.Pipeline()
	pipe.Set(ctx, s.reportKey(report.RunID), data, s.ttl)
	pipe.ZAdd(ctx, s.indexKey(), backend.Z{
		Score:  score,
		Member: report.RunID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Load retrieves a report from Redis.
func (s *Store) Load(ctx context.Context, runID string) (*domain.Report, error) {
	val, err := s.client.Get(ctx, s.reportKey(runID)).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrReportNotFound, runID)
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var report domain.Report
	if err := json.Unmarshal(val, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	return &report, nil
}

// Delete removes the report and its index entry.
func (s *Store) Delete(ctx context.Context, runID string) error {
	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.reportKey(runID))
	pipe.ZRem(ctx, s.indexKey(), runID)

	_, err := pipe.Exec(ctx)
	return err
}

// List returns live run ids, pruning expired index entries first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	now := float64(time.Now().Unix())
	err := s.client.ZRemRangeByScore(ctx, s.indexKey(), "-inf", fmt.Sprintf("%f", now)).Err()
	if err != nil {
		return nil, fmt.Errorf("failed to prune expired reports: %w", err)
	}

	ids, err := s.client.ZRange(ctx, s.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return ids, nil
}

// Exists reports whether a solution is stored for the scenario.
func (s *Store) Exists(ctx context.Context, scenarioID string) (bool, error) {
	ok, err := s.client.HExists(ctx, s.solutionsKey(), scenarioID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check solution: %w", err)
	}
	return ok, nil
}

// Write replaces the scenario's solution.
func (s *Store) Write(ctx context.Context, result *domain.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := s.client.HSet(ctx, s.solutionsKey(), result.ScenarioID, data).Err(); err != nil {
		return fmt.Errorf("failed to write solution: %w", err)
	}
	return nil
}

// Read loads a stored solution.
func (s *Store) Read(ctx context.Context, scenarioID string) (*domain.Result, error) {
	val, err := s.client.HGet(ctx, s.solutionsKey(), scenarioID).Bytes()
	if err != nil {
		if errors.Is(err, backend.Nil) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSolutionNotFound, scenarioID)
		}
		return nil, fmt.Errorf("failed to read solution: %w", err)
	}

	var result domain.Result
	if err := json.Unmarshal(val, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result: %w", err)
	}
	return &result, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}
