package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/aretw0/motionplan/pkg/domain"
)

// Store implements ports.ReportStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Report
	mu   sync.RWMutex
}

// NewStore creates a new in-memory report store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Report),
	}
}

// Save stores a copy of the report.
func (s *Store) Save(ctx context.Context, report *domain.Report) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[report.RunID] = copyReport(report)
	return nil
}

// Load returns a copy so callers cannot mutate stored reports.
func (s *Store) Load(ctx context.Context, runID string) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[runID]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return copyReport(r), nil
}

// Delete removes the report.
func (s *Store) Delete(ctx context.Context, runID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, runID)
	return nil
}

// List returns all stored run IDs.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func copyReport(r *domain.Report) *domain.Report {
	out := *r
	out.Results = make([]domain.Result, len(r.Results))
	for i, res := range r.Results {
		out.Results[i] = copyResult(&res)
	}
	return &out
}

func copyResult(r *domain.Result) domain.Result {
	out := *r
	out.Trajectory = r.Trajectory.Clone()
	if r.Validated != nil {
		v := *r.Validated
		out.Validated = &v
	}
	return out
}
