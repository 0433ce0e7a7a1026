package memory

import (
	"context"
	"sync"

	"github.com/aretw0/motionplan/pkg/domain"
)

// Solutions implements ports.SolutionWriter in memory.
type Solutions struct {
	data map[string]domain.Result
	mu   sync.RWMutex
}

// NewSolutions creates an empty solution writer.
func NewSolutions() *Solutions {
	return &Solutions{data: make(map[string]domain.Result)}
}

// Exists reports whether a solution is stored for the scenario.
func (s *Solutions) Exists(ctx context.Context, scenarioID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.data[scenarioID]
	return ok, nil
}

// Write stores a copy of the result.
func (s *Solutions) Write(ctx context.Context, result *domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[result.ScenarioID] = copyResult(result)
	return nil
}

// Read returns a copy of the stored result.
func (s *Solutions) Read(ctx context.Context, scenarioID string) (*domain.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.data[scenarioID]
	if !ok {
		return nil, domain.ErrSolutionNotFound
	}
	out := copyResult(&r)
	return &out, nil
}

// Len returns the number of stored solutions.
func (s *Solutions) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
