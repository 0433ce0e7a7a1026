package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aretw0/motionplan/pkg/domain"
)

// Reports implements ports.ReportStore using the local filesystem.
// It stores one JSON file per run in a configured directory.
type Reports struct {
	BasePath string
}

// NewReports creates a report store rooted at basePath.
// If basePath is empty, it defaults to ".motionplan/reports".
func NewReports(basePath string) *Reports {
	if basePath == "" {
		basePath = filepath.Join(".motionplan", "reports")
	}
	return &Reports{BasePath: basePath}
}

// Save persists the report atomically.
func (s *Reports) Save(ctx context.Context, report *domain.Report) error {
	if report.RunID == "" {
		return fmt.Errorf("run id cannot be empty")
	}
	return writeJSON(s.BasePath, report.RunID, report)
}

// Load retrieves a report from its JSON file.
func (s *Reports) Load(ctx context.Context, runID string) (*domain.Report, error) {
	if runID == "" {
		return nil, fmt.Errorf("run id cannot be empty")
	}
	var report domain.Report
	if err := readJSON(s.BasePath, runID, &report, domain.ErrReportNotFound); err != nil {
		return nil, err
	}
	return &report, nil
}

// Delete removes the report file.
func (s *Reports) Delete(ctx context.Context, runID string) error {
	if runID == "" {
		return fmt.Errorf("run id cannot be empty")
	}
	err := os.Remove(filepath.Join(s.BasePath, runID+".json"))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete report file: %w", err)
	}
	return nil
}

// List returns all stored run ids.
func (s *Reports) List(ctx context.Context) ([]string, error) {
	return listJSON(s.BasePath)
}
