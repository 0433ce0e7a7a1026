package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/aretw0/motionplan/internal/presentation/tui"
	"github.com/aretw0/motionplan/pkg/domain"
)

// RunBatch executes the configured batch and prints the report to out.
// A batch whose scenarios fail still succeeds; only fatal errors are returned.
func RunBatch(ctx context.Context, opts Options, out io.Writer) (*domain.Report, error) {
	app, err := NewApp(opts)
	if err != nil {
		return nil, err
	}
	defer app.Close()

	orch, err := app.Orchestrator()
	if err != nil {
		return nil, err
	}

	if !opts.JSON && tui.IsTerminal(out) {
		tui.PrintBanner(out)
	}

	report, err := orch.Run(ctx, app.Batch)
	if report == nil {
		return nil, err
	}
	if perr := printReport(out, report, opts.JSON); perr != nil && err == nil {
		err = perr
	}
	return report, err
}

func printReport(out io.Writer, report *domain.Report, jsonMode bool) error {
	if jsonMode {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		return nil
	}
	return tui.PrintReport(out, report)
}

// ShowReport prints a stored report.
func ShowReport(ctx context.Context, opts Options, runID string, out io.Writer) error {
	app, err := NewApp(opts)
	if err != nil {
		return err
	}
	defer app.Close()

	if runID == "" {
		ids, err := app.Reports.List(ctx)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintln(out, id)
		}
		return nil
	}

	report, err := app.Reports.Load(ctx, runID)
	if err != nil {
		return err
	}
	return printReport(out, report, opts.JSON)
}
