package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aretw0/motionplan/pkg/domain"
)

var statusColors = map[domain.Status]string{
	domain.StatusSolved:     "#22c55e",
	domain.StatusNoSolution: "#f59e0b",
	domain.StatusDepthLimit: "#eab308",
	domain.StatusTimeout:    "#f97316",
	domain.StatusError:      "#ef4444",
}

// ReportMarkdown renders a report as a markdown document: a header, the
// per-status summary, and one table row per scenario.
func ReportMarkdown(r *domain.Report) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Run %s\n\n", r.RunID)
	if !r.StartedAt.IsZero() && !r.FinishedAt.IsZero() {
		fmt.Fprintf(&b, "Elapsed: %s\n\n", r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond))
	}

	b.WriteString("| Status | Count |\n|---|---|\n")
	summary := r.Summary()
	for _, s := range domain.Statuses {
		fmt.Fprintf(&b, "| %s | %d |\n", s, summary[s])
	}
	b.WriteString("\n")

	b.WriteString("| Scenario | Planner | Status | Cost | Depth | Nodes | Runtime (s) | Note |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, res := range r.Results {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %d | %.3f | %s |\n",
			escape(res.ScenarioID),
			escape(res.Planner),
			res.Status,
			costCell(res),
			depthCell(res),
			res.NodesExpanded,
			res.RuntimeSeconds,
			escape(note(res)),
		)
	}
	return b.String()
}

func costCell(res domain.Result) string {
	if res.Status != domain.StatusSolved {
		return "-"
	}
	return fmt.Sprintf("%.2f", res.Cost)
}

func depthCell(res domain.Result) string {
	if res.Status != domain.StatusSolved {
		return "-"
	}
	return fmt.Sprintf("%d", res.Depth)
}

func note(res domain.Result) string {
	switch {
	case res.Error != "":
		return res.Error
	case res.Reused:
		return "reused"
	case res.Validated != nil && *res.Validated:
		return "validated"
	}
	return ""
}

func escape(s string) string {
	s = strings.ReplaceAll(s, "|", "\\|")
	return strings.ReplaceAll(s, "\n", " ")
}

// SummaryLine returns a one-line status count, colored for terminals.
func SummaryLine(w io.Writer, r *domain.Report) string {
	p := profileFor(w)
	summary := r.Summary()

	parts := make([]string, 0, len(domain.Statuses))
	for _, s := range domain.Statuses {
		label := fmt.Sprintf("%s=%d", s, summary[s])
		if summary[s] > 0 {
			label = p.String(label).Foreground(p.Color(statusColors[s])).String()
		}
		parts = append(parts, label)
	}
	return fmt.Sprintf("%d scenarios: %s", len(r.Results), strings.Join(parts, " "))
}

// PrintReport writes the report to w. Terminals get the glamour rendering,
// everything else the raw markdown.
func PrintReport(w io.Writer, r *domain.Report) error {
	md := ReportMarkdown(r)
	if IsTerminal(w) {
		out, err := NewRenderer(Width(w))(md)
		if err == nil {
			md = out
		}
	}
	if _, err := io.WriteString(w, md); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, SummaryLine(w, r))
	return err
}
