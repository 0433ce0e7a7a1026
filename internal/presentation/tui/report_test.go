package tui

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/motionplan/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.Report {
	ok := true
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &domain.Report{
		RunID:      "run-7",
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		Results: []domain.Result{
			{ScenarioID: "A", Planner: "astar", Status: domain.StatusSolved, Cost: 12.5, Depth: 3, NodesExpanded: 40, RuntimeSeconds: 0.25, Validated: &ok},
			{ScenarioID: "B", Planner: "bfs", Status: domain.StatusTimeout, Error: "search timed out"},
			{ScenarioID: "C|x", Planner: "ucs", Status: domain.StatusSolved, Reused: true, Cost: 1},
		},
	}
}

func TestReportMarkdown(t *testing.T) {
	md := ReportMarkdown(sampleReport())

	assert.Contains(t, md, "# Run run-7")
	assert.Contains(t, md, "Elapsed: 1.5s")
	assert.Contains(t, md, "| SOLVED | 2 |")
	assert.Contains(t, md, "| TIMEOUT | 1 |")
	assert.Contains(t, md, "| ERROR | 0 |")
	assert.Contains(t, md, "| A | astar | SOLVED | 12.50 | 3 | 40 | 0.250 | validated |")
	assert.Contains(t, md, "| B | bfs | TIMEOUT | - | - | 0 | 0.000 | search timed out |")
	assert.Contains(t, md, `C\|x`)
	assert.Contains(t, md, "reused")
}

func TestSummaryLine_PlainForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	line := SummaryLine(&buf, sampleReport())

	assert.Equal(t, "3 scenarios: SOLVED=2 NO_SOLUTION=0 DEPTH_LIMIT=0 TIMEOUT=1 ERROR=0", line)
	assert.NotContains(t, line, "\x1b[")
}

func TestPrintReport_NonTerminalWritesMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, PrintReport(&buf, sampleReport()))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "# Run run-7"))
	assert.True(t, strings.HasSuffix(out, "ERROR=0\n"))
}

func TestPrintBanner_NoColorForBuffers(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)

	assert.Contains(t, buf.String(), "|_|")
	assert.NotContains(t, buf.String(), "\x1b[")
}

func TestNewRenderer(t *testing.T) {
	out, err := NewRenderer(80)("# Title\n\nbody")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
}
