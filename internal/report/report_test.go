package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"marketsim/internal/montecarlo"
	"marketsim/internal/risk"
	"marketsim/internal/stats"
)

func sampleAggregate() *montecarlo.Aggregate {
	return &montecarlo.Aggregate{
		Iterations: 10,
		Sales:      stats.Summary{Mean: 400, P5: 300, P50: 400, P95: 500, Min: 250, Max: 550},
		Revenue:    stats.Summary{Mean: 48000, P10: 36000, P25: 42000, P50: 48000, P75: 54000, P90: 58000, P95: 60000, P99: 65000, Min: 30000, Max: 70000},
		WeeklyAvg: []montecarlo.WeeklyAverage{
			{Week: 0, AvgRevenue: 4000, AvgUnitsSold: 30},
			{Week: 1, AvgRevenue: 4200, AvgUnitsSold: 32},
		},
	}
}

func TestWriteHTMLProducesReadableFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report", "index.html")

	safeStock := &risk.SafeStock{
		Recommended: 1200,
		Plans: []risk.ContingencyPlan{
			{Label: "P50", Stock: 1000, AvgOverstock: 50, AvgUnderstock: 10, TotalRisk: 500},
		},
	}

	if err := WriteHTML(path, sampleAggregate(), safeStock); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "mermaid") {
		t.Error("expected a mermaid chart block in the report")
	}
	if !strings.Contains(out, "1200") {
		t.Error("expected the recommended stock level in the report")
	}
}

func TestWriteHTMLHandlesNilSafeStock(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")
	if err := WriteHTML(path, sampleAggregate(), nil); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
}
