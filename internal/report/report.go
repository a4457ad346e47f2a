package report

import (
	"fmt"
	"html"
	"os"
	"path/filepath"

	"github.com/pkg/browser"

	"marketsim/internal/montecarlo"
	"marketsim/internal/risk"
)

const pageTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Market Simulation Report</title>
<script type="module">
  import mermaid from "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.esm.min.mjs";
  mermaid.initialize({ startOnLoad: true });
</script>
<style>
  body { font-family: sans-serif; max-width: 960px; margin: 2rem auto; }
  .mermaid { margin: 2rem 0; }
  table { border-collapse: collapse; width: 100%%; }
  th, td { border: 1px solid #ccc; padding: 0.4rem 0.6rem; text-align: right; }
  th:first-child, td:first-child { text-align: left; }
</style>
</head>
<body>
<h1>Market Simulation Report</h1>
<p>%d iterations.</p>
%s
<h2>Headline KPIs</h2>
%s
<h2>Safe-Stock Recommendation</h2>
<p>Recommended stock level: <strong>%d</strong> units.</p>
%s
%s
</body>
</html>
`

func mermaidBlock(chart string) string {
	if chart == "" {
		return ""
	}
	// Strip the ``` fences the chart builders emit: they target Markdown
	// renderers, this page wraps the raw mermaid source directly.
	inner := chart
	inner = trimFence(inner)
	return fmt.Sprintf("<pre class=\"mermaid\">\n%s\n</pre>\n", inner)
}

func trimFence(s string) string {
	const open = "```mermaid\n"
	const close = "```"
	if len(s) > len(open) && s[:len(open)] == open {
		s = s[len(open):]
	}
	if len(s) >= len(close) && s[len(s)-len(close):] == close {
		s = s[:len(s)-len(close)]
	}
	return s
}

func kpiTable(agg *montecarlo.Aggregate) string {
	type kpi struct {
		name                          string
		mean, p5, p50, p95, min, max float64
	}
	kpis := []kpi{
		{"Sales", agg.Sales.Mean, agg.Sales.P5, agg.Sales.P50, agg.Sales.P95, agg.Sales.Min, agg.Sales.Max},
		{"Revenue", agg.Revenue.Mean, agg.Revenue.P5, agg.Revenue.P50, agg.Revenue.P95, agg.Revenue.Min, agg.Revenue.Max},
		{"Gross Profit", agg.GrossProfit.Mean, agg.GrossProfit.P5, agg.GrossProfit.P50, agg.GrossProfit.P95, agg.GrossProfit.Min, agg.GrossProfit.Max},
		{"Net Profit", agg.NetProfit.Mean, agg.NetProfit.P5, agg.NetProfit.P50, agg.NetProfit.P95, agg.NetProfit.Min, agg.NetProfit.Max},
		{"ROI %", agg.ROI.Mean, agg.ROI.P5, agg.ROI.P50, agg.ROI.P95, agg.ROI.Min, agg.ROI.Max},
		{"Margin %", agg.Margin.Mean, agg.Margin.P5, agg.Margin.P50, agg.Margin.P95, agg.Margin.Min, agg.Margin.Max},
		{"Unsold %", agg.UnsoldPct.Mean, agg.UnsoldPct.P5, agg.UnsoldPct.P50, agg.UnsoldPct.P95, agg.UnsoldPct.Min, agg.UnsoldPct.Max},
	}

	out := "<table><tr><th>KPI</th><th>Mean</th><th>P5</th><th>P50</th><th>P95</th><th>Min</th><th>Max</th></tr>\n"
	for _, k := range kpis {
		out += fmt.Sprintf("<tr><td>%s</td><td>%.2f</td><td>%.2f</td><td>%.2f</td><td>%.2f</td><td>%.2f</td><td>%.2f</td></tr>\n",
			html.EscapeString(k.name), k.mean, k.p5, k.p50, k.p95, k.min, k.max)
	}
	out += "</table>\n"
	return out
}

func contingencyTable(plans []risk.ContingencyPlan) string {
	out := "<table><tr><th>Level</th><th>Stock</th><th>Avg Overstock</th><th>Avg Understock</th><th>Total Risk</th></tr>\n"
	for _, p := range plans {
		out += fmt.Sprintf("<tr><td>%s</td><td>%d</td><td>%.1f</td><td>%.1f</td><td>%.2f</td></tr>\n",
			html.EscapeString(p.Label), p.Stock, p.AvgOverstock, p.AvgUnderstock, p.TotalRisk)
	}
	out += "</table>\n"
	return out
}

// WriteHTML renders the aggregate and safe-stock recommendation to a
// standalone HTML file at path.
func WriteHTML(path string, agg *montecarlo.Aggregate, safeStock *risk.SafeStock) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	revChart := mermaidBlock(revenueDistributionChart(agg))
	weeklyChart := mermaidBlock(weeklyAverageChart(agg))

	var stockChart, stockTable string
	recommended := 0
	if safeStock != nil {
		recommended = safeStock.Recommended
		labels := make([]string, len(safeStock.Plans))
		risks := make([]float64, len(safeStock.Plans))
		for i, p := range safeStock.Plans {
			labels[i] = p.Label
			risks[i] = p.TotalRisk
		}
		stockChart = mermaidBlock(safeStockChart(labels, risks))
		stockTable = contingencyTable(safeStock.Plans)
	}

	body := fmt.Sprintf(pageTemplate,
		agg.Iterations,
		revChart+weeklyChart,
		kpiTable(agg),
		recommended,
		stockChart,
		stockTable,
	)

	return os.WriteFile(path, []byte(body), 0o644)
}

// Open launches the system default browser on the rendered report. Errors
// are non-fatal to the caller's run — a report that can't auto-open is still
// on disk at path.
func Open(path string) error {
	return browser.OpenFile(path)
}
