// Package report renders a Monte Carlo aggregate and its risk reports into a
// standalone HTML page: Mermaid xychart-beta blocks for the revenue
// distribution, the weekly-average revenue series and the safe-stock
// contingency risk, the way the teacher renders
// its forecasts as Mermaid charts embedded in Markdown (internal/visuals),
// adapted here to a browsable HTML document instead of chat-embedded text.
package report

import (
	"fmt"
	"math"
	"strings"

	"marketsim/internal/montecarlo"
)

// revenueDistributionChart renders a percentile bar chart over the revenue
// KPI's StatSummary.
func revenueDistributionChart(agg *montecarlo.Aggregate) string {
	labels := []string{"\"P10\"", "\"P25\"", "\"P50\"", "\"P75\"", "\"P90\"", "\"P95\"", "\"P99\""}
	values := []string{
		fmt.Sprintf("%.0f", agg.Revenue.P10), fmt.Sprintf("%.0f", agg.Revenue.P25),
		fmt.Sprintf("%.0f", agg.Revenue.P50), fmt.Sprintf("%.0f", agg.Revenue.P75),
		fmt.Sprintf("%.0f", agg.Revenue.P90), fmt.Sprintf("%.0f", agg.Revenue.P95),
		fmt.Sprintf("%.0f", agg.Revenue.P99),
	}
	maxY := agg.Revenue.P99 * 1.1
	if maxY <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Total Revenue Distribution Across Iterations\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Revenue\" 0 --> %d\n", int(math.Ceil(maxY))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// weeklyAverageChart renders the cross-iteration weekly-average revenue as a
// line series over the simulation horizon.
func weeklyAverageChart(agg *montecarlo.Aggregate) string {
	if len(agg.WeeklyAvg) == 0 {
		return ""
	}

	var labels, revenue []string
	maxRevenue := 0.0
	for _, w := range agg.WeeklyAvg {
		labels = append(labels, fmt.Sprintf("%d", w.Week+1))
		revenue = append(revenue, fmt.Sprintf("%.0f", w.AvgRevenue))
		if w.AvgRevenue > maxRevenue {
			maxRevenue = w.AvgRevenue
		}
	}
	if maxRevenue <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Weekly Average Revenue\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(labels, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Revenue\" 0 --> %d\n", int(math.Ceil(maxRevenue*1.2))))
	sb.WriteString(fmt.Sprintf("    line [%s]\n", strings.Join(revenue, ", ")))
	sb.WriteString("```")
	return sb.String()
}

// safeStockChart renders the contingency-plan table's total-risk per stock
// level as a bar chart.
func safeStockChart(labels []string, totalRisk []float64) string {
	if len(labels) == 0 {
		return ""
	}
	maxRisk := 0.0
	quoted := make([]string, len(labels))
	values := make([]string, len(labels))
	for i, l := range labels {
		quoted[i] = fmt.Sprintf("%q", l)
		values[i] = fmt.Sprintf("%.0f", totalRisk[i])
		if totalRisk[i] > maxRisk {
			maxRisk = totalRisk[i]
		}
	}
	if maxRisk <= 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("```mermaid\n")
	sb.WriteString("xychart-beta\n")
	sb.WriteString("    title \"Safe-Stock Contingency Risk\"\n")
	sb.WriteString(fmt.Sprintf("    x-axis [%s]\n", strings.Join(quoted, ", ")))
	sb.WriteString(fmt.Sprintf("    y-axis \"Total Risk Cost\" 0 --> %d\n", int(math.Ceil(maxRisk*1.2))))
	sb.WriteString(fmt.Sprintf("    bar [%s]\n", strings.Join(values, ", ")))
	sb.WriteString("```")
	return sb.String()
}
