package montecarlo

import (
	"context"

	"golang.org/x/sync/errgroup"

	"marketsim/internal/simulation"
	"marketsim/internal/stats"
)

// WeeklyAverage is one week's cross-iteration average telemetry (§4.5).
type WeeklyAverage struct {
	Week          int     `json:"week"`
	AvgUnitsSold  float64 `json:"avgUnitsSold"`
	AvgRevenue    float64 `json:"avgRevenue"`
	AvgInventory  float64 `json:"avgInventory"`
	AvgConversion float64 `json:"avgConversion"`
}

// Aggregate is the full cross-iteration result (§3.9, §4.5): a stats.Summary
// per headline KPI, a weekly-average series, raw per-KPI empirical
// distributions for the risk layer, and the raw per-iteration results
// themselves for anything not pre-aggregated here.
type Aggregate struct {
	Iterations          int                    `json:"iterations"`
	Cancelled           bool                   `json:"cancelled"`
	Sales               stats.Summary          `json:"sales"`
	Revenue             stats.Summary          `json:"revenue"`
	GrossProfit         stats.Summary          `json:"grossProfit"`
	NetProfit           stats.Summary          `json:"netProfit"`
	ROI                 stats.Summary          `json:"roi"`
	Margin              stats.Summary          `json:"margin"`
	InventoryRemaining  stats.Summary          `json:"inventoryRemaining"`
	UnsoldPct           stats.Summary          `json:"unsoldPct"`
	WeeklyAvg           []WeeklyAverage        `json:"weeklyAvg"`
	Distributions       map[string][]float64   `json:"distributions"`
	RawResults          []simulation.Result    `json:"-"`
}

// aggregate runs the post-iteration summarization pass described in §5: the
// stochastic loop above this call is strictly single-threaded, but once every
// raw simulation.Result is in hand, the independent per-KPI stats.Compute
// calls and the weekly-average reduction have no sequencing dependency on
// each other, so they run concurrently via an errgroup.
func aggregate(results []simulation.Result, totalWeeks int) *Aggregate {
	n := len(results)
	dist := map[string][]float64{
		"unitsSold":          make([]float64, n),
		"revenue":            make([]float64, n),
		"grossProfit":        make([]float64, n),
		"netProfit":          make([]float64, n),
		"roi":                make([]float64, n),
		"margin":             make([]float64, n),
		"inventoryRemaining": make([]float64, n),
		"unsoldPct":          make([]float64, n),
		"breakEvenWeek":      make([]float64, n),
	}
	for i, r := range results {
		dist["unitsSold"][i] = float64(r.TotalUnitsSold)
		dist["revenue"][i] = r.TotalRevenue
		dist["grossProfit"][i] = r.GrossProfit
		dist["netProfit"][i] = r.NetProfit
		dist["roi"][i] = r.ROI
		dist["margin"][i] = r.MarginPct
		dist["inventoryRemaining"][i] = float64(r.InventoryRemaining)
		dist["unsoldPct"][i] = r.UnsoldPct
		dist["breakEvenWeek"][i] = float64(r.BreakEvenWeek)
	}

	var (
		salesSummary, revSummary, grossSummary, netSummary stats.Summary
		roiSummary, marginSummary, invSummary, unsoldSummary stats.Summary
		weeklyAvg []WeeklyAverage
	)

	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error { salesSummary = stats.Compute(dist["unitsSold"]); return nil })
	g.Go(func() error { revSummary = stats.Compute(dist["revenue"]); return nil })
	g.Go(func() error { grossSummary = stats.Compute(dist["grossProfit"]); return nil })
	g.Go(func() error { netSummary = stats.Compute(dist["netProfit"]); return nil })
	g.Go(func() error { roiSummary = stats.Compute(dist["roi"]); return nil })
	g.Go(func() error { marginSummary = stats.Compute(dist["margin"]); return nil })
	g.Go(func() error { invSummary = stats.Compute(dist["inventoryRemaining"]); return nil })
	g.Go(func() error { unsoldSummary = stats.Compute(dist["unsoldPct"]); return nil })
	g.Go(func() error { weeklyAvg = computeWeeklyAverage(results, totalWeeks); return nil })
	_ = g.Wait() // each goroutine above is pure and infallible; no error can surface

	return &Aggregate{
		Iterations:         n,
		Sales:              salesSummary,
		Revenue:            revSummary,
		GrossProfit:        grossSummary,
		NetProfit:          netSummary,
		ROI:                roiSummary,
		Margin:             marginSummary,
		InventoryRemaining: invSummary,
		UnsoldPct:          unsoldSummary,
		WeeklyAvg:          weeklyAvg,
		Distributions:      dist,
		RawResults:         results,
	}
}

func computeWeeklyAverage(results []simulation.Result, totalWeeks int) []WeeklyAverage {
	out := make([]WeeklyAverage, totalWeeks)
	for w := 0; w < totalWeeks; w++ {
		out[w].Week = w
	}
	counts := make([]int, totalWeeks)
	for _, r := range results {
		for w, m := range r.WeeklyMetrics {
			if w >= totalWeeks {
				break
			}
			out[w].AvgUnitsSold += float64(m.UnitsSold)
			out[w].AvgRevenue += m.Revenue
			out[w].AvgInventory += float64(m.Inventory)
			out[w].AvgConversion += m.AvgConversion
			counts[w]++
		}
	}
	for w := range out {
		if counts[w] == 0 {
			continue
		}
		c := float64(counts[w])
		out[w].AvgUnitsSold /= c
		out[w].AvgRevenue /= c
		out[w].AvgInventory /= c
		out[w].AvgConversion /= c
	}
	return out
}
