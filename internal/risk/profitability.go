package risk

import (
	"marketsim/internal/simulation"
	"marketsim/internal/stats"
)

// ProfitabilityRisk is the §4.5 profitability report: KPI summaries over
// ROI/netProfit/breakEvenWeek (the last excluding iterations that never
// broke even), a worst-case VaR95 over negated values, and headline
// probabilities.
type ProfitabilityRisk struct {
	ROI                 stats.Summary `json:"roi"`
	NetProfit            stats.Summary `json:"netProfit"`
	BreakEvenWeek        stats.Summary `json:"breakEvenWeek"`
	ROIVaR95             float64       `json:"roiVaR95"`
	NetProfitVaR95       float64       `json:"netProfitVaR95"`
	ProbNeverBreakEven   float64       `json:"probNeverBreakEven"`
	ProbROINegative      float64       `json:"probROINegative"`
	ProbROIAbove100      float64       `json:"probROIAbove100"`
}

// AnalyzeProfitability computes the profitability risk report from raw
// per-iteration results.
func AnalyzeProfitability(results []simulation.Result) (*ProfitabilityRisk, error) {
	if len(results) == 0 {
		return nil, &EmptyResultsError{}
	}

	n := len(results)
	roi := make([]float64, n)
	netProfit := make([]float64, n)
	breakEvenWeeks := make([]float64, 0, n)

	for i, r := range results {
		roi[i] = r.ROI
		netProfit[i] = r.NetProfit
		if r.BreakEvenWeek != -1 {
			breakEvenWeeks = append(breakEvenWeeks, float64(r.BreakEvenWeek))
		}
	}

	negatedROI := make([]float64, n)
	negatedNetProfit := make([]float64, n)
	for i := range results {
		negatedROI[i] = -roi[i]
		negatedNetProfit[i] = -netProfit[i]
	}

	return &ProfitabilityRisk{
		ROI:                stats.Compute(roi),
		NetProfit:          stats.Compute(netProfit),
		BreakEvenWeek:      stats.Compute(breakEvenWeeks),
		ROIVaR95:           VaR(negatedROI, 0.95),
		NetProfitVaR95:     VaR(negatedNetProfit, 0.95),
		ProbNeverBreakEven: probability(float64sFromResults(results, func(r simulation.Result) float64 {
			if r.BreakEvenWeek < 0 {
				return 1
			}
			return 0
		}), func(v float64) bool { return v > 0 }),
		ProbROINegative: probability(roi, func(v float64) bool { return v < 0 }),
		ProbROIAbove100: probability(roi, func(v float64) bool { return v > 100 }),
	}, nil
}

func float64sFromResults(results []simulation.Result, f func(simulation.Result) float64) []float64 {
	out := make([]float64, len(results))
	for i, r := range results {
		out[i] = f(r)
	}
	return out
}
