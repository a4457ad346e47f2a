package risk

import (
	"math"
	"slices"

	"marketsim/internal/simulation"
)

// DefaultConfidenceLevel is the safe-stock recommender's default percentile
// of demand to cover (§4.5).
const DefaultConfidenceLevel = 0.99

// ContingencyPlan is one row of the stock-level scenario table: how a given
// candidate stock level trades off overstock against lost-sales risk.
type ContingencyPlan struct {
	Label          string  `json:"label"`
	Stock          int     `json:"stock"`
	AvgOverstock   float64 `json:"avgOverstock"`
	AvgUnderstock  float64 `json:"avgUnderstock"`
	OverstockCost  float64 `json:"overstockCost"`
	LostSalesCost  float64 `json:"lostSalesCost"`
	TotalRisk      float64 `json:"totalRisk"`
}

// SafeStock is the recommended inventory level plus its supporting
// scenario table.
type SafeStock struct {
	Recommended int                `json:"recommended"`
	Plans       []ContingencyPlan  `json:"plans"`
}

// RecommendSafeStock sorts totalUnitsSold ascending, picks the nearest-rank
// demand at confidenceLevel (default 0.99), inflates it 5% as a buffer, and
// emits a contingency-plan table across P50/P75/P90/P95/P99 and the
// recommended level.
func RecommendSafeStock(results []simulation.Result, cogs float64, confidenceLevel float64) (*SafeStock, error) {
	if len(results) == 0 {
		return nil, &EmptyResultsError{}
	}
	if confidenceLevel <= 0 {
		confidenceLevel = DefaultConfidenceLevel
	}

	sold := make([]float64, len(results))
	for i, r := range results {
		sold[i] = float64(r.TotalUnitsSold)
	}
	sorted := slices.Clone(sold)
	slices.Sort(sorted)

	n := len(sorted)
	idx := int(math.Ceil(confidenceLevel*float64(n))) - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= n {
		idx = n - 1
	}
	recommended := int(math.Ceil(sorted[idx] * 1.05))

	levels := []struct {
		label string
		p     float64
	}{
		{"P50", 0.50}, {"P75", 0.75}, {"P90", 0.90}, {"P95", 0.95}, {"P99", 0.99},
	}

	plans := make([]ContingencyPlan, 0, len(levels)+1)
	for _, lvl := range levels {
		stockIdx := int(math.Ceil(lvl.p*float64(n))) - 1
		if stockIdx < 0 {
			stockIdx = 0
		}
		if stockIdx >= n {
			stockIdx = n - 1
		}
		stock := int(math.Ceil(sorted[stockIdx]))
		plans = append(plans, contingencyPlan(lvl.label, stock, sold, cogs))
	}
	plans = append(plans, contingencyPlan("recommended", recommended, sold, cogs))

	return &SafeStock{Recommended: recommended, Plans: plans}, nil
}

func contingencyPlan(label string, stock int, sold []float64, cogs float64) ContingencyPlan {
	var overstockSum, understockSum float64
	for _, s := range sold {
		over := float64(stock) - s
		if over < 0 {
			over = 0
		}
		under := s - float64(stock)
		if under < 0 {
			under = 0
		}
		overstockSum += over
		understockSum += under
	}
	n := float64(len(sold))
	avgOverstock := overstockSum / n
	avgUnderstock := understockSum / n
	overstockCost := avgOverstock * cogs
	lostSalesCost := avgUnderstock * cogs * 0.5

	return ContingencyPlan{
		Label: label, Stock: stock,
		AvgOverstock: avgOverstock, AvgUnderstock: avgUnderstock,
		OverstockCost: overstockCost, LostSalesCost: lostSalesCost,
		TotalRisk: overstockCost + lostSalesCost,
	}
}
