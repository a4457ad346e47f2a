package risk

import "marketsim/internal/simulation"

// InventoryRisk is the §4.5 inventory-health report: VaR/CVaR at 95%/99%
// over three derived loss series, plus a handful of headline probabilities.
type InventoryRisk struct {
	InventoryLossVaR95     float64 `json:"inventoryLossVaR95"`
	InventoryLossCVaR95    float64 `json:"inventoryLossCVaR95"`
	InventoryLossVaR99     float64 `json:"inventoryLossVaR99"`
	InventoryLossCVaR99    float64 `json:"inventoryLossCVaR99"`
	UnprofitableLossVaR95  float64 `json:"unprofitableLossVaR95"`
	UnprofitableLossCVaR95 float64 `json:"unprofitableLossCVaR95"`
	UnprofitableLossVaR99  float64 `json:"unprofitableLossVaR99"`
	UnprofitableLossCVaR99 float64 `json:"unprofitableLossCVaR99"`
	CapitalAtRiskVaR95     float64 `json:"capitalAtRiskVaR95"`
	CapitalAtRiskCVaR95    float64 `json:"capitalAtRiskCVaR95"`
	CapitalAtRiskVaR99     float64 `json:"capitalAtRiskVaR99"`
	CapitalAtRiskCVaR99    float64 `json:"capitalAtRiskCVaR99"`
	ProbUnsoldAbove10      float64 `json:"probUnsoldAbove10"`
	ProbUnsoldAbove25      float64 `json:"probUnsoldAbove25"`
	ProbNetProfitNegative  float64 `json:"probNetProfitNegative"`
	ProbMarginBelow15      float64 `json:"probMarginBelow15"`
	ProbMarginBelow20      float64 `json:"probMarginBelow20"`
}

// AnalyzeInventory computes the inventory risk report from raw per-iteration
// results and the offer's nominal (pre-risk-multiplier) unit cost.
func AnalyzeInventory(results []simulation.Result, cogs float64) (*InventoryRisk, error) {
	if len(results) == 0 {
		return nil, &EmptyResultsError{}
	}

	n := len(results)
	inventoryLosses := make([]float64, n)
	unprofitableLosses := make([]float64, n)
	capitalAtRisk := make([]float64, n)
	unsoldPcts := make([]float64, n)
	netProfits := make([]float64, n)
	margins := make([]float64, n)

	for i, r := range results {
		inventoryLosses[i] = float64(r.InventoryRemaining) * cogs

		marginPerUnit := 0.0
		if r.TotalUnitsSold != 0 {
			marginPerUnit = r.GrossProfit / float64(r.TotalUnitsSold)
		}
		if marginPerUnit < 0 {
			unprofitableLosses[i] = float64(r.InventoryRemaining) * cogs
		} else {
			discounted := cogs - 0.3*marginPerUnit
			if discounted < 0 {
				discounted = 0
			}
			unprofitableLosses[i] = float64(r.InventoryRemaining) * discounted
		}

		capitalAtRisk[i] = r.InventoryValue + r.TotalMarketingSpent
		unsoldPcts[i] = r.UnsoldPct
		netProfits[i] = r.NetProfit
		margins[i] = r.MarginPct
	}

	return &InventoryRisk{
		InventoryLossVaR95:     VaR(inventoryLosses, 0.95),
		InventoryLossCVaR95:    CVaR(inventoryLosses, 0.95),
		InventoryLossVaR99:     VaR(inventoryLosses, 0.99),
		InventoryLossCVaR99:    CVaR(inventoryLosses, 0.99),
		UnprofitableLossVaR95:  VaR(unprofitableLosses, 0.95),
		UnprofitableLossCVaR95: CVaR(unprofitableLosses, 0.95),
		UnprofitableLossVaR99:  VaR(unprofitableLosses, 0.99),
		UnprofitableLossCVaR99: CVaR(unprofitableLosses, 0.99),
		CapitalAtRiskVaR95:     VaR(capitalAtRisk, 0.95),
		CapitalAtRiskCVaR95:    CVaR(capitalAtRisk, 0.95),
		CapitalAtRiskVaR99:     VaR(capitalAtRisk, 0.99),
		CapitalAtRiskCVaR99:    CVaR(capitalAtRisk, 0.99),
		ProbUnsoldAbove10:      probability(unsoldPcts, func(v float64) bool { return v > 10 }),
		ProbUnsoldAbove25:      probability(unsoldPcts, func(v float64) bool { return v > 25 }),
		ProbNetProfitNegative:  probability(netProfits, func(v float64) bool { return v < 0 }),
		ProbMarginBelow15:      probability(margins, func(v float64) bool { return v < 15 }),
		ProbMarginBelow20:      probability(margins, func(v float64) bool { return v < 20 }),
	}, nil
}
