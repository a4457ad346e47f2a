package simulation

import (
	"testing"

	"marketsim/internal/competitor"
	"marketsim/internal/distribution"
	"marketsim/internal/ngc"
	"marketsim/internal/population"
	"marketsim/internal/prng"
)

func buildTestScenario() (*ngc.NGC, Offer) {
	n := ngc.New()
	n.AddCompetitor(ngc.CompetitorProfile{
		ID: "riviera", Name: "Riviera", Type: ngc.CompetitorRule,
		Aggressiveness: 0.6, MarketShare: 0.25, FinancialHealth: 0.8,
		Constraints: ngc.DefaultConstraints(),
		Beliefs: []ngc.ExpertBelief{
			{ID: "price-war", Probability: 0.3, Dist: distribution.Normal{Mu: 0.1, Sigma: 0.05}},
		},
		BaseCogs:            40,
		BaseMarketingBudget: 120000,
	})
	n.AddRiskEvent("supply-shock", "supplier disruption", 0.15, distribution.Normal{Mu: 0.2, Sigma: 0.08}, "supply")

	offer := Offer{
		Name: "Flagship", BasePrice: 120, Cogs: 40, MarketingBudget: 150000,
		QualityIndex: 0.7, AllowRepeat: false,
	}
	return n, offer
}

func runOnce(t *testing.T, seed uint32) Result {
	t.Helper()
	n, offer := buildTestScenario()
	master := prng.New(seed)
	iterPRNG := prng.New(master.NextUint32())

	pop := population.Generate(500, nil, iterPRNG)
	scenario := n.SampleFullScenario(iterPRNG)

	agents := make(map[string]competitor.Agent)
	for _, id := range n.CompetitorOrder() {
		agent, err := competitor.NewAgent(n.Competitors[id], iterPRNG)
		if err != nil {
			t.Fatalf("building agent %s: %v", id, err)
		}
		agents[id] = agent
	}

	seasonOpts := SeasonalityOptions{MonthlyTable: DefaultMonthlyTable(), Amplitude: 0.5, UseHolidays: true, Holidays: DefaultHolidays()}
	return Run(offer, pop, scenario, n.CompetitorOrder(), agents, 12, 5000, iterPRNG, seasonOpts)
}

func TestEndToEndScenarioProducesSaneResult(t *testing.T) {
	res := runOnce(t, 123)

	if len(res.WeeklyMetrics) != 12 {
		t.Errorf("weekly metrics length = %d, want 12", len(res.WeeklyMetrics))
	}
	if res.TotalRevenue < 0 {
		t.Errorf("revenue negative: %v", res.TotalRevenue)
	}
	if res.GrossProfit != res.TotalRevenue-res.TotalCost {
		t.Errorf("grossProfit invariant violated: %v != %v - %v", res.GrossProfit, res.TotalRevenue, res.TotalCost)
	}
	wantUnsold := float64(res.InventoryRemaining) / 5000 * 100
	if res.UnsoldPct != wantUnsold {
		t.Errorf("unsoldPct = %v, want %v", res.UnsoldPct, wantUnsold)
	}
}

func TestRunIsDeterministicUnderFixedSeed(t *testing.T) {
	a := runOnce(t, 999)
	b := runOnce(t, 999)

	if a.TotalUnitsSold != b.TotalUnitsSold || a.TotalRevenue != b.TotalRevenue || a.BreakEvenWeek != b.BreakEvenWeek {
		t.Fatalf("non-deterministic run: %+v vs %+v", a, b)
	}
}
