package competitor

import (
	"testing"

	"marketsim/internal/ngc"
	"marketsim/internal/prng"
)

func baseState() MarketState {
	return MarketState{
		Week: 3, TotalWeeks: 12, OurPrice: 50, OurWeeklyMarketing: 10000,
		OurConversion: 0.03, Seasonality: 1.0,
		CompetitorScenario: ngc.SampledCompetitor{SampledCOGS: 20, SampledMarketingBudget: 100000},
	}
}

func TestConstraintsEnforcePriceFloor(t *testing.T) {
	profile := ngc.CompetitorProfile{ID: "c1", Type: ngc.CompetitorRule, Constraints: ngc.Constraints{MinMargin: 0.2, MaxMarketingBudget: 1000, MaxPriceReduction: 0.1}}
	a := Action{Price: 1, MarketingSpend: 5000, Promotion: &Promotion{Discount: 0.9}}
	out := applyConstraints(a, profile, baseState())
	if out.Price < 20*1.2 {
		t.Errorf("price %v below floor %v", out.Price, 20*1.2)
	}
	if out.MarketingSpend > 1000 {
		t.Errorf("marketing %v exceeds cap", out.MarketingSpend)
	}
	if out.Promotion.Discount > 0.1 {
		t.Errorf("discount %v exceeds cap", out.Promotion.Discount)
	}
}

func TestEachVariantProducesConstraintSatisfyingAction(t *testing.T) {
	for _, typ := range []ngc.CompetitorType{ngc.CompetitorRule, ngc.CompetitorML, ngc.CompetitorRL} {
		profile := ngc.CompetitorProfile{
			ID: "c", Type: typ, Aggressiveness: 0.7,
			Constraints: ngc.DefaultConstraints(),
		}
		p := prng.New(5)
		agent, err := NewAgent(profile, p)
		if err != nil {
			t.Fatalf("%v: %v", typ, err)
		}
		state := baseState()
		for week := 0; week < 5; week++ {
			state.Week = week
			action := agent.Decide(state)
			floor := state.CompetitorScenario.SampledCOGS * (1 + profile.Constraints.MinMargin)
			if action.Price < floor-1e-9 {
				t.Errorf("%v week %d: price %v below floor %v", typ, week, action.Price, floor)
			}
			if action.MarketingSpend > profile.Constraints.MaxMarketingBudget+1e-9 {
				t.Errorf("%v week %d: marketing %v exceeds cap", typ, week, action.MarketingSpend)
			}
			if action.Promotion != nil && action.Promotion.Discount > profile.Constraints.MaxPriceReduction+1e-9 {
				t.Errorf("%v week %d: promo discount %v exceeds cap", typ, week, action.Promotion.Discount)
			}
		}
	}
}

func TestUnknownCompetitorTypeErrors(t *testing.T) {
	_, err := NewAgent(ngc.CompetitorProfile{ID: "x", Type: "quantum"}, prng.New(1))
	if err == nil {
		t.Fatal("expected error for unknown competitor type")
	}
}

func TestRLQTablePersistsAcrossReset(t *testing.T) {
	profile := ngc.CompetitorProfile{ID: "rl", Type: ngc.CompetitorRL, Constraints: ngc.DefaultConstraints()}
	p := prng.New(9)
	agentIface, _ := NewAgent(profile, p)
	agent := agentIface.(*RLTabular)

	state := baseState()
	for week := 0; week < 6; week++ {
		state.Week = week
		state.LastOwnProfit = 1000
		state.LastOwnSales = 50
		agent.Decide(state)
	}
	sizeBefore := len(agent.qTable)
	if sizeBefore == 0 {
		t.Fatal("expected Q-table entries after several decisions")
	}

	agent.Reset()
	if len(agent.qTable) != sizeBefore {
		t.Fatalf("Reset must not clear the Q-table: had %d, now %d", sizeBefore, len(agent.qTable))
	}
}

func TestSetRNGRebindsStream(t *testing.T) {
	profile := ngc.CompetitorProfile{ID: "c", Type: ngc.CompetitorRule, Constraints: ngc.DefaultConstraints()}
	agent, err := NewAgent(profile, prng.New(1))
	if err != nil {
		t.Fatalf("NewAgent: %v", err)
	}
	rb := agent.(*RuleBased)
	other := prng.New(999)
	agent.SetRNG(other)
	if rb.rng != other {
		t.Fatal("SetRNG did not rebind the agent's PRNG stream")
	}
}
