// Package ngc implements the scenario/uncertainty container ("NGC" — the
// acronym is retained from the source): a split of known vs. uncertain
// parameters for company, macro, and supply-chain data, a set of competitor
// profiles with their own embedded uncertainty, and a list of global risk
// events. sampleFullScenario realizes one coherent, seed-deterministic
// scenario from all of it in a fixed order.
package ngc

import (
	"fmt"

	"marketsim/internal/distribution"
	"marketsim/internal/prng"
)

// ExpertBelief models a quantified expert judgment: a probability that some
// event triggers, paired with a distribution for its magnitude if it does.
type ExpertBelief struct {
	ID          string                    `json:"id"`
	Description string                    `json:"description"`
	Probability float64                   `json:"probability"`
	Dist        distribution.Distribution `json:"-"`
	Category    string                    `json:"category"`
}

// BeliefResult is one sample of an ExpertBelief.
type BeliefResult struct {
	ID        string  `json:"id"`
	Triggered bool    `json:"triggered"`
	Value     float64 `json:"value"`
}

// Sample draws (triggered, value) from the same PRNG stream: the trigger
// draw always happens, the magnitude draw only happens if triggered.
func (b ExpertBelief) Sample(p *prng.PRNG) BeliefResult {
	u := p.Next()
	triggered := u < b.Probability
	value := 0.0
	if triggered && b.Dist != nil {
		value = b.Dist.Sample(p)
	}
	return BeliefResult{ID: b.ID, Triggered: triggered, Value: value}
}

// Constraints bound a competitor's admissible actions (§3.4).
type Constraints struct {
	MinMargin         float64 `json:"minMargin"`
	MaxMarketingBudget float64 `json:"maxMarketingBudget"`
	MaxPriceReduction float64 `json:"maxPriceReduction"`
	RiskAversion      float64 `json:"riskAversion"`
}

// DefaultConstraints are applied when a profile omits its own.
func DefaultConstraints() Constraints {
	return Constraints{
		MinMargin:          0.10,
		MaxMarketingBudget: 500_000,
		MaxPriceReduction:  0.30,
		RiskAversion:       0.50,
	}
}

// CompetitorType enumerates the three adversarial policy families (C5).
type CompetitorType string

const (
	CompetitorRule CompetitorType = "rule"
	CompetitorML   CompetitorType = "ml"
	CompetitorRL   CompetitorType = "rl"
)

// CompetitorProfile is the static description of one competitor (§3.4). The
// two optional distributions let a competitor's per-iteration COGS and
// marketing budget themselves be uncertain.
type CompetitorProfile struct {
	ID                  string                    `json:"id"`
	Name                string                    `json:"name"`
	Type                CompetitorType             `json:"type"`
	Aggressiveness      float64                   `json:"aggressiveness"`
	FinancialHealth     float64                   `json:"financialHealth"`
	MarketShare         float64                   `json:"marketShare"`
	Beliefs             []ExpertBelief            `json:"beliefs"`
	Constraints         Constraints               `json:"constraints"`
	CogsDist            distribution.Distribution `json:"-"`
	MarketingBudgetDist distribution.Distribution `json:"-"`
	BaseCogs            float64                   `json:"baseCogs"`
	BaseMarketingBudget float64                   `json:"baseMarketingBudget"`
}

// SampledCompetitor is the realized scenario state for one competitor.
type SampledCompetitor struct {
	Profile              CompetitorProfile `json:"-"`
	BeliefResults         []BeliefResult    `json:"beliefResults"`
	SampledCOGS           float64           `json:"sampledCOGS"`
	SampledMarketingBudget float64          `json:"sampledMarketingBudget"`
}

// ParamMap is a named set of known (deterministic) values.
type ParamMap map[string]float64

// UncertainEntry pairs a named parameter with its distribution.
type UncertainEntry struct {
	Key  string
	Dist distribution.Distribution
}

// UncertainMap is an ordered set of uncertain (distribution-backed) values.
// Sampling draws from the PRNG stream in this same order, so insertion
// order — not key order — is part of the seed-reproducibility contract
// (§4.2); a plain map can't preserve that, hence the slice-of-entries shape.
type UncertainMap []UncertainEntry

// Set appends key if new, or overwrites its distribution in place if it was
// already set — either way preserving first-insertion order.
func (m *UncertainMap) Set(key string, dist distribution.Distribution) {
	for i := range *m {
		if (*m)[i].Key == key {
			(*m)[i].Dist = dist
			return
		}
	}
	*m = append(*m, UncertainEntry{Key: key, Dist: dist})
}

// DataBlock pairs a known map with an uncertain map, the generic shape used
// for company, macro, and supply-chain data (§3.5).
type DataBlock struct {
	Known     ParamMap     `json:"known"`
	Uncertain UncertainMap `json:"-"`
}

// SampledBlock is the realized values of a DataBlock: known values copied
// verbatim plus one sample per uncertain key.
type SampledBlock map[string]float64

func (d DataBlock) sample(p *prng.PRNG) SampledBlock {
	out := make(SampledBlock, len(d.Known)+len(d.Uncertain))
	for k, v := range d.Known {
		out[k] = v
	}
	for _, e := range d.Uncertain {
		out[e.Key] = e.Dist.Sample(p)
	}
	return out
}

// NGC is the full scenario container.
type NGC struct {
	CompanyData    DataBlock
	MacroData      DataBlock
	SupplyChain    DataBlock
	Competitors    map[string]CompetitorProfile
	competitorIDs  []string // insertion order, preserved for reproducible sampling
	RiskEvents     []ExpertBelief
}

// New constructs an empty NGC.
func New() *NGC {
	return &NGC{
		CompanyData: DataBlock{Known: ParamMap{}, Uncertain: UncertainMap{}},
		MacroData:   DataBlock{Known: ParamMap{}, Uncertain: UncertainMap{}},
		SupplyChain: DataBlock{Known: ParamMap{}, Uncertain: UncertainMap{}},
		Competitors: map[string]CompetitorProfile{},
	}
}

// AddCompetitor registers a profile, preserving insertion order for the
// sampling pass.
func (n *NGC) AddCompetitor(profile CompetitorProfile) {
	if _, exists := n.Competitors[profile.ID]; !exists {
		n.competitorIDs = append(n.competitorIDs, profile.ID)
	}
	n.Competitors[profile.ID] = profile
}

// AddRiskEvent constructs an ExpertBelief from its parts and appends it to
// the global risk-event list, in call order.
func (n *NGC) AddRiskEvent(id, description string, probability float64, dist distribution.Distribution, category string) {
	n.RiskEvents = append(n.RiskEvents, ExpertBelief{
		ID:          id,
		Description: description,
		Probability: probability,
		Dist:        dist,
		Category:    category,
	})
}

// Scenario is one fully-realized, deterministic scenario (§3.5).
type Scenario struct {
	Company      SampledBlock                 `json:"company"`
	Macro        SampledBlock                 `json:"macro"`
	Supply       SampledBlock                 `json:"supply"`
	Competitors  map[string]SampledCompetitor `json:"competitors"`
	RiskResults  []BeliefResult               `json:"riskResults"`
}

// SampleFullScenario draws one coherent scenario. Sampling order is fixed
// and is part of the seed-reproducibility contract: company (known then
// uncertain in insertion order), macro, supply, competitors in insertion order
// (each: beliefs then optional sampledCOGS/sampledMarketingBudget), then
// global risk events in insertion order.
func (n *NGC) SampleFullScenario(p *prng.PRNG) Scenario {
	company := n.CompanyData.sample(p)
	macro := n.MacroData.sample(p)
	supply := n.SupplyChain.sample(p)

	competitors := make(map[string]SampledCompetitor, len(n.competitorIDs))
	for _, id := range n.competitorIDs {
		profile := n.Competitors[id]
		beliefResults := make([]BeliefResult, 0, len(profile.Beliefs))
		for _, belief := range profile.Beliefs {
			beliefResults = append(beliefResults, belief.Sample(p))
		}
		sampled := SampledCompetitor{
			Profile:               profile,
			BeliefResults:          beliefResults,
			SampledCOGS:            profile.BaseCogs,
			SampledMarketingBudget: profile.BaseMarketingBudget,
		}
		if profile.CogsDist != nil {
			sampled.SampledCOGS = profile.CogsDist.Sample(p)
		}
		if profile.MarketingBudgetDist != nil {
			sampled.SampledMarketingBudget = profile.MarketingBudgetDist.Sample(p)
		}
		competitors[id] = sampled
	}

	riskResults := make([]BeliefResult, 0, len(n.RiskEvents))
	for _, belief := range n.RiskEvents {
		riskResults = append(riskResults, belief.Sample(p))
	}

	return Scenario{
		Company:     company,
		Macro:       macro,
		Supply:      supply,
		Competitors: competitors,
		RiskResults: riskResults,
	}
}

// CompetitorOrder returns competitor IDs in the fixed insertion order used
// by sampling and by the per-iteration decide loop (§4.3.5 step 3).
func (n *NGC) CompetitorOrder() []string {
	out := make([]string, len(n.competitorIDs))
	copy(out, n.competitorIDs)
	return out
}

// Validate enforces the invariants that must hold before a run starts
// (§4.4 error semantics / §7 InvalidConfig): a profile cannot pair a
// marketing-budget distribution with a negative sigma.
func (n *NGC) Validate() error {
	for id, c := range n.Competitors {
		if n, ok := c.MarketingBudgetDist.(distribution.Normal); ok && n.Sigma < 0 {
			return fmt.Errorf("ngc: competitor %q has negative sigma marketing distribution", id)
		}
		if n, ok := c.CogsDist.(distribution.Normal); ok && n.Sigma < 0 {
			return fmt.Errorf("ngc: competitor %q has negative sigma cogs distribution", id)
		}
	}
	return nil
}
