// Package competitor implements the three adversarial competitor policies
// (§4.3.3): rule-based, ML-prediction, and tabular-RL. Each is a distinct
// Go type implementing the shared Agent interface rather than a class
// hierarchy — the "CompetitorAgent base + Rule/ML/RL subclasses" pattern
// from the source becomes one interface over three concrete types, the RL
// variant carrying its Q-table as owned mutable state.
package competitor

import (
	"fmt"

	"marketsim/internal/ngc"
	"marketsim/internal/prng"
)

// Promotion is an optional discount campaign a competitor can run.
type Promotion struct {
	Discount     float64
	DurationLeft int
}

// Action is what a competitor decides to do in one week (§4.3.3).
type Action struct {
	Price          float64
	MarketingSpend float64
	Promotion      *Promotion
}

// MarketState is the shared, per-week view every competitor's Decide sees.
// OurPrice/OurWeeklyMarketing are the player's own current offer terms;
// CompetitorScenario is this competitor's sampled scenario entry for the
// iteration (§4.3.5 step 3).
type MarketState struct {
	Week                   int
	TotalWeeks             int
	OurPrice               float64
	OurWeeklyMarketing     float64
	OurConversion          float64
	Seasonality            float64
	CompetitorScenario     ngc.SampledCompetitor
	LastOwnProfit          float64
	LastOwnSales           int
}

// Agent is the shared behavioural contract for all three competitor
// variants: decide an action, given the current market state and this
// iteration's private PRNG substream. SetRNG rebinds that substream — the
// driver calls it once per iteration so every draw an agent makes, not just
// population/scenario sampling, comes from that iteration's PRNG (§4.4),
// while any persistent state (e.g. RLTabular's Q-table) survives untouched.
type Agent interface {
	ID() string
	Decide(state MarketState) Action
	ApplyConstraints(a Action, state MarketState) Action
	Reset()
	SetRNG(p *prng.PRNG)
}

// NewAgent constructs the concrete competitor implementation matching the
// profile's declared type.
func NewAgent(profile ngc.CompetitorProfile, p *prng.PRNG) (Agent, error) {
	switch profile.Type {
	case ngc.CompetitorRule:
		return &RuleBased{profile: profile, rng: p}, nil
	case ngc.CompetitorML:
		return &MLPrediction{profile: profile, rng: p, weights: [4]float64{-0.5, -0.8, 0.3, 0.2}}, nil
	case ngc.CompetitorRL:
		return &RLTabular{profile: profile, rng: p, qTable: make(map[string][8]float64)}, nil
	default:
		return nil, fmt.Errorf("competitor: unknown type %q", profile.Type)
	}
}

// applyConstraints enforces §3.4's invariant: price floor from sampled COGS
// and minimum margin, a marketing ceiling, and a promo-discount ceiling.
// Shared by all three variants since constraint enforcement is not
// policy-specific.
func applyConstraints(a Action, profile ngc.CompetitorProfile, state MarketState) Action {
	c := profile.Constraints
	floor := state.CompetitorScenario.SampledCOGS * (1 + c.MinMargin)
	if a.Price < floor {
		a.Price = floor
	}
	if c.MaxMarketingBudget > 0 && a.MarketingSpend > c.MaxMarketingBudget {
		a.MarketingSpend = c.MaxMarketingBudget
	}
	if a.Promotion != nil && c.MaxPriceReduction > 0 && a.Promotion.Discount > c.MaxPriceReduction {
		a.Promotion.Discount = c.MaxPriceReduction
	}
	return a
}
