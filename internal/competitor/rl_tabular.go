package competitor

import (
	"fmt"
	"math"

	"marketsim/internal/ngc"
	"marketsim/internal/prng"
)

// rlAction is one of the eight named macro-actions the RL competitor can
// pick: a price delta, a marketing multiplier, and an optional promo
// discount (§4.3.3).
type rlAction struct {
	name            string
	priceChange     float64
	marketingMult   float64
	promoDiscount   float64
}

var rlActionSet = [8]rlAction{
	{"hold", 0, 1.0, 0},
	{"undercut_small", -0.03, 1.0, 0},
	{"undercut_large", -0.08, 1.1, 0},
	{"premium_small", 0.03, 0.9, 0},
	{"premium_large", 0.08, 0.8, 0},
	{"boost_marketing", 0, 1.5, 0},
	{"cut_marketing", 0, 0.5, 0},
	{"promo_push", -0.05, 1.2, 0.15},
}

const (
	rlEpsilon = 0.2
	rlGamma   = 0.95
	rlAlpha   = 0.1
)

// RLTabular discretizes market state into a string key and picks among the
// eight macro-actions via epsilon-greedy over a persistent Q-table. The
// Q-table survives iteration resets within a single Monte Carlo run (§9 Open
// Questions: the spec flags this cross-iteration learning as observed
// behaviour to preserve, not a product guarantee to fix).
type RLTabular struct {
	profile ngc.CompetitorProfile
	rng     *prng.PRNG
	qTable  map[string][8]float64

	basePrice   float64
	initialized bool

	havePrev  bool
	prevKey   string
	prevIdx   int
}

func (r *RLTabular) ID() string { return r.profile.ID }

func (r *RLTabular) SetRNG(p *prng.PRNG) { r.rng = p }

// Reset clears per-iteration counters only; the Q-table is intentionally
// left untouched (see type doc).
func (r *RLTabular) Reset() {
	r.initialized = false
	r.havePrev = false
	r.prevKey = ""
	r.prevIdx = 0
}

func stateKey(priceRatio float64, sales, salesScale, week, totalWeeks int) string {
	priceBucket := int(math.Round(priceRatio * 10))
	salesBucket := 0
	if salesScale > 0 {
		salesBucket = (sales * 10) / salesScale
	}
	weekBucket := 0
	if totalWeeks > 0 {
		weekBucket = (week * 4) / totalWeeks
	}
	return fmt.Sprintf("%d|%d|%d", priceBucket, salesBucket, weekBucket)
}

func (r *RLTabular) Decide(state MarketState) Action {
	if !r.initialized {
		r.basePrice = state.CompetitorScenario.SampledCOGS * (1 + r.profile.Constraints.MinMargin) * 1.5
		r.initialized = true
	}

	priceRatio := 1.0
	if r.basePrice > 0 {
		priceRatio = state.OurPrice / r.basePrice
	}
	salesScale := max1(int(state.CompetitorScenario.SampledMarketingBudget / 1000))
	key := stateKey(priceRatio, state.LastOwnSales, salesScale, state.Week, state.TotalWeeks)

	q, ok := r.qTable[key]
	if !ok {
		q = [8]float64{}
		r.qTable[key] = q
	}

	// Off-policy update against the PREVIOUS (state, action): the reward for
	// last week's choice is only observable now.
	if r.havePrev {
		reward := state.LastOwnProfit*0.001 - float64(state.LastOwnSales)*0.0001*r.profile.Aggressiveness
		bestNext := q[0]
		for _, v := range q {
			if v > bestNext {
				bestNext = v
			}
		}
		prevQ := r.qTable[r.prevKey]
		prevQ[r.prevIdx] += rlAlpha * (reward + rlGamma*bestNext - prevQ[r.prevIdx])
		r.qTable[r.prevKey] = prevQ
	}

	var idx int
	if r.rng.Next() < rlEpsilon {
		idx = int(r.rng.Next() * float64(len(rlActionSet)))
		if idx >= len(rlActionSet) {
			idx = len(rlActionSet) - 1
		}
	} else {
		idx = 0
		best := q[0]
		for i, v := range q {
			if v > best {
				best = v
				idx = i
			}
		}
	}

	r.prevKey = key
	r.prevIdx = idx
	r.havePrev = true

	chosen := rlActionSet[idx]
	price := r.basePrice * (1 + chosen.priceChange)
	marketing := (state.CompetitorScenario.SampledMarketingBudget / float64(max1(state.TotalWeeks))) * chosen.marketingMult

	var promo *Promotion
	if chosen.promoDiscount > 0 {
		promo = &Promotion{Discount: chosen.promoDiscount, DurationLeft: 2}
	}

	action := Action{Price: price, MarketingSpend: marketing, Promotion: promo}
	return applyConstraints(action, r.profile, state)
}

func (r *RLTabular) ApplyConstraints(a Action, state MarketState) Action {
	return applyConstraints(a, r.profile, state)
}
