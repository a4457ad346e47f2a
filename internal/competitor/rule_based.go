package competitor

import (
	"marketsim/internal/ngc"
	"marketsim/internal/prng"
)

// RuleBased reacts to the player's price and its own conversion rate using a
// fixed reactionDelay and a handful of aggressiveness-scaled heuristics
// (§4.3.3).
type RuleBased struct {
	profile       ngc.CompetitorProfile
	rng           *prng.PRNG
	reactionDelay int
	promoWeeksLeft int
	basePrice     float64
	initialized   bool
}

func (r *RuleBased) ID() string { return r.profile.ID }

func (r *RuleBased) SetRNG(p *prng.PRNG) { r.rng = p }

func (r *RuleBased) Reset() {
	r.promoWeeksLeft = 0
	r.initialized = false
}

func (r *RuleBased) Decide(state MarketState) Action {
	if !r.initialized {
		r.basePrice = state.CompetitorScenario.SampledCOGS * (1 + r.profile.Constraints.MinMargin) * 1.5
		r.reactionDelay = 2
		r.initialized = true
	}

	agg := r.profile.Aggressiveness
	price := r.basePrice
	marketing := state.CompetitorScenario.SampledMarketingBudget / float64(max1(state.TotalWeeks))

	if state.Week >= r.reactionDelay && state.OurPrice <= r.basePrice*0.95 {
		if agg <= 0.6 {
			price = state.OurPrice
		} else {
			price = state.OurPrice * (1 - 0.02*agg)
		}
		marketing *= 1 + agg*0.5
	}

	var promo *Promotion
	if r.promoWeeksLeft > 0 {
		r.promoWeeksLeft--
		promo = &Promotion{Discount: 0.15, DurationLeft: r.promoWeeksLeft}
	} else if state.OurConversion > 0.02 && agg > 0.5 {
		if r.rng.Next() < agg*0.3 {
			discount := 0.10 + r.rng.Next()*0.15
			duration := 2 + int(r.rng.Next()*3)
			r.promoWeeksLeft = duration - 1
			promo = &Promotion{Discount: discount, DurationLeft: duration}
		}
	}

	if r.rng.Next() < 0.05*agg {
		marketing *= 1.5
	}

	action := Action{Price: price, MarketingSpend: marketing, Promotion: promo}
	return applyConstraints(action, r.profile, state)
}

func (r *RuleBased) ApplyConstraints(a Action, state MarketState) Action {
	return applyConstraints(a, r.profile, state)
}

func max1(x int) int {
	if x < 1 {
		return 1
	}
	return x
}
