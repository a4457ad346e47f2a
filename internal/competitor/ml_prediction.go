package competitor

import (
	"math"

	"marketsim/internal/ngc"
	"marketsim/internal/prng"
)

// MLPrediction scores a four-feature linear model over
// (priceGap, marketShareLoss, margin, seasonality) and reacts to the score,
// nudging its own weights after enough history accumulates (§4.3.3). The
// "ML" here is a single online-adjusted linear scorer, not a trained model —
// matching the heuristic-ML framing in the source.
type MLPrediction struct {
	profile     ngc.CompetitorProfile
	rng         *prng.PRNG
	weights     [4]float64
	history     []float64 // past own profits, used for the weight nudge
	basePrice   float64
	initialized bool
}

func (m *MLPrediction) ID() string { return m.profile.ID }

func (m *MLPrediction) SetRNG(p *prng.PRNG) { m.rng = p }

func (m *MLPrediction) Reset() {
	m.history = nil
	m.initialized = false
}

func (m *MLPrediction) Decide(state MarketState) Action {
	if !m.initialized {
		m.basePrice = state.CompetitorScenario.SampledCOGS * (1 + m.profile.Constraints.MinMargin) * 1.5
		m.initialized = true
	}

	priceGap := 0.0
	if m.basePrice > 0 {
		priceGap = (state.OurPrice - m.basePrice) / m.basePrice
	}
	marketShareLoss := state.OurConversion
	margin := 0.0
	if m.basePrice > 0 {
		margin = (m.basePrice - state.CompetitorScenario.SampledCOGS) / m.basePrice
	}
	seasonality := state.Seasonality - 1

	score := m.weights[0]*priceGap + m.weights[1]*marketShareLoss + m.weights[2]*margin + m.weights[3]*seasonality

	price := m.basePrice
	marketing := state.CompetitorScenario.SampledMarketingBudget / float64(max1(state.TotalWeeks))
	var promo *Promotion

	if score < -0.3 {
		cut := math.Min(0.15, math.Abs(score)*0.2)
		price = m.basePrice * (1 - cut)
		marketing *= 1 + math.Abs(score)
	}
	if score < -0.5 {
		promo = &Promotion{Discount: 0.15, DurationLeft: 3}
	}
	if score > 0.2 {
		price = m.basePrice * 1.03
	}

	m.history = append(m.history, state.LastOwnProfit)
	if len(m.history) > 2 {
		last := m.history[len(m.history)-1]
		nudge := 0.01
		if last < 0 {
			nudge = -0.01
		}
		for i := range m.weights {
			m.weights[i] += nudge * sign(m.weights[i])
		}
	}

	action := Action{Price: price, MarketingSpend: marketing, Promotion: promo}
	return applyConstraints(action, m.profile, state)
}

func (m *MLPrediction) ApplyConstraints(a Action, state MarketState) Action {
	return applyConstraints(a, m.profile, state)
}

func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	if x > 0 {
		return 1
	}
	return 0
}
