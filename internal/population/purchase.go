package population

import "marketsim/internal/prng"

// PurchaseContext is the subset of weekly market state a purchase evaluation
// needs (§4.3.1). It is passed by value rather than via a back-reference to
// a "market" object, matching the source's lack of any such object: each
// field here is read directly out of the per-week loop in internal/simulation.
type PurchaseContext struct {
	Price                    float64
	QualityIndex             float64
	IsNew                    bool
	AllowRepeat              bool
	MarketingSpend           float64
	CompetitorAttractiveness float64
	NoveltyFactor            float64
	SeasonalMultiplier       float64
}

// EvaluationResult is the outcome of one customer's weekly purchase decision.
type EvaluationResult struct {
	WillBuy bool
	Prob    float64
}

// EvaluatePurchase runs the full §4.3.1 scoring pipeline for one agent,
// mutating its Awareness/HasPurchased/Satisfaction in place. neighborsBought
// is the count of the agent's connected peers who have already purchased
// this iteration; |connected| is read from agent.Connected directly, so
// only the aggregate count needs to be threaded in by the caller.
func EvaluatePurchase(agent *Agent, neighborsBought int, ctx PurchaseContext, p *prng.PRNG) EvaluationResult {
	if agent.HasPurchased && !ctx.AllowRepeat {
		return EvaluationResult{WillBuy: false, Prob: 0}
	}

	priceScore := 0.0
	if agent.Budget > 0 {
		priceScore = 1 - (ctx.Price/agent.Budget)*agent.PriceSensitivity*2
	}
	if priceScore < 0 {
		priceScore = 0
	}

	qualityScore := ctx.QualityIndex * agent.QualityPreference

	noveltyBonus := 0.0
	if ctx.IsNew {
		noveltyBonus = agent.InnovationAdoption * 0.3
	}

	socialScore := 0.0
	if len(agent.Connected) > 0 {
		socialScore = (float64(neighborsBought) / float64(len(agent.Connected))) * agent.SocialInfluence
	}

	marketingEffect := ctx.MarketingSpend / 200_000
	if marketingEffect > 1 {
		marketingEffect = 1
	}
	marketingEffect *= 0.2

	agent.Awareness += marketingEffect + socialScore*0.1
	if agent.Awareness > 1 {
		agent.Awareness = 1
	}

	competitorDampening := 1 - ctx.CompetitorAttractiveness*0.5

	prob := agent.PurchaseProbBase *
		(0.3 + 0.7*priceScore) *
		(0.5 + 0.5*qualityScore) *
		(1 + noveltyBonus) *
		(1 + socialScore) *
		competitorDampening *
		agent.Awareness *
		ctx.NoveltyFactor *
		ctx.SeasonalMultiplier

	if prob > 0.95 {
		prob = 0.95
	}
	if prob < 0 {
		prob = 0
	}

	u := p.Next()
	willBuy := u < prob
	if willBuy {
		agent.HasPurchased = true
		uPrime := p.Next()
		agent.Satisfaction = 0.5 + 0.5*uPrime
	}

	return EvaluationResult{WillBuy: willBuy, Prob: prob}
}
