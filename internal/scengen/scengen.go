// Package scengen synthesizes RunConfig documents for load-testing and demo
// purposes, the way the teacher's cmd/mockgen/engine synthesized Jira issue
// histories: a scenario archetype (mild/chaos/drift) maps onto the width of
// the generated NGC uncertainty, not onto a literal translation of the
// teacher's duration distributions.
package scengen

import (
	"fmt"

	"marketsim/internal/montecarlo"
)

// Archetype selects how wide the generated scenario's uncertainty is.
type Archetype string

const (
	Mild  Archetype = "mild"
	Chaos Archetype = "chaos"
	Drift Archetype = "drift"
)

// GeneratorConfig parameterizes one synthetic RunConfig.
type GeneratorConfig struct {
	Archetype        Archetype
	Seed             uint32
	Iterations       int
	TotalCustomers   int
	TimeHorizonWeeks int
	CompetitorCount  int
	InitialInventory int
}

// DefaultGeneratorConfig is a reasonable starting point for a quick demo run.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		Archetype: Mild, Seed: 1, Iterations: 200, TotalCustomers: 2000,
		TimeHorizonWeeks: 26, CompetitorCount: 2, InitialInventory: 20000,
	}
}

// sigmaFor returns the belief/distribution sigma used for competitor index i
// (out of n total) under the given archetype. Mild uses a small constant
// width; chaos widens it considerably; drift ramps it up linearly across
// competitor index, the way the teacher's "drift" scenario shifts its Weibull
// shape parameter linearly across issue index.
func sigmaFor(archetype Archetype, i, n int) float64 {
	base := 0.05
	switch archetype {
	case Chaos:
		return base * 3.0
	case Drift:
		ratio := 0.0
		if n > 1 {
			ratio = float64(i) / float64(n-1)
		}
		return base * (1 + 4*ratio)
	default:
		return base
	}
}

// Generate builds a synthetic RunConfig. It does not sample any
// distribution itself — it only describes one; actual sampling happens
// inside the driver once the config is handed to montecarlo.Run.
func Generate(cfg GeneratorConfig) montecarlo.RunConfig {
	if cfg.CompetitorCount <= 0 {
		cfg.CompetitorCount = 1
	}

	competitors := make([]montecarlo.CompetitorConfig, cfg.CompetitorCount)
	competitorTypes := [3]string{"rule", "ml", "rl"}
	for i := 0; i < cfg.CompetitorCount; i++ {
		sigma := sigmaFor(cfg.Archetype, i, cfg.CompetitorCount)
		competitors[i] = montecarlo.CompetitorConfig{
			ID:              fmt.Sprintf("competitor-%d", i+1),
			Name:            fmt.Sprintf("Competitor %d", i+1),
			Type:            competitorTypes[i%len(competitorTypes)],
			Aggressiveness:  0.4 + 0.1*float64(i%5),
			FinancialHealth: 0.6,
			MarketShare:     1.0 / float64(cfg.CompetitorCount+1),
			Beliefs: []montecarlo.BeliefConfig{
				{
					ID: fmt.Sprintf("competitor-%d-price-move", i+1), Category: "pricing",
					Probability:  0.25,
					Distribution: normalJSON(0.1, sigma),
				},
			},
			BaseCogs:            35 + 5*float64(i%3),
			BaseMarketingBudget: 100_000 + 20_000*float64(i),
		}
	}

	riskSigma := sigmaFor(cfg.Archetype, cfg.CompetitorCount/2, max(cfg.CompetitorCount, 1))

	return montecarlo.RunConfig{
		NGC: montecarlo.NGCConfig{
			Competitors: competitors,
			RiskEvents: []montecarlo.BeliefConfig{
				{ID: "supply-shock", Description: "supplier disruption", Category: "supply",
					Probability: 0.15, Distribution: normalJSON(0.2, riskSigma)},
			},
		},
		Offer: montecarlo.OfferConfig{
			Name: "Synthetic Offer", BasePrice: 120, Cogs: 40,
			MarketingBudget: 150_000, QualityIndex: 0.7,
		},
		Population:       montecarlo.PopulationConfig{TotalCustomers: cfg.TotalCustomers},
		InitialInventory: cfg.InitialInventory,
		Iterations:       cfg.Iterations,
		TimeHorizonWeeks: cfg.TimeHorizonWeeks,
		Seed:             cfg.Seed,
	}
}

func normalJSON(mu, sigma float64) []byte {
	return []byte(fmt.Sprintf(`{"type":"normal","params":{"mu":%g,"sigma":%g}}`, mu, sigma))
}
