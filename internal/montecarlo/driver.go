package montecarlo

import (
	"marketsim/internal/competitor"
	"marketsim/internal/population"
	"marketsim/internal/prng"
	"marketsim/internal/simulation"
)

// ProgressFunc is invoked every 10 completed iterations and once more on the
// final iteration, reporting how far the run has gotten (§4.4).
type ProgressFunc func(completed, total int)

// CancelHandle is checked only at iteration boundaries: Run never aborts
// mid-iteration, so every iteration it does run contributes a complete,
// internally-consistent Result (§4.4 cooperative cancellation).
type CancelHandle struct {
	cancelled bool
}

// NewCancelHandle returns a handle that starts un-cancelled.
func NewCancelHandle() *CancelHandle { return &CancelHandle{} }

// Cancel requests the run stop at the next iteration boundary.
func (h *CancelHandle) Cancel() { h.cancelled = true }

// Cancelled reports whether Cancel has been called.
func (h *CancelHandle) Cancelled() bool { return h != nil && h.cancelled }

func buildOffer(cfg OfferConfig) simulation.Offer {
	launchMonth := 0
	if cfg.LaunchMonth != nil {
		launchMonth = *cfg.LaunchMonth
	}
	return simulation.Offer{
		Name: cfg.Name, BasePrice: cfg.BasePrice, Cogs: cfg.Cogs,
		MarketingBudget: cfg.MarketingBudget, QualityIndex: cfg.QualityIndex,
		Channels: cfg.Channels, AllowRepeat: cfg.AllowRepeat,
		SubscriptionPrice: cfg.SubscriptionPrice, SubscriptionCost: cfg.SubscriptionCost,
		LaunchMonth: launchMonth,
	}
}

func defaultSeasonality() simulation.SeasonalityOptions {
	return simulation.SeasonalityOptions{
		MonthlyTable: simulation.DefaultMonthlyTable(),
		Amplitude:    0.5,
		UseHolidays:  true,
		Holidays:     simulation.DefaultHolidays(),
	}
}

// Run decodes, sanitizes and validates nothing itself — the caller is
// expected to have already called DecodeConfig/Sanitize — and instead drives
// N single-threaded iterations from an already-sanitized RunConfig: one
// master prng.PRNG seeds a fresh per-iteration substream (§4.4's
// "iterSeed = (master.next()*2^31)|0" contract, expressed as
// prng.PRNG.NextUint32), and that substream is the sole PRNG used by the
// iteration — population generation, scenario sampling, and every
// competitor agent's Decide draws alike. Agents themselves are constructed
// once before the loop, not per iteration, so RLTabular's Q-table keeps
// learning run-wide; only their RNG is rebound each iteration via
// Agent.SetRNG, and simulation.Run resets every other per-iteration counter
// at the top of each call without touching that table.
func Run(cfg RunConfig, onProgress ProgressFunc, handle *CancelHandle) (*Aggregate, error) {
	if cfg.Iterations <= 0 {
		return nil, &InvalidConfigError{Reason: "iterations must be >= 1"}
	}

	n, err := cfg.NGC.BuildNGC()
	if err != nil {
		return nil, err
	}
	if err := n.Validate(); err != nil {
		return nil, &InvalidConfigError{Reason: err.Error()}
	}

	offer := buildOffer(cfg.Offer)
	segments := cfg.Population.toSegments()
	seasonOpts := defaultSeasonality()

	master := prng.New(cfg.Seed)
	agentRNG := prng.New(master.NextUint32())

	agents := make(map[string]competitor.Agent, len(n.Competitors))
	for _, id := range n.CompetitorOrder() {
		agent, err := competitor.NewAgent(n.Competitors[id], agentRNG)
		if err != nil {
			return nil, err
		}
		agents[id] = agent
	}
	competitorOrder := n.CompetitorOrder()

	results := make([]simulation.Result, 0, cfg.Iterations)

	for i := 0; i < cfg.Iterations; i++ {
		if handle.Cancelled() {
			agg := aggregate(results, cfg.TimeHorizonWeeks)
			agg.Cancelled = true
			return agg, nil
		}

		iterPRNG := prng.New(master.NextUint32())
		for _, id := range competitorOrder {
			agents[id].SetRNG(iterPRNG)
		}
		pop := population.Generate(cfg.Population.TotalCustomers, segments, iterPRNG)
		scenario := n.SampleFullScenario(iterPRNG)

		result := simulation.Run(offer, pop, scenario, competitorOrder, agents, cfg.TimeHorizonWeeks, cfg.InitialInventory, iterPRNG, seasonOpts)
		results = append(results, result)

		completed := i + 1
		if onProgress != nil && (completed%10 == 0 || completed == cfg.Iterations) {
			onProgress(completed, cfg.Iterations)
		}
	}

	return aggregate(results, cfg.TimeHorizonWeeks), nil
}
