package montecarlo

import "testing"

func basicConfig() RunConfig {
	return RunConfig{
		NGC: NGCConfig{
			Competitors: []CompetitorConfig{
				{
					ID: "riviera", Name: "Riviera", Type: "rule",
					Aggressiveness: 0.6, MarketShare: 0.25, FinancialHealth: 0.8,
					BaseCogs: 40, BaseMarketingBudget: 120000,
				},
			},
		},
		Offer: OfferConfig{
			Name: "Flagship", BasePrice: 120, Cogs: 40, MarketingBudget: 150000,
			QualityIndex: 0.7,
		},
		Population:       PopulationConfig{TotalCustomers: 200},
		InitialInventory: 2000,
		Iterations:       5,
		TimeHorizonWeeks: 8,
		Seed:             42,
	}
}

func TestRunProducesOneAggregatePerIteration(t *testing.T) {
	cfg := basicConfig()
	agg, err := Run(cfg, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if agg.Iterations != 5 {
		t.Errorf("iterations = %d, want 5", agg.Iterations)
	}
	if len(agg.RawResults) != 5 {
		t.Errorf("raw results = %d, want 5", len(agg.RawResults))
	}
	if len(agg.WeeklyAvg) != 8 {
		t.Errorf("weekly avg length = %d, want 8", len(agg.WeeklyAvg))
	}
}

func TestRunIsDeterministicAcrossRuns(t *testing.T) {
	cfg := basicConfig()
	a, err := Run(cfg, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, err := Run(cfg, nil, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if a.Revenue.Mean != b.Revenue.Mean || a.Sales.Mean != b.Sales.Mean {
		t.Fatalf("non-deterministic aggregate: %+v vs %+v", a.Revenue, b.Revenue)
	}
}

func TestRunRejectsZeroIterations(t *testing.T) {
	cfg := basicConfig()
	cfg.Iterations = 0
	if _, err := Run(cfg, nil, nil); err == nil {
		t.Fatal("expected InvalidConfigError for zero iterations")
	}
}

func TestRunProgressCallbackFiresEveryTenAndAtEnd(t *testing.T) {
	cfg := basicConfig()
	cfg.Iterations = 23
	var calls []int
	_, err := Run(cfg, func(completed, total int) { calls = append(calls, completed) }, nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []int{10, 20, 23}
	if len(calls) != len(want) {
		t.Fatalf("progress calls = %v, want %v", calls, want)
	}
	for i, c := range want {
		if calls[i] != c {
			t.Errorf("call %d = %d, want %d", i, calls[i], c)
		}
	}
}

func TestRunHonorsCancellationAtBoundary(t *testing.T) {
	cfg := basicConfig()
	cfg.Iterations = 100
	handle := NewCancelHandle()
	agg, err := Run(cfg, func(completed, total int) {
		if completed == 10 {
			handle.Cancel()
		}
	}, handle)
	if err != nil {
		t.Fatalf("cancellation is not an error, got: %v", err)
	}
	if !agg.Cancelled {
		t.Fatal("expected Aggregate.Cancelled = true")
	}
	if agg.Iterations == 0 || agg.Iterations >= 100 {
		t.Fatalf("iterations = %d, want a partial count between 1 and 99", agg.Iterations)
	}
}

func TestSanitizeClampsOutOfRangeIterations(t *testing.T) {
	cfg := basicConfig()
	cfg.Iterations = MaxIterations + 500
	warnings, err := Sanitize(&cfg)
	if err != nil {
		t.Fatalf("Sanitize: %v", err)
	}
	if cfg.Iterations != MaxIterations {
		t.Errorf("iterations = %d, want clamped to %d", cfg.Iterations, MaxIterations)
	}
	if len(warnings) == 0 {
		t.Error("expected at least one clamp warning")
	}
}

func TestSanitizeRejectsNegativeInventory(t *testing.T) {
	cfg := basicConfig()
	cfg.InitialInventory = -1
	if _, err := Sanitize(&cfg); err == nil {
		t.Fatal("expected InvalidConfigError for negative initialInventory")
	}
}

func TestDecodeConfigPreservesUncertainOrder(t *testing.T) {
	data := []byte(`{
		"ngc": {
			"company": {
				"known": {"brandEquity": 0.5},
				"uncertain": [
					{"key": "z", "distribution": {"type": "normal", "params": {"mu": 0, "sigma": 1}}},
					{"key": "a", "distribution": {"type": "normal", "params": {"mu": 1, "sigma": 1}}}
				]
			}
		},
		"offer": {"name": "x", "basePrice": 50, "cogs": 20},
		"population": {"totalCustomers": 10},
		"initialInventory": 100,
		"iterations": 1,
		"timeHorizonWeeks": 1,
		"seed": 1
	}`)
	cfg, err := DecodeConfig(data)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	n, err := cfg.NGC.BuildNGC()
	if err != nil {
		t.Fatalf("BuildNGC: %v", err)
	}
	if len(n.CompanyData.Uncertain) != 2 || n.CompanyData.Uncertain[0].Key != "z" || n.CompanyData.Uncertain[1].Key != "a" {
		t.Fatalf("uncertain insertion order not preserved: %+v", n.CompanyData.Uncertain)
	}
}

func TestDecodeConfigRoundTrips(t *testing.T) {
	data := []byte(`{
		"ngc": {"competitors": [{"id": "c1", "type": "ml", "baseCogs": 30, "baseMarketingBudget": 90000}]},
		"offer": {"name": "x", "basePrice": 50, "cogs": 20, "marketingBudget": 10000, "qualityIndex": 0.5},
		"population": {"totalCustomers": 100},
		"initialInventory": 1000,
		"iterations": 3,
		"timeHorizonWeeks": 6,
		"seed": 7
	}`)
	cfg, err := DecodeConfig(data)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if cfg.Iterations != 3 || cfg.Seed != 7 || len(cfg.NGC.Competitors) != 1 {
		t.Fatalf("decoded config mismatch: %+v", cfg)
	}
}
