package population

import (
	"testing"

	"marketsim/internal/prng"
)

func TestGenerateProducesApproximatelyRequestedSize(t *testing.T) {
	pop := Generate(500, nil, prng.New(1))
	if len(pop.Agents) == 0 {
		t.Fatal("expected nonzero agents")
	}
	// Segment weights sum to 1.0, so rounding error should be small.
	if len(pop.Agents) < 490 || len(pop.Agents) > 510 {
		t.Errorf("got %d agents, want close to 500", len(pop.Agents))
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a := Generate(200, nil, prng.New(7))
	b := Generate(200, nil, prng.New(7))
	if len(a.Agents) != len(b.Agents) {
		t.Fatalf("size mismatch: %d != %d", len(a.Agents), len(b.Agents))
	}
	for i := range a.Agents {
		if a.Agents[i].PriceSensitivity != b.Agents[i].PriceSensitivity {
			t.Fatalf("agent %d diverged", i)
		}
	}
}

func TestSocialGraphHasNoSelfLoops(t *testing.T) {
	pop := Generate(100, nil, prng.New(3))
	for _, a := range pop.Agents {
		for _, j := range a.Connected {
			if j == a.ID {
				t.Fatalf("agent %d has a self-loop", a.ID)
			}
		}
	}
}

func TestResetClearsLifecycleState(t *testing.T) {
	pop := Generate(50, nil, prng.New(1))
	pop.Agents[0].HasPurchased = true
	pop.Agents[0].Awareness = 0.8
	pop.Agents[0].Subscribed = true

	pop.Reset()

	if pop.Agents[0].HasPurchased || pop.Agents[0].Awareness != 0 || pop.Agents[0].Subscribed {
		t.Fatal("Reset did not clear lifecycle state")
	}
}

func TestEvaluatePurchaseRefusesRepeatByDefault(t *testing.T) {
	a := &Agent{Budget: 100, PriceSensitivity: 0.5, PurchaseProbBase: 0.5, HasPurchased: true}
	p := prng.New(1)
	res := EvaluatePurchase(a, 0, PurchaseContext{Price: 10, QualityIndex: 0.5, AllowRepeat: false}, p)
	if res.WillBuy || res.Prob != 0 {
		t.Fatalf("expected no purchase when already purchased and repeat disallowed, got %+v", res)
	}
}

func TestEvaluatePurchaseProbabilityIsCapped(t *testing.T) {
	a := &Agent{
		Budget: 1000, PriceSensitivity: 0.01, QualityPreference: 1, InnovationAdoption: 1,
		SocialInfluence: 1, PurchaseProbBase: 1, Awareness: 1,
	}
	p := prng.New(1)
	res := EvaluatePurchase(a, 10, PurchaseContext{
		Price: 1, QualityIndex: 1, IsNew: true, MarketingSpend: 1_000_000,
		NoveltyFactor: 2, SeasonalMultiplier: 2,
	}, p)
	if res.Prob > 0.95 {
		t.Fatalf("prob = %v, want <= 0.95", res.Prob)
	}
}
