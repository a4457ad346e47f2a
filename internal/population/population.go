// Package population builds the synthetic customer base for one simulation
// iteration: weighted-segment agent generation and the small-world social
// graph agents use to gauge peer purchase signal.
package population

import (
	"marketsim/internal/prng"
)

// Range is an inclusive [Lo, Hi] trait range.
type Range struct {
	Lo float64
	Hi float64
}

func (r Range) sample(p *prng.PRNG) float64 {
	if r.Hi <= r.Lo {
		return r.Lo
	}
	return r.Lo + p.Next()*(r.Hi-r.Lo)
}

// Segment is a named customer archetype with a population weight and trait
// ranges each generated agent samples uniformly from.
type Segment struct {
	Name               string
	Weight             float64
	PriceSensitivity   Range
	BrandLoyalty       Range
	QualityPreference  Range
	ChannelPreference  Range
	SocialInfluence    Range
	InnovationAdoption Range
	Budget             Range
	PurchaseProbBase   Range
}

// DefaultSegments returns the five stock archetypes used when a config omits
// its own segment list.
func DefaultSegments() []Segment {
	return []Segment{
		{
			Name: "price_sensitive", Weight: 0.30,
			PriceSensitivity: Range{0.7, 1.0}, BrandLoyalty: Range{0.0, 0.3},
			QualityPreference: Range{0.3, 0.6}, ChannelPreference: Range{0.2, 0.6},
			SocialInfluence: Range{0.3, 0.6}, InnovationAdoption: Range{0.1, 0.4},
			Budget: Range{50, 300}, PurchaseProbBase: Range{0.05, 0.15},
		},
		{
			Name: "brand_loyal", Weight: 0.20,
			PriceSensitivity: Range{0.1, 0.4}, BrandLoyalty: Range{0.7, 1.0},
			QualityPreference: Range{0.5, 0.8}, ChannelPreference: Range{0.4, 0.8},
			SocialInfluence: Range{0.2, 0.5}, InnovationAdoption: Range{0.2, 0.5},
			Budget: Range{200, 800}, PurchaseProbBase: Range{0.10, 0.25},
		},
		{
			Name: "early_adopter", Weight: 0.15,
			PriceSensitivity: Range{0.2, 0.5}, BrandLoyalty: Range{0.2, 0.5},
			QualityPreference: Range{0.6, 0.9}, ChannelPreference: Range{0.5, 0.9},
			SocialInfluence: Range{0.5, 0.9}, InnovationAdoption: Range{0.7, 1.0},
			Budget: Range{300, 1200}, PurchaseProbBase: Range{0.15, 0.35},
		},
		{
			Name: "quality_focused", Weight: 0.20,
			PriceSensitivity: Range{0.1, 0.3}, BrandLoyalty: Range{0.4, 0.7},
			QualityPreference: Range{0.8, 1.0}, ChannelPreference: Range{0.3, 0.7},
			SocialInfluence: Range{0.2, 0.4}, InnovationAdoption: Range{0.3, 0.6},
			Budget: Range{400, 1500}, PurchaseProbBase: Range{0.08, 0.20},
		},
		{
			Name: "social_follower", Weight: 0.15,
			PriceSensitivity: Range{0.4, 0.7}, BrandLoyalty: Range{0.2, 0.5},
			QualityPreference: Range{0.3, 0.6}, ChannelPreference: Range{0.5, 1.0},
			SocialInfluence: Range{0.7, 1.0}, InnovationAdoption: Range{0.4, 0.7},
			Budget: Range{100, 500}, PurchaseProbBase: Range{0.07, 0.18},
		},
	}
}

// Agent is one synthetic customer (§3.6). Lifecycle fields are reset at the
// start of each iteration by Population.Reset.
type Agent struct {
	ID                 int
	Segment            string
	PriceSensitivity   float64
	BrandLoyalty       float64
	QualityPreference  float64
	ChannelPreference  float64
	SocialInfluence    float64
	InnovationAdoption float64
	Budget             float64
	PurchaseProbBase   float64
	Connected          []int

	HasPurchased bool
	Awareness    float64
	Satisfaction float64
	Subscribed   bool
}

// Population is the contiguous agent store plus its social graph.
type Population struct {
	Agents []Agent
}

// Generate builds a fresh Population of totalCustomers agents distributed
// across segments by weight, then wires a small-world social graph.
func Generate(totalCustomers int, segments []Segment, p *prng.PRNG) *Population {
	if len(segments) == 0 {
		segments = DefaultSegments()
	}

	pop := &Population{Agents: make([]Agent, 0, totalCustomers)}
	id := 0
	for _, seg := range segments {
		count := int(roundHalfAwayFromZero(float64(totalCustomers) * seg.Weight))
		for i := 0; i < count; i++ {
			pop.Agents = append(pop.Agents, Agent{
				ID:                 id,
				Segment:            seg.Name,
				PriceSensitivity:   seg.PriceSensitivity.sample(p),
				BrandLoyalty:       seg.BrandLoyalty.sample(p),
				QualityPreference:  seg.QualityPreference.sample(p),
				ChannelPreference:  seg.ChannelPreference.sample(p),
				SocialInfluence:    seg.SocialInfluence.sample(p),
				InnovationAdoption: seg.InnovationAdoption.sample(p),
				Budget:             seg.Budget.sample(p),
				PurchaseProbBase:   seg.PurchaseProbBase.sample(p),
				Awareness:          0,
			})
			id++
		}
	}

	wireSmallWorld(pop, p)
	return pop
}

func roundHalfAwayFromZero(x float64) int {
	if x >= 0 {
		return int(x + 0.5)
	}
	return -int(-x + 0.5)
}

// wireSmallWorld builds a Watts-Strogatz-style ring lattice with
// avgConnections = min(6, N/2) neighbours per node, then rewires each edge
// with probability 0.1 to a uniformly random target, deduplicating and
// forbidding self-loops.
func wireSmallWorld(pop *Population, p *prng.PRNG) {
	n := len(pop.Agents)
	if n < 2 {
		return
	}
	avgConnections := 6
	if n/2 < avgConnections {
		avgConnections = n / 2
	}
	if avgConnections < 1 {
		return
	}
	half := avgConnections / 2
	if half < 1 {
		half = 1
	}

	neighborSets := make([]map[int]bool, n)
	for i := range neighborSets {
		neighborSets[i] = make(map[int]bool)
	}

	for i := 0; i < n; i++ {
		for k := 1; k <= half; k++ {
			j := (i + k) % n
			if p.Next() < 0.1 {
				// Rewire to a random target other than self.
				target := i
				for target == i {
					target = int(p.Next() * float64(n))
					if target >= n {
						target = n - 1
					}
				}
				j = target
			}
			if j != i {
				neighborSets[i][j] = true
				neighborSets[j][i] = true
			}
		}
	}

	for i := range pop.Agents {
		ids := make([]int, 0, len(neighborSets[i]))
		for j := range neighborSets[i] {
			ids = append(ids, j)
		}
		pop.Agents[i].Connected = ids
	}
}

// Reset clears per-iteration mutable state on every agent (lifecycle reset
// at the start of each Monte Carlo iteration).
func (pop *Population) Reset() {
	for i := range pop.Agents {
		pop.Agents[i].HasPurchased = false
		pop.Agents[i].Awareness = 0
		pop.Agents[i].Satisfaction = 0
		pop.Agents[i].Subscribed = false
	}
}
