// Package montecarlo is the Monte Carlo driver (C7): it decodes a run
// configuration, builds the NGC scenario container and population, executes
// N single-threaded, cooperatively-cancellable iterations with per-iteration
// PRNG substreams, and aggregates the results into weekly-average series and
// raw per-iteration retention for the risk/optimizer layer.
package montecarlo

import (
	"encoding/json"
	"fmt"

	"marketsim/internal/distribution"
	"marketsim/internal/ngc"
	"marketsim/internal/population"
)

// Sanitization ceilings (§6.4). Values beyond these are clamped with a
// reported warning rather than rejected; negative mandatory fields are
// rejected outright.
const (
	MaxIterations       = 10_000
	MaxTotalCustomers   = 50_000
	MaxTimeHorizonWeeks = 104
	MaxCompetitors      = 20
	MinPrice            = 0.01
	MaxPrice            = 1_000_000
	MinInventory        = 1
	MaxInventory        = 10_000_000
)

// UncertainEntryConfig is the JSON shape of one ordered uncertain-parameter
// entry. Uncertain parameters decode as an array, not an object, because
// §4.2 samples them in insertion order and a JSON object's key order is not
// part of Go's decoding contract.
type UncertainEntryConfig struct {
	Key          string          `json:"key"`
	Distribution json.RawMessage `json:"distribution"`
}

// DataBlockConfig is the JSON shape of one NGC data block: known values plus
// an ordered list of uncertain (distribution-backed) values.
type DataBlockConfig struct {
	Known     map[string]float64     `json:"known"`
	Uncertain []UncertainEntryConfig `json:"uncertain"`
}

func (d DataBlockConfig) toBlock() (ngc.DataBlock, error) {
	block := ngc.DataBlock{Known: ngc.ParamMap{}}
	for k, v := range d.Known {
		block.Known[k] = v
	}
	for _, e := range d.Uncertain {
		dist, err := distribution.UnmarshalJSON(e.Distribution)
		if err != nil {
			return block, fmt.Errorf("uncertain[%q]: %w", e.Key, err)
		}
		block.Uncertain.Set(e.Key, dist)
	}
	return block, nil
}

// BeliefConfig is the JSON shape of one ExpertBelief (§3.3).
type BeliefConfig struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Probability float64         `json:"probability"`
	Distribution json.RawMessage `json:"distribution"`
	Category    string          `json:"category"`
}

func (b BeliefConfig) toBelief() (ngc.ExpertBelief, error) {
	dist, err := distribution.UnmarshalJSON(b.Distribution)
	if err != nil {
		return ngc.ExpertBelief{}, fmt.Errorf("belief %q: %w", b.ID, err)
	}
	return ngc.ExpertBelief{
		ID: b.ID, Description: b.Description, Probability: b.Probability,
		Dist: dist, Category: b.Category,
	}, nil
}

// ConstraintsConfig mirrors ngc.Constraints for JSON decode.
type ConstraintsConfig struct {
	MinMargin          *float64 `json:"minMargin,omitempty"`
	MaxMarketingBudget *float64 `json:"maxMarketingBudget,omitempty"`
	MaxPriceReduction  *float64 `json:"maxPriceReduction,omitempty"`
	RiskAversion       *float64 `json:"riskAversion,omitempty"`
}

func (c *ConstraintsConfig) toConstraints() ngc.Constraints {
	out := ngc.DefaultConstraints()
	if c == nil {
		return out
	}
	if c.MinMargin != nil {
		out.MinMargin = *c.MinMargin
	}
	if c.MaxMarketingBudget != nil {
		out.MaxMarketingBudget = *c.MaxMarketingBudget
	}
	if c.MaxPriceReduction != nil {
		out.MaxPriceReduction = *c.MaxPriceReduction
	}
	if c.RiskAversion != nil {
		out.RiskAversion = *c.RiskAversion
	}
	return out
}

// CompetitorConfig is the JSON shape of one CompetitorProfile (§3.4).
type CompetitorConfig struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	Type                string             `json:"type"`
	Aggressiveness      float64            `json:"aggressiveness"`
	FinancialHealth     float64            `json:"financialHealth"`
	MarketShare         float64            `json:"marketShare"`
	Beliefs             []BeliefConfig     `json:"beliefs"`
	Constraints         *ConstraintsConfig `json:"constraints,omitempty"`
	CogsDist            json.RawMessage    `json:"cogsDist,omitempty"`
	MarketingBudgetDist json.RawMessage    `json:"marketingBudgetDist,omitempty"`
	BaseCogs            float64            `json:"baseCogs"`
	BaseMarketingBudget float64            `json:"baseMarketingBudget"`
}

func (c CompetitorConfig) toProfile() (ngc.CompetitorProfile, error) {
	profile := ngc.CompetitorProfile{
		ID: c.ID, Name: c.Name, Type: ngc.CompetitorType(c.Type),
		Aggressiveness: c.Aggressiveness, FinancialHealth: c.FinancialHealth,
		MarketShare: c.MarketShare, Constraints: c.Constraints.toConstraints(),
		BaseCogs: c.BaseCogs, BaseMarketingBudget: c.BaseMarketingBudget,
	}
	for _, bc := range c.Beliefs {
		belief, err := bc.toBelief()
		if err != nil {
			return profile, err
		}
		profile.Beliefs = append(profile.Beliefs, belief)
	}
	if len(c.CogsDist) > 0 {
		d, err := distribution.UnmarshalJSON(c.CogsDist)
		if err != nil {
			return profile, fmt.Errorf("competitor %q cogsDist: %w", c.ID, err)
		}
		profile.CogsDist = d
	}
	if len(c.MarketingBudgetDist) > 0 {
		d, err := distribution.UnmarshalJSON(c.MarketingBudgetDist)
		if err != nil {
			return profile, fmt.Errorf("competitor %q marketingBudgetDist: %w", c.ID, err)
		}
		profile.MarketingBudgetDist = d
	}
	return profile, nil
}

// NGCConfig is the JSON shape of the NGC scenario container.
type NGCConfig struct {
	Company     DataBlockConfig    `json:"company"`
	Macro       DataBlockConfig    `json:"macro"`
	Supply      DataBlockConfig    `json:"supply"`
	Competitors []CompetitorConfig `json:"competitors"`
	RiskEvents  []BeliefConfig     `json:"riskEvents"`
}

// BuildNGC materializes an *ngc.NGC from its JSON configuration.
func (cfg NGCConfig) BuildNGC() (*ngc.NGC, error) {
	n := ngc.New()

	company, err := cfg.Company.toBlock()
	if err != nil {
		return nil, fmt.Errorf("company: %w", err)
	}
	n.CompanyData = company

	macro, err := cfg.Macro.toBlock()
	if err != nil {
		return nil, fmt.Errorf("macro: %w", err)
	}
	n.MacroData = macro

	supply, err := cfg.Supply.toBlock()
	if err != nil {
		return nil, fmt.Errorf("supply: %w", err)
	}
	n.SupplyChain = supply

	for _, cc := range cfg.Competitors {
		profile, err := cc.toProfile()
		if err != nil {
			return nil, err
		}
		n.AddCompetitor(profile)
	}

	for _, rc := range cfg.RiskEvents {
		belief, err := rc.toBelief()
		if err != nil {
			return nil, fmt.Errorf("risk event: %w", err)
		}
		n.AddRiskEvent(belief.ID, belief.Description, belief.Probability, belief.Dist, belief.Category)
	}

	return n, nil
}

// OfferConfig is the JSON shape of the product offer (§6.1).
type OfferConfig struct {
	Name              string   `json:"name"`
	BasePrice         float64  `json:"basePrice"`
	Cogs              float64  `json:"cogs"`
	MarketingBudget   float64  `json:"marketingBudget"`
	QualityIndex      float64  `json:"qualityIndex"`
	Channels          []string `json:"channels"`
	AllowRepeat       bool     `json:"allowRepeat"`
	SubscriptionPrice float64  `json:"subscriptionPrice"`
	SubscriptionCost  float64  `json:"subscriptionCost"`
	LaunchMonth       *int     `json:"launchMonth,omitempty"`
}

// RangeConfig is an inclusive [Lo, Hi] JSON trait range.
type RangeConfig struct {
	Lo float64 `json:"lo"`
	Hi float64 `json:"hi"`
}

func (r RangeConfig) toRange() population.Range { return population.Range{Lo: r.Lo, Hi: r.Hi} }

// SegmentConfig is the JSON shape of one customer segment.
type SegmentConfig struct {
	Name               string      `json:"name"`
	Weight             float64     `json:"weight"`
	PriceSensitivity   RangeConfig `json:"priceSensitivity"`
	BrandLoyalty       RangeConfig `json:"brandLoyalty"`
	QualityPreference  RangeConfig `json:"qualityPreference"`
	ChannelPreference  RangeConfig `json:"channelPreference"`
	SocialInfluence    RangeConfig `json:"socialInfluence"`
	InnovationAdoption RangeConfig `json:"innovationAdoption"`
	Budget             RangeConfig `json:"budget"`
	PurchaseProbBase   RangeConfig `json:"purchaseProbBase"`
}

func (s SegmentConfig) toSegment() population.Segment {
	return population.Segment{
		Name: s.Name, Weight: s.Weight,
		PriceSensitivity: s.PriceSensitivity.toRange(), BrandLoyalty: s.BrandLoyalty.toRange(),
		QualityPreference: s.QualityPreference.toRange(), ChannelPreference: s.ChannelPreference.toRange(),
		SocialInfluence: s.SocialInfluence.toRange(), InnovationAdoption: s.InnovationAdoption.toRange(),
		Budget: s.Budget.toRange(), PurchaseProbBase: s.PurchaseProbBase.toRange(),
	}
}

// PopulationConfig is the JSON shape of §6.1's population block.
type PopulationConfig struct {
	TotalCustomers int             `json:"totalCustomers"`
	Segments       []SegmentConfig `json:"segments,omitempty"`
}

func (p PopulationConfig) toSegments() []population.Segment {
	if len(p.Segments) == 0 {
		return nil
	}
	out := make([]population.Segment, len(p.Segments))
	for i, s := range p.Segments {
		out[i] = s.toSegment()
	}
	return out
}

// RunConfig is the full decoded run configuration (§6.1).
type RunConfig struct {
	NGC              NGCConfig        `json:"ngc"`
	Offer            OfferConfig      `json:"offer"`
	Population       PopulationConfig `json:"population"`
	InitialInventory int              `json:"initialInventory"`
	Iterations       int              `json:"iterations"`
	TimeHorizonWeeks int              `json:"timeHorizonWeeks"`
	Seed             uint32           `json:"seed"`
}

// DecodeConfig parses a RunConfig from JSON bytes.
func DecodeConfig(data []byte) (*RunConfig, error) {
	var cfg RunConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("montecarlo: decode config: %w", err)
	}
	return &cfg, nil
}

// Sanitize clamps out-of-range values to the §6.4 ceilings, returning a
// human-readable warning per clamp, and rejects negative mandatory fields
// outright with an InvalidConfig error.
func Sanitize(cfg *RunConfig) ([]string, error) {
	var warnings []string

	if cfg.Iterations <= 0 {
		return nil, &InvalidConfigError{Reason: "iterations must be >= 1"}
	}
	if cfg.Population.TotalCustomers <= 0 {
		return nil, &InvalidConfigError{Reason: "population.totalCustomers must be > 0"}
	}
	if cfg.TimeHorizonWeeks <= 0 {
		return nil, &InvalidConfigError{Reason: "timeHorizonWeeks must be >= 1"}
	}
	if cfg.InitialInventory < 0 {
		return nil, &InvalidConfigError{Reason: "initialInventory must be >= 0"}
	}
	if cfg.Offer.BasePrice < 0 || cfg.Offer.Cogs < 0 || cfg.Offer.MarketingBudget < 0 {
		return nil, &InvalidConfigError{Reason: "offer price/cogs/marketingBudget must be non-negative"}
	}

	if cfg.Iterations > MaxIterations {
		warnings = append(warnings, fmt.Sprintf("iterations clamped from %d to %d", cfg.Iterations, MaxIterations))
		cfg.Iterations = MaxIterations
	}
	if cfg.Population.TotalCustomers > MaxTotalCustomers {
		warnings = append(warnings, fmt.Sprintf("population.totalCustomers clamped from %d to %d", cfg.Population.TotalCustomers, MaxTotalCustomers))
		cfg.Population.TotalCustomers = MaxTotalCustomers
	}
	if cfg.TimeHorizonWeeks > MaxTimeHorizonWeeks {
		warnings = append(warnings, fmt.Sprintf("timeHorizonWeeks clamped from %d to %d", cfg.TimeHorizonWeeks, MaxTimeHorizonWeeks))
		cfg.TimeHorizonWeeks = MaxTimeHorizonWeeks
	}
	if len(cfg.NGC.Competitors) > MaxCompetitors {
		warnings = append(warnings, fmt.Sprintf("competitors clamped from %d to %d", len(cfg.NGC.Competitors), MaxCompetitors))
		cfg.NGC.Competitors = cfg.NGC.Competitors[:MaxCompetitors]
	}
	if cfg.Offer.BasePrice < MinPrice {
		warnings = append(warnings, fmt.Sprintf("basePrice clamped from %v to %v", cfg.Offer.BasePrice, MinPrice))
		cfg.Offer.BasePrice = MinPrice
	}
	if cfg.Offer.BasePrice > MaxPrice {
		warnings = append(warnings, fmt.Sprintf("basePrice clamped from %v to %v", cfg.Offer.BasePrice, MaxPrice))
		cfg.Offer.BasePrice = MaxPrice
	}
	if cfg.InitialInventory < MinInventory {
		warnings = append(warnings, fmt.Sprintf("initialInventory clamped from %d to %d", cfg.InitialInventory, MinInventory))
		cfg.InitialInventory = MinInventory
	}
	if cfg.InitialInventory > MaxInventory {
		warnings = append(warnings, fmt.Sprintf("initialInventory clamped from %d to %d", cfg.InitialInventory, MaxInventory))
		cfg.InitialInventory = MaxInventory
	}

	return warnings, nil
}
