package simulation

import (
	"marketsim/internal/competitor"
	"marketsim/internal/ngc"
	"marketsim/internal/population"
	"marketsim/internal/prng"
)

// Offer is the static product/offer description an iteration runs against
// (§6.1 OfferConfig, minus its JSON decoding concerns which live in
// internal/montecarlo).
type Offer struct {
	Name                 string
	BasePrice            float64
	Cogs                 float64
	MarketingBudget      float64
	QualityIndex         float64
	Channels             []string
	AllowRepeat          bool
	SubscriptionPrice    float64
	SubscriptionCost     float64
	LaunchMonth          int
}

// WeeklyMetric is the per-week telemetry recorded during one iteration
// (§3.8 / §4.3.5 step 8).
type WeeklyMetric struct {
	Week                     int                `json:"week"`
	UnitsSold                int                `json:"unitsSold"`
	CumulativeSold           int                `json:"cumulativeSold"`
	Inventory                int                `json:"inventory"`
	Revenue                  float64            `json:"revenue"`
	AvgConversion            float64            `json:"avgConversion"`
	OurPrice                 float64            `json:"ourPrice"`
	CompetitorPrices         map[string]float64 `json:"competitorPrices"`
	CompetitorAttractiveness float64            `json:"competitorAttractiveness"`
	EffectiveCOGS            float64            `json:"effectiveCOGS"`
	Subscribers              int                `json:"subscribers"`
}

// Result is one iteration's full outcome (§3.8).
type Result struct {
	TotalUnitsSold      int            `json:"totalUnitsSold"`
	TotalRevenue        float64        `json:"totalRevenue"`
	TotalCost           float64        `json:"totalCost"`
	GrossProfit         float64        `json:"grossProfit"`
	NetProfit           float64        `json:"netProfit"`
	ROI                 float64        `json:"roi"`
	MarginPct           float64        `json:"marginPct"`
	InventoryRemaining  int            `json:"inventoryRemaining"`
	InventoryValue      float64        `json:"inventoryValue"`
	UnsoldPct           float64        `json:"unsoldPct"`
	BreakEvenWeek       int            `json:"breakEvenWeek"`
	TotalMarketingSpent float64        `json:"totalMarketingSpent"`
	TotalSubscribers    int            `json:"totalSubscribers"`
	SubscriptionRevenue float64        `json:"subscriptionRevenue"`
	WeeklyMetrics       []WeeklyMetric `json:"weeklyMetrics"`
}

// Run executes one complete iteration: reset population/competitors, step
// through every week, and finalize the aggregate result (§4.3.5).
func Run(
	offer Offer,
	pop *population.Population,
	scenario ngc.Scenario,
	competitorOrder []string,
	agents map[string]competitor.Agent,
	totalWeeks int,
	initialInventory int,
	p *prng.PRNG,
	seasonOpts SeasonalityOptions,
) Result {
	pop.Reset()
	for _, id := range competitorOrder {
		if a, ok := agents[id]; ok {
			a.Reset()
		}
	}

	inventory := initialInventory
	currentPrice := offer.BasePrice
	marketingBudget := offer.MarketingBudget

	var totalUnitsSold int
	var totalRevenue, totalCost, totalMarketingSpent float64
	var totalSubscribers int
	var cumulativeProfit float64
	breakEvenWeek := -1

	weeklyMetrics := make([]WeeklyMetric, 0, totalWeeks)
	lastOwnSales := 0
	lastOwnProfit := 0.0
	lastOwnConversion := 0.0

	for week := 0; week < totalWeeks; week++ {
		lifecycle := ComputeLifecycle(week, totalWeeks)
		seasonOpts.StartMonth = offer.LaunchMonth
		season := ComputeSeasonality(week, seasonOpts)
		isNew := lifecycle.Stage == StageLaunch

		competitorPrices := make(map[string]float64, len(competitorOrder))
		weeklyMarketingSpend := marketingBudget / 13
		var attractivenessSum float64

		for _, id := range competitorOrder {
			agent, ok := agents[id]
			if !ok {
				continue
			}
			sc := scenario.Competitors[id]
			state := competitor.MarketState{
				Week: week, TotalWeeks: totalWeeks,
				OurPrice: currentPrice, OurWeeklyMarketing: weeklyMarketingSpend,
				OurConversion: lastOwnConversion, Seasonality: season.Multiplier,
				CompetitorScenario: sc,
				LastOwnProfit:      lastOwnProfit,
				LastOwnSales:       lastOwnSales,
			}
			action := agent.Decide(state)
			action = agent.ApplyConstraints(action, state)
			competitorPrices[id] = action.Price

			priceAdv := 0.0
			if currentPrice > 0 {
				priceAdv = (currentPrice - action.Price) / currentPrice
				if priceAdv < 0 {
					priceAdv = 0
				}
			}
			marketingRatio := 0.0
			if weeklyMarketingSpend > 0 {
				marketingRatio = action.MarketingSpend / weeklyMarketingSpend
			}
			marketingComponent := marketingRatio * 0.3
			if marketingComponent > 1 {
				marketingComponent = 1
			}
			promoComponent := 0.0
			if action.Promotion != nil {
				promoComponent = action.Promotion.Discount * 0.5
			}
			attract := (priceAdv*0.5 + marketingComponent + promoComponent) * sc.Profile.MarketShare
			attractivenessSum += attract
		}
		competitorAttractiveness := attractivenessSum
		if competitorAttractiveness > 1 {
			competitorAttractiveness = 1
		}

		cogsMultiplier := 1.0
		for _, rr := range scenario.RiskResults {
			if rr.Triggered {
				cogsMultiplier += rr.Value
			}
		}
		effectiveCOGS := offer.Cogs * cogsMultiplier

		var weekUnitsSold int
		var weekRevenue, weekCost float64
		var weekConversions float64
		var weekSubscribers int

		ctx := population.PurchaseContext{
			Price: currentPrice, QualityIndex: offer.QualityIndex, IsNew: isNew,
			AllowRepeat: offer.AllowRepeat, MarketingSpend: weeklyMarketingSpend,
			CompetitorAttractiveness: competitorAttractiveness,
			NoveltyFactor:            lifecycle.NoveltyFactor,
			SeasonalMultiplier:       season.Multiplier,
		}

		for i := range pop.Agents {
			if inventory <= 0 {
				break
			}
			agent := &pop.Agents[i]
			neighborsBought := 0
			for _, nb := range agent.Connected {
				if nb >= 0 && nb < len(pop.Agents) && pop.Agents[nb].HasPurchased {
					neighborsBought++
				}
			}
			res := population.EvaluatePurchase(agent, neighborsBought, ctx, p)
			weekConversions += res.Prob
			if res.WillBuy {
				inventory--
				weekUnitsSold++
				weekRevenue += currentPrice
				weekCost += effectiveCOGS
				if offer.SubscriptionPrice > 0 && p.Next() < 0.6 {
					agent.Subscribed = true
					weekSubscribers++
				}
			}
		}

		avgConversion := 0.0
		if len(pop.Agents) > 0 {
			avgConversion = weekConversions / float64(len(pop.Agents))
		}

		totalUnitsSold += weekUnitsSold
		totalRevenue += weekRevenue
		totalCost += weekCost
		totalMarketingSpent += weeklyMarketingSpend
		totalSubscribers += weekSubscribers

		weekProfit := weekRevenue - weekCost - weeklyMarketingSpend
		cumulativeProfit += weekProfit
		if breakEvenWeek == -1 && cumulativeProfit > 0 {
			breakEvenWeek = week
		}

		lastOwnSales = weekUnitsSold
		lastOwnProfit = weekProfit
		lastOwnConversion = avgConversion

		weeklyMetrics = append(weeklyMetrics, WeeklyMetric{
			Week: week, UnitsSold: weekUnitsSold, CumulativeSold: totalUnitsSold,
			Inventory: inventory, Revenue: weekRevenue, AvgConversion: avgConversion,
			OurPrice: currentPrice, CompetitorPrices: competitorPrices,
			CompetitorAttractiveness: competitorAttractiveness, EffectiveCOGS: effectiveCOGS,
			Subscribers: weekSubscribers,
		})

		if inventory <= 0 {
			// No stock left for the remainder of the horizon; still record
			// the zeroed weeks so weeklyAvg series stay full-length.
			for w := week + 1; w < totalWeeks; w++ {
				weeklyMetrics = append(weeklyMetrics, WeeklyMetric{
					Week: w, CumulativeSold: totalUnitsSold, Inventory: 0,
					OurPrice: currentPrice, CompetitorPrices: competitorPrices,
					EffectiveCOGS: effectiveCOGS,
				})
			}
			break
		}
	}

	grossProfit := totalRevenue - totalCost
	netProfit := grossProfit - totalMarketingSpent

	roi := 0.0
	if totalMarketingSpent > 0 {
		roi = (netProfit / (totalCost + totalMarketingSpent)) * 100
	}

	marginPct := 0.0
	if totalRevenue > 0 {
		marginPct = (grossProfit / totalRevenue) * 100
	}

	inventoryValue := float64(inventory) * offer.Cogs
	unsoldPct := 0.0
	if initialInventory > 0 {
		unsoldPct = float64(inventory) / float64(initialInventory) * 100
	}

	subscriptionMonths := float64(totalWeeks) / weeksPerMonth
	subscriptionRevenue := float64(totalSubscribers) * offer.SubscriptionPrice * subscriptionMonths
	subscriptionCost := float64(totalSubscribers) * offer.SubscriptionCost * subscriptionMonths
	netProfit += subscriptionRevenue - subscriptionCost

	return Result{
		TotalUnitsSold:      totalUnitsSold,
		TotalRevenue:        totalRevenue,
		TotalCost:           totalCost,
		GrossProfit:         grossProfit,
		NetProfit:           netProfit,
		ROI:                 roi,
		MarginPct:           marginPct,
		InventoryRemaining:  inventory,
		InventoryValue:      inventoryValue,
		UnsoldPct:           unsoldPct,
		BreakEvenWeek:       breakEvenWeek,
		TotalMarketingSpent: totalMarketingSpent,
		TotalSubscribers:    totalSubscribers,
		SubscriptionRevenue: subscriptionRevenue,
		WeeklyMetrics:       weeklyMetrics,
	}
}
