// Package simulation executes one weekly-stepped Monte Carlo iteration:
// product lifecycle and seasonality, competitor decisions, customer purchase
// evaluation, inventory accounting, and break-even detection (§4.3.4, §4.3.5).
package simulation

// Stage is one of the four product-lifecycle phases (§3.7).
type Stage string

const (
	StageLaunch   Stage = "launch"
	StageGrowth   Stage = "growth"
	StageMaturity Stage = "maturity"
	StageDecline  Stage = "decline"
)

type stageSpec struct {
	stage    Stage
	novelty  float64
	fraction float64
}

var stages = []stageSpec{
	{StageLaunch, 1.30, 0.12},
	{StageGrowth, 1.15, 0.27},
	{StageMaturity, 1.00, 0.38},
	{StageDecline, 0.70, 0.23},
}

// Lifecycle is the per-week lifecycle readout (§4.3.4).
type Lifecycle struct {
	Stage         Stage
	NoveltyFactor float64
	Progress      float64
}

// ComputeLifecycle walks the cumulative stage-duration fractions to find the
// current stage, then linearly interpolates novelty toward the next stage's
// novelty by the in-stage progress fraction.
func ComputeLifecycle(week, totalWeeks int) Lifecycle {
	if totalWeeks <= 0 {
		return Lifecycle{Stage: StageMaturity, NoveltyFactor: 1.0, Progress: 0}
	}
	pct := float64(week) / float64(totalWeeks)

	cumulative := 0.0
	for i, s := range stages {
		next := cumulative + s.fraction
		if pct < next || i == len(stages)-1 {
			progress := 0.0
			if s.fraction > 0 {
				progress = (pct - cumulative) / s.fraction
			}
			if progress < 0 {
				progress = 0
			}
			if progress > 1 {
				progress = 1
			}
			nextNovelty := s.novelty
			if i < len(stages)-1 {
				nextNovelty = stages[i+1].novelty
			}
			novelty := s.novelty + (nextNovelty-s.novelty)*progress
			return Lifecycle{Stage: s.stage, NoveltyFactor: novelty, Progress: progress}
		}
		cumulative = next
	}
	last := stages[len(stages)-1]
	return Lifecycle{Stage: last.stage, NoveltyFactor: last.novelty, Progress: 1}
}

// SeasonalityOptions configures the seasonal-multiplier computation.
type SeasonalityOptions struct {
	StartMonth   int // 0..11
	UseHolidays  bool
	Amplitude    float64
	MonthlyTable [12]float64
	Holidays     map[int]float64 // ISO week (mod 52) -> multiplicative boost
}

// DefaultMonthlyTable is a mild retail-seasonality curve (index 0 = January).
func DefaultMonthlyTable() [12]float64 {
	return [12]float64{0.90, 0.88, 0.95, 1.00, 1.02, 1.05, 1.00, 0.98, 1.03, 1.05, 1.15, 1.35}
}

// DefaultHolidays is a small set of named holiday weeks with multiplicative boosts,
// keyed by week-of-year (mod 52).
func DefaultHolidays() map[int]float64 {
	return map[int]float64{
		47: 1.4, // Black Friday week
		51: 1.6, // Christmas week
		0:  1.1, // New Year
	}
}

// Seasonality is the per-week seasonal readout (§4.3.4).
type Seasonality struct {
	Multiplier float64
	Month      int
	Holiday    bool
}

const weeksPerMonth = 4.33

// ComputeSeasonality derives the calendar month from startMonth and the
// elapsed week count, applies the monthly table scaled by amplitude, and
// layers in a holiday boost when the current week lands on a named holiday
// week. The result is floor-clamped at 0.5.
func ComputeSeasonality(week int, opts SeasonalityOptions) Seasonality {
	monthOffset := float64(week) / weeksPerMonth
	month := (opts.StartMonth + int(monthOffset)) % 12
	if month < 0 {
		month += 12
	}

	table := opts.MonthlyTable
	multiplier := 1 + (table[month]-1)*opts.Amplitude

	holiday := false
	if opts.UseHolidays && opts.Holidays != nil {
		weekOfYear := int(float64(opts.StartMonth)*weeksPerMonth) + week
		weekOfYear = ((weekOfYear % 52) + 52) % 52
		if boost, ok := opts.Holidays[weekOfYear]; ok {
			multiplier *= 1 + (boost-1)*opts.Amplitude
			holiday = true
		}
	}

	if multiplier < 0.5 {
		multiplier = 0.5
	}

	return Seasonality{Multiplier: multiplier, Month: month, Holiday: holiday}
}
