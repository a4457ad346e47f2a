package simulation

import "testing"

func TestLifecycleStartsAtLaunchNovelty(t *testing.T) {
	l := ComputeLifecycle(0, 52)
	if l.Stage != StageLaunch {
		t.Errorf("stage = %v, want launch", l.Stage)
	}
	if l.NoveltyFactor < 1.0 || l.NoveltyFactor > 1.30 {
		t.Errorf("novelty = %v, want within [1.0, 1.30] near week 0", l.NoveltyFactor)
	}
}

func TestLifecycleEndsInDecline(t *testing.T) {
	l := ComputeLifecycle(51, 52)
	if l.Stage != StageDecline {
		t.Errorf("stage = %v, want decline", l.Stage)
	}
}

func TestLifecycleStageOrder(t *testing.T) {
	totalWeeks := 100
	seen := map[Stage]bool{}
	order := []Stage{}
	prev := Stage("")
	for w := 0; w < totalWeeks; w++ {
		l := ComputeLifecycle(w, totalWeeks)
		if l.Stage != prev {
			order = append(order, l.Stage)
			prev = l.Stage
		}
		seen[l.Stage] = true
	}
	want := []Stage{StageLaunch, StageGrowth, StageMaturity, StageDecline}
	if len(order) != len(want) {
		t.Fatalf("stage transitions = %v, want %v", order, want)
	}
	for i, s := range want {
		if order[i] != s {
			t.Errorf("transition %d = %v, want %v", i, order[i], s)
		}
	}
}

func TestSeasonalityClampsAtHalf(t *testing.T) {
	opts := SeasonalityOptions{
		MonthlyTable: [12]float64{0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0},
		Amplitude:    1.0,
	}
	s := ComputeSeasonality(0, opts)
	if s.Multiplier != 0.5 {
		t.Errorf("multiplier = %v, want 0.5 floor", s.Multiplier)
	}
}

func TestSeasonalityHolidayBoost(t *testing.T) {
	opts := SeasonalityOptions{
		MonthlyTable: DefaultMonthlyTable(),
		Amplitude:    1.0,
		UseHolidays:  true,
		Holidays:     map[int]float64{0: 2.0},
		StartMonth:   0,
	}
	withHoliday := ComputeSeasonality(0, opts)
	opts.UseHolidays = false
	withoutHoliday := ComputeSeasonality(0, opts)
	if !withHoliday.Holiday {
		t.Error("expected holiday flag set")
	}
	if withHoliday.Multiplier <= withoutHoliday.Multiplier {
		t.Errorf("holiday multiplier %v should exceed baseline %v", withHoliday.Multiplier, withoutHoliday.Multiplier)
	}
}
