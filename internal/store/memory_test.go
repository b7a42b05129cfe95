package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Brilu-22/FCalApp3/internal/plan"
)

func testPlan() plan.GeneratedPlan {
	return plan.GeneratedPlan{
		CurrentWeightKg:        90,
		TargetWeightKg:         80,
		WorkoutDurationMinutes: 45,
		DaysPerWeek:            5,
		WorkoutPlan:            "DAY 1: WORKOUT: squats",
		MealPlan:               "DAY 1: MEALS: Breakfast: oats",
	}
}

func TestSavePlan(t *testing.T) {
	ctx := context.Background()

	t.Run("AssignsIdentity", func(t *testing.T) {
		m := NewMemory()
		saved, err := m.SavePlan(ctx, "user-1", testPlan())
		if err != nil {
			t.Fatalf("SavePlan failed: %v", err)
		}
		if saved.ID == "" {
			t.Error("Expected generated plan id")
		}
		if saved.UserID != "user-1" {
			t.Errorf("Expected userId user-1, got %q", saved.UserID)
		}
		if saved.GeneratedAt.IsZero() {
			t.Error("Expected generatedAt to be set")
		}
		if saved.TotalWorkouts != 5 {
			t.Errorf("Expected totalWorkouts=daysPerWeek, got %d", saved.TotalWorkouts)
		}
	})

	t.Run("ReplacesPreviousPlanAndResetsCounters", func(t *testing.T) {
		m := NewMemory()
		if _, err := m.SavePlan(ctx, "user-1", testPlan()); err != nil {
			t.Fatal(err)
		}
		if _, err := m.MarkWorkoutComplete(ctx, "user-1"); err != nil {
			t.Fatal(err)
		}

		second := testPlan()
		second.CurrentWeightKg = 88
		second.WeightProgress = 99 // must be ignored
		second.CompletedWorkouts = 4
		if _, err := m.SavePlan(ctx, "user-1", second); err != nil {
			t.Fatal(err)
		}

		plans, err := m.Plans(ctx, "user-1")
		if err != nil {
			t.Fatal(err)
		}
		if len(plans) != 1 {
			t.Fatalf("Expected exactly one live plan, got %d", len(plans))
		}
		if plans[0].CurrentWeightKg != 88 {
			t.Error("Expected the second plan's data to win")
		}
		if plans[0].WeightProgress != 0 || plans[0].CompletedWorkouts != 0 {
			t.Error("Expected progress counters reset to zero")
		}
	})

	t.Run("SeedsDashboard", func(t *testing.T) {
		m := NewMemory()
		if _, err := m.SavePlan(ctx, "user-1", testPlan()); err != nil {
			t.Fatal(err)
		}
		d, err := m.Dashboard(ctx, "user-1")
		if err != nil {
			t.Fatal(err)
		}
		if len(d.WeightHistory) != 1 || d.WeightHistory[0].Weight != 90 {
			t.Errorf("Expected history seeded with starting weight, got %+v", d.WeightHistory)
		}
		if len(d.WeeklyProgress) != 7 {
			t.Fatalf("Expected 7 calendar entries, got %d", len(d.WeeklyProgress))
		}
		for _, entry := range d.WeeklyProgress {
			if entry.Completed {
				t.Error("Expected zero-filled calendar")
			}
			if entry.WorkoutType == "" {
				t.Error("Expected placeholder workout types")
			}
		}
	})
}

func TestLookupsNotFound(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	if _, err := m.Plans(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Plans: expected ErrNotFound, got %v", err)
	}
	if _, err := m.LatestPlan(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("LatestPlan: expected ErrNotFound, got %v", err)
	}
	if _, err := m.Dashboard(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Dashboard: expected ErrNotFound, got %v", err)
	}
	if _, err := m.UpdateProgress(ctx, "ghost", 1); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateProgress: expected ErrNotFound, got %v", err)
	}
	if _, err := m.MarkWorkoutComplete(ctx, "ghost"); !errors.Is(err, ErrNotFound) {
		t.Errorf("MarkWorkoutComplete: expected ErrNotFound, got %v", err)
	}
}

func TestUpdateProgress(t *testing.T) {
	ctx := context.Background()

	t.Run("AccumulatesTowardTarget", func(t *testing.T) {
		m := NewMemory()
		if _, err := m.SavePlan(ctx, "user-1", testPlan()); err != nil {
			t.Fatal(err)
		}

		d, err := m.UpdateProgress(ctx, "user-1", 3)
		if err != nil {
			t.Fatal(err)
		}
		if d.CurrentPlan.WeightProgress != 3 {
			t.Errorf("Expected cumulative progress 3, got %v", d.CurrentPlan.WeightProgress)
		}
		// 90kg start, 80kg target: +3 toward target means 87kg now.
		last := d.WeightHistory[len(d.WeightHistory)-1]
		if last.Weight != 87 {
			t.Errorf("Expected latest weight 87, got %v", last.Weight)
		}

		d, err = m.UpdateProgress(ctx, "user-1", 2)
		if err != nil {
			t.Fatal(err)
		}
		if d.CurrentPlan.WeightProgress != 5 {
			t.Errorf("Expected cumulative progress 5, got %v", d.CurrentPlan.WeightProgress)
		}
		if d.WeightProgressPercentage != 50 {
			t.Errorf("Expected 50%% toward target, got %v", d.WeightProgressPercentage)
		}
	})

	t.Run("HistoryCappedFIFO", func(t *testing.T) {
		m := NewMemory()
		base := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
		step := 0
		m.now = func() time.Time { return base.AddDate(0, 0, step) }

		if _, err := m.SavePlan(ctx, "user-1", testPlan()); err != nil {
			t.Fatal(err)
		}

		var d plan.Dashboard
		var err error
		for step = 1; step <= 14; step++ {
			d, err = m.UpdateProgress(ctx, "user-1", 0.1)
			if err != nil {
				t.Fatal(err)
			}
		}
		if len(d.WeightHistory) != plan.MaxWeightHistory {
			t.Fatalf("Expected history capped at %d, got %d", plan.MaxWeightHistory, len(d.WeightHistory))
		}
		// Oldest entries evicted first: the newest entry must be last.
		for i := 1; i < len(d.WeightHistory); i++ {
			if d.WeightHistory[i].Date.Before(d.WeightHistory[i-1].Date) {
				t.Fatal("Expected history ordered oldest to newest")
			}
		}
		last := d.WeightHistory[len(d.WeightHistory)-1]
		if !sameDay(last.Date, base.AddDate(0, 0, 14)) {
			t.Error("Expected the newest entry to be retained")
		}
	})
}

func TestMarkWorkoutComplete(t *testing.T) {
	ctx := context.Background()

	t.Run("IdempotentPerCalendarDay", func(t *testing.T) {
		m := NewMemory()
		if _, err := m.SavePlan(ctx, "user-1", testPlan()); err != nil {
			t.Fatal(err)
		}

		// Bring the counter to 2 across two distinct days.
		day := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		m.now = func() time.Time { return day }
		if _, err := m.MarkWorkoutComplete(ctx, "user-1"); err != nil {
			t.Fatal(err)
		}
		day = day.AddDate(0, 0, 1)
		if _, err := m.MarkWorkoutComplete(ctx, "user-1"); err != nil {
			t.Fatal(err)
		}

		// Two calls on the same third day must count once: 2 -> 3, not 4.
		day = day.AddDate(0, 0, 1)
		if _, err := m.MarkWorkoutComplete(ctx, "user-1"); err != nil {
			t.Fatal(err)
		}
		d, err := m.MarkWorkoutComplete(ctx, "user-1")
		if err != nil {
			t.Fatal(err)
		}
		if d.CurrentPlan.CompletedWorkouts != 3 {
			t.Errorf("Expected completedWorkouts 3, got %d", d.CurrentPlan.CompletedWorkouts)
		}
	})

	t.Run("ClampedToTotal", func(t *testing.T) {
		m := NewMemory()
		p := testPlan()
		p.DaysPerWeek = 2
		if _, err := m.SavePlan(ctx, "user-1", p); err != nil {
			t.Fatal(err)
		}

		day := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
		m.now = func() time.Time { return day }
		var d plan.Dashboard
		var err error
		for i := 0; i < 5; i++ {
			d, err = m.MarkWorkoutComplete(ctx, "user-1")
			if err != nil {
				t.Fatal(err)
			}
			day = day.AddDate(0, 0, 1)
		}
		if d.CurrentPlan.CompletedWorkouts != 2 {
			t.Errorf("Expected clamp at totalWorkouts=2, got %d", d.CurrentPlan.CompletedWorkouts)
		}
		if d.WorkoutCompletionRate != 100 {
			t.Errorf("Expected 100%% completion, got %v", d.WorkoutCompletionRate)
		}
	})

	t.Run("AppendsEntryOutsideSeededWeek", func(t *testing.T) {
		m := NewMemory()
		if _, err := m.SavePlan(ctx, "user-1", testPlan()); err != nil {
			t.Fatal(err)
		}
		// Jump two weeks ahead of the seeded calendar.
		m.now = func() time.Time { return time.Now().UTC().AddDate(0, 0, 14) }
		d, err := m.MarkWorkoutComplete(ctx, "user-1")
		if err != nil {
			t.Fatal(err)
		}
		if len(d.WeeklyProgress) != 8 {
			t.Errorf("Expected appended calendar entry, got %d entries", len(d.WeeklyProgress))
		}
	})
}

func TestCounts(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	if _, err := m.SavePlan(ctx, "a", testPlan()); err != nil {
		t.Fatal(err)
	}
	if _, err := m.SavePlan(ctx, "b", testPlan()); err != nil {
		t.Fatal(err)
	}
	if _, err := m.SavePlan(ctx, "a", testPlan()); err != nil {
		t.Fatal(err)
	}
	plans, dashboards, err := m.Counts(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if plans != 2 || dashboards != 2 {
		t.Errorf("Expected 2 plans and 2 dashboards, got %d/%d", plans, dashboards)
	}
}
