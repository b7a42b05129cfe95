/*
Package store persists user plans and dashboard records behind a Repository
interface with two backings: an in-memory map for development and tests, and
Postgres for deployments that set DATABASE_URL. Both share the same state
transitions so semantics never drift between them.
*/
package store

import (
	"context"
	"errors"
	"time"

	"github.com/Brilu-22/FCalApp3/internal/plan"
)

// ErrNotFound means no plan or dashboard exists for the user.
var ErrNotFound = errors.New("store: not found")

// Repository is the persistence contract for plans and dashboards.
type Repository interface {
	// SavePlan stores p as the user's single live plan, replacing any
	// previous one, resetting progress counters and reseeding the dashboard.
	SavePlan(ctx context.Context, userID string, p plan.GeneratedPlan) (plan.GeneratedPlan, error)

	// Plans returns the user's plans ordered by generatedAt descending.
	Plans(ctx context.Context, userID string) ([]plan.GeneratedPlan, error)

	// LatestPlan returns the most recent plan.
	LatestPlan(ctx context.Context, userID string) (plan.GeneratedPlan, error)

	// Dashboard returns the dashboard with derived rates recomputed.
	Dashboard(ctx context.Context, userID string) (plan.Dashboard, error)

	// UpdateProgress accumulates a signed weight change and appends to the
	// weight history.
	UpdateProgress(ctx context.Context, userID string, delta float64) (plan.Dashboard, error)

	// MarkWorkoutComplete records today's workout, idempotently per
	// calendar day.
	MarkWorkoutComplete(ctx context.Context, userID string) (plan.Dashboard, error)

	// Counts reports how many plans and dashboards are held, for the
	// health endpoint.
	Counts(ctx context.Context) (plans, dashboards int, err error)
}

// dashboardDoc is the stored dashboard state; the percentage fields of
// plan.Dashboard are derived on read and never stored.
type dashboardDoc struct {
	WeightHistory  []plan.WeightEntry       `json:"weightHistory"`
	WeeklyProgress []plan.WorkoutCompletion `json:"weeklyProgress"`
}

// weeklyWorkoutTypes is the zero-filled Mon-Sun calendar seeded on save.
var weeklyWorkoutTypes = [7]string{
	"Upper Body", "Lower Body", "Cardio", "Upper Body", "Lower Body", "Rest", "Cardio",
}

// seedDashboard builds the initial dashboard state for a freshly saved plan:
// one weight-history point at the starting weight and an uncompleted calendar
// for the current week.
func seedDashboard(p plan.GeneratedPlan, now time.Time) dashboardDoc {
	doc := dashboardDoc{
		WeightHistory: []plan.WeightEntry{{Date: now, Weight: p.CurrentWeightKg}},
	}
	monday := startOfWeek(now)
	for i := 0; i < 7; i++ {
		doc.WeeklyProgress = append(doc.WeeklyProgress, plan.WorkoutCompletion{
			Date:        monday.AddDate(0, 0, i),
			Completed:   false,
			WorkoutType: weeklyWorkoutTypes[i],
		})
	}
	return doc
}

// applyProgress accumulates the signed weight delta, appends a history entry
// and evicts the oldest entries beyond the cap.
func applyProgress(p *plan.GeneratedPlan, doc *dashboardDoc, delta float64, now time.Time) {
	p.WeightProgress += delta

	doc.WeightHistory = append(doc.WeightHistory, plan.WeightEntry{
		Date:   now,
		Weight: weightAfterProgress(*p),
	})
	if n := len(doc.WeightHistory); n > plan.MaxWeightHistory {
		doc.WeightHistory = doc.WeightHistory[n-plan.MaxWeightHistory:]
	}

	if p.CompletedWorkouts > p.TotalWorkouts {
		p.CompletedWorkouts = p.TotalWorkouts
	}
}

// applyCompletion marks today's calendar entry completed. Calling it twice on
// the same calendar day increments the counter only once.
func applyCompletion(p *plan.GeneratedPlan, doc *dashboardDoc, now time.Time) {
	for i := range doc.WeeklyProgress {
		if sameDay(doc.WeeklyProgress[i].Date, now) {
			if doc.WeeklyProgress[i].Completed {
				return
			}
			doc.WeeklyProgress[i].Completed = true
			incrementCompleted(p)
			return
		}
	}

	doc.WeeklyProgress = append(doc.WeeklyProgress, plan.WorkoutCompletion{
		Date:        now,
		Completed:   true,
		WorkoutType: "Workout",
	})
	incrementCompleted(p)
}

func incrementCompleted(p *plan.GeneratedPlan) {
	if p.CompletedWorkouts < p.TotalWorkouts {
		p.CompletedWorkouts++
	}
}

// weightAfterProgress converts the cumulative toward-target progress into an
// absolute weight. Positive progress always moves from the starting weight
// toward the target.
func weightAfterProgress(p plan.GeneratedPlan) float64 {
	switch {
	case p.TargetWeightKg < p.CurrentWeightKg:
		return p.CurrentWeightKg - p.WeightProgress
	case p.TargetWeightKg > p.CurrentWeightKg:
		return p.CurrentWeightKg + p.WeightProgress
	default:
		return p.CurrentWeightKg
	}
}

// assembleDashboard joins the stored pieces into the derived view.
func assembleDashboard(userID string, p plan.GeneratedPlan, doc dashboardDoc) plan.Dashboard {
	current := p
	d := plan.Dashboard{
		UserID:         userID,
		CurrentPlan:    &current,
		WeightHistory:  append([]plan.WeightEntry(nil), doc.WeightHistory...),
		WeeklyProgress: append([]plan.WorkoutCompletion(nil), doc.WeeklyProgress...),
	}
	d.RecomputeRates()
	return d
}

// startOfWeek returns midnight of the Monday of now's week.
func startOfWeek(now time.Time) time.Time {
	day := now.Truncate(24 * time.Hour)
	offset := (int(now.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return day.AddDate(0, 0, -offset)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
