/*
Package plan holds the fitness-plan domain model: the generation request and
its validation rules, the stored plan and dashboard records, and the shared
day-plan text format (prompt directive, mock templates, response parser).
*/
package plan

import (
	"fmt"
	"math"
	"time"
)

// FitnessLevel selects the workout intensity tier.
type FitnessLevel string

const (
	LevelBeginner     FitnessLevel = "beginner"
	LevelIntermediate FitnessLevel = "intermediate"
	LevelAdvanced     FitnessLevel = "advanced"
)

// DietaryPreference selects the meal template family.
type DietaryPreference string

const (
	DietBalanced    DietaryPreference = "balanced"
	DietHighProtein DietaryPreference = "high-protein"
	DietVegetarian  DietaryPreference = "vegetarian"
	DietLowCarb     DietaryPreference = "low-carb"
)

// Request is the plan-generation input as sent by the mobile client.
type Request struct {
	CurrentWeightKg        float64           `json:"currentWeightKg"`
	TargetWeightKg         float64           `json:"targetWeightKg"`
	WorkoutDurationMinutes int               `json:"workoutDurationMinutes"`
	DaysPerWeek            int               `json:"daysPerWeek"`
	FitnessLevel           FitnessLevel      `json:"fitnessLevel,omitempty"`
	DietaryPreference      DietaryPreference `json:"dietaryPreference,omitempty"`

	// Prompt carries optional free-text instructions appended to the
	// generated prompt verbatim.
	Prompt string `json:"prompt,omitempty"`
}

// ValidationError reports a single client-fixable input problem.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Validate checks the request before any upstream work happens.
// All numeric fields must be strictly positive and daysPerWeek must fit a
// calendar week. Level and diet are optional but must be known values when set.
func (r Request) Validate() error {
	if r.CurrentWeightKg <= 0 {
		return &ValidationError{Field: "currentWeightKg", Reason: "must be a positive number"}
	}
	if r.TargetWeightKg <= 0 {
		return &ValidationError{Field: "targetWeightKg", Reason: "must be a positive number"}
	}
	if r.WorkoutDurationMinutes <= 0 {
		return &ValidationError{Field: "workoutDurationMinutes", Reason: "must be a positive number"}
	}
	if r.DaysPerWeek <= 0 || r.DaysPerWeek > 7 {
		return &ValidationError{Field: "daysPerWeek", Reason: "must be between 1 and 7"}
	}
	if r.FitnessLevel != "" {
		switch r.FitnessLevel {
		case LevelBeginner, LevelIntermediate, LevelAdvanced:
		default:
			return &ValidationError{Field: "fitnessLevel", Reason: "must be beginner, intermediate or advanced"}
		}
	}
	if r.DietaryPreference != "" {
		switch r.DietaryPreference {
		case DietBalanced, DietHighProtein, DietVegetarian, DietLowCarb:
		default:
			return &ValidationError{Field: "dietaryPreference", Reason: "must be balanced, high-protein, vegetarian or low-carb"}
		}
	}
	return nil
}

// Normalized returns a copy with absent level/diet filled with the defaults
// used by the prompt template and the mock generator.
func (r Request) Normalized() Request {
	if r.FitnessLevel == "" {
		r.FitnessLevel = LevelIntermediate
	}
	if r.DietaryPreference == "" {
		r.DietaryPreference = DietBalanced
	}
	return r
}

// GeneratedPlan is a saved plan for one user. At most one live plan exists
// per user; saving a new one replaces the previous one.
type GeneratedPlan struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	GeneratedAt time.Time `json:"generatedAt"`

	// Inputs the plan was generated from.
	CurrentWeightKg        float64 `json:"currentWeightKg"`
	TargetWeightKg         float64 `json:"targetWeightKg"`
	WorkoutDurationMinutes int     `json:"workoutDurationMinutes"`
	DaysPerWeek            int     `json:"daysPerWeek"`

	// Generated content, kept as the raw day-delimited text.
	WorkoutPlan string `json:"workoutPlan"`
	MealPlan    string `json:"mealPlan"`

	// Progress counters.
	WeightProgress    float64 `json:"weightProgress"`
	CompletedWorkouts int     `json:"completedWorkouts"`
	TotalWorkouts     int     `json:"totalWorkouts"`
}

// WeightEntry is one point in a user's weight history.
type WeightEntry struct {
	Date   time.Time `json:"date"`
	Weight float64   `json:"weight"`
}

// WorkoutCompletion is one day in the weekly progress calendar.
type WorkoutCompletion struct {
	Date        time.Time `json:"date"`
	Completed   bool      `json:"completed"`
	WorkoutType string    `json:"workoutType"`
}

// Dashboard is the derived per-user view over the current plan and history.
// The percentage fields are recomputed on every read, never stored as truth.
type Dashboard struct {
	UserID                   string              `json:"userId"`
	CurrentPlan              *GeneratedPlan      `json:"currentPlan"`
	WeightProgressPercentage float64             `json:"weightProgressPercentage"`
	WorkoutCompletionRate    float64             `json:"workoutCompletionRate"`
	WeightHistory            []WeightEntry       `json:"weightHistory"`
	WeeklyProgress           []WorkoutCompletion `json:"weeklyProgress"`
}

// MaxWeightHistory caps the weight history; oldest entries are evicted first.
const MaxWeightHistory = 10

// RecomputeRates refreshes the derived percentage fields from the current
// plan's counters. A zero target delta counts as 100% weight progress.
func (d *Dashboard) RecomputeRates() {
	if d.CurrentPlan == nil {
		d.WeightProgressPercentage = 0
		d.WorkoutCompletionRate = 0
		return
	}

	p := d.CurrentPlan
	targetDelta := p.TargetWeightKg - p.CurrentWeightKg
	if targetDelta != 0 {
		pct := math.Abs(p.WeightProgress) / math.Abs(targetDelta) * 100
		d.WeightProgressPercentage = math.Min(100, pct)
	} else {
		d.WeightProgressPercentage = 100
	}

	if p.TotalWorkouts > 0 {
		d.WorkoutCompletionRate = float64(p.CompletedWorkouts) / float64(p.TotalWorkouts) * 100
	} else {
		d.WorkoutCompletionRate = 0
	}
}
