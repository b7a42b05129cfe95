// fitcal is a small CLI for the plan API: generate a plan through a running
// proxy, keep the latest one cached locally, and render it day by day.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Brilu-22/FCalApp3/internal/client"
	"github.com/Brilu-22/FCalApp3/internal/plan"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	ctx := context.Background()

	switch os.Args[1] {
	case "generate":
		cmd := flag.NewFlagSet("generate", flag.ExitOnError)
		apiURL := cmd.String("api", "http://localhost:8080", "Base URL of the plan API")
		cachePath := cmd.String("cache", defaultCachePath(), "Path of the local plan cache file")
		current := cmd.Float64("current", 0, "Current weight in kg")
		target := cmd.Float64("target", 0, "Target weight in kg")
		duration := cmd.Int("duration", 45, "Workout duration in minutes")
		days := cmd.Int("days", 3, "Training days per week")
		level := cmd.String("level", "", "Fitness level: beginner, intermediate or advanced")
		diet := cmd.String("diet", "", "Dietary preference: balanced, high-protein, vegetarian or low-carb")
		extra := cmd.String("notes", "", "Free-text guidance appended to the prompt")
		cmd.Parse(os.Args[2:])

		req := plan.Request{
			CurrentWeightKg:        *current,
			TargetWeightKg:         *target,
			WorkoutDurationMinutes: *duration,
			DaysPerWeek:            *days,
			FitnessLevel:           plan.FitnessLevel(*level),
			DietaryPreference:      plan.DietaryPreference(*diet),
			Prompt:                 *extra,
		}
		if err := req.Validate(); err != nil {
			log.Fatal().Err(err).Msg("Invalid plan parameters")
		}

		api := client.New(*apiURL, 60*time.Second)
		text, err := api.Generate(ctx, req)
		if err != nil {
			log.Fatal().Err(err).Msg("Plan generation failed")
		}

		cache := client.NewPlanCache(*cachePath)
		if err := cache.Save(text, req); err != nil {
			log.Warn().Err(err).Msg("Could not cache the generated plan")
		}

		renderPlan(text, req.Normalized().DaysPerWeek)

	case "show":
		cmd := flag.NewFlagSet("show", flag.ExitOnError)
		cachePath := cmd.String("cache", defaultCachePath(), "Path of the local plan cache file")
		cmd.Parse(os.Args[2:])

		cached, err := client.NewPlanCache(*cachePath).Load()
		if err != nil {
			log.Fatal().Err(err).Msg("No cached plan; run 'fitcal generate' first")
		}
		fmt.Printf("Generated %s for %v days/week\n\n",
			cached.GeneratedAt.Format(time.RFC822), cached.Params.DaysPerWeek)
		renderPlan(cached.Text, cached.Params.Normalized().DaysPerWeek)

	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func renderPlan(text string, daysPerWeek int) {
	for _, day := range plan.ParseDailyPlans(text, daysPerWeek) {
		fmt.Printf("=== %s ===\n", day.Day)
		fmt.Printf("  Breakfast: %s\n", day.Breakfast.Description)
		fmt.Printf("  Lunch:     %s\n", day.Lunch.Description)
		fmt.Printf("  Dinner:    %s\n", day.Dinner.Description)
		for _, snack := range day.Snacks {
			fmt.Printf("  %s: %s\n", snack.Name, snack.Description)
		}
		fmt.Println()
	}
}

func defaultCachePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "fitcal-plan.json"
	}
	return home + "/.fitcal/plan.json"
}

func printUsage() {
	fmt.Println("Usage: fitcal <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  generate  Request a new plan from the API and cache it locally")
	fmt.Println("  show      Render the locally cached plan")
}
