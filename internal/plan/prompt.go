package plan

import (
	"fmt"
	"strconv"
	"strings"
)

// formatDirective tells the model exactly how to shape its output. The mobile
// parser segments the response on these literal tokens, so the wording here
// and the parser in parser.go must change in lockstep.
const formatDirective = `Output format, follow it exactly:
For each day write a line starting with "DAY {n}:" (DAY 1:, DAY 2:, and so on).
Under each day write a "WORKOUT:" section describing the full session, then a
"MEALS:" section with one line each for Breakfast:, Lunch:, Dinner: and Snack:.
Do not use markdown, tables or any other headings.`

// BuildPrompt renders the natural-language instruction block for a validated,
// normalized request. The output is deterministic: identical requests produce
// identical prompts.
func BuildPrompt(req Request) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a certified personal trainer and nutritionist. ")
	fmt.Fprintf(&b, "Create a personalised %d-day workout and meal plan for the following client.\n\n", req.DaysPerWeek)

	b.WriteString("Client profile:\n")
	fmt.Fprintf(&b, "- Current weight: %s kg\n", formatKg(req.CurrentWeightKg))
	fmt.Fprintf(&b, "- Target weight: %s kg\n", formatKg(req.TargetWeightKg))
	fmt.Fprintf(&b, "- Workout duration: %d minutes per session\n", req.WorkoutDurationMinutes)
	fmt.Fprintf(&b, "- Training days per week: %d\n", req.DaysPerWeek)
	fmt.Fprintf(&b, "- Fitness level: %s\n", req.FitnessLevel)
	fmt.Fprintf(&b, "- Dietary preference: %s\n", req.DietaryPreference)

	if p := strings.TrimSpace(req.Prompt); p != "" {
		fmt.Fprintf(&b, "\nAdditional instructions from the client: %s\n", p)
	}

	b.WriteString("\n")
	b.WriteString(formatDirective)

	return b.String()
}

// formatKg prints a weight without trailing zeros (82.5 -> "82.5", 90 -> "90").
func formatKg(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
