package plan

import (
	"fmt"
	"regexp"
	"strings"
)

// MealItem is one parsed meal entry.
type MealItem struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// DailyPlan is the per-day view derived from the raw day-delimited text.
// It is recomputed from the raw text on every read and never persisted.
type DailyPlan struct {
	Day       string     `json:"day"`
	Breakfast MealItem   `json:"breakfast"`
	Lunch     MealItem   `json:"lunch"`
	Dinner    MealItem   `json:"dinner"`
	Snacks    []MealItem `json:"snacks"`

	// Placeholder marks a day filled entirely with canned sample content
	// because the raw text held nothing usable for it.
	Placeholder bool `json:"-"`
}

var (
	dayMarkerRe = regexp.MustCompile(`(?i)day\s*\d+:`)

	breakfastLabelRe = regexp.MustCompile(`(?i)breakfast:\s*`)
	lunchLabelRe     = regexp.MustCompile(`(?i)lunch:\s*`)
	dinnerLabelRe    = regexp.MustCompile(`(?i)dinner:\s*`)
	snackLabelRe     = regexp.MustCompile(`(?i)snack\s*\d*\s*:?\s*`)
)

var weekdays = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// minSnackLine guards against matching the bare "Snacks:" section header or
// other label-only lines.
const minSnackLine = 10

// ParseDailyPlans extracts up to expectedDays day plans from raw model output.
// It is deliberately forgiving and never fails: a day section with no
// recognisable meals degrades to sample content, and input with no real
// content at all yields expectedDays fully-placeholder days. The UI always has
// something to render.
func ParseDailyPlans(raw string, expectedDays int) []DailyPlan {
	if expectedDays <= 0 {
		return nil
	}

	sections := splitDaySections(raw)
	if len(sections) > expectedDays {
		sections = sections[:expectedDays]
	}

	var (
		days    []DailyPlan
		anyReal bool
	)
	for i, section := range sections {
		day, real := parseDaySection(section, weekdays[i%7])
		if real {
			anyReal = true
		}
		days = append(days, day)
	}

	if !anyReal {
		days = days[:0]
		for i := 0; i < expectedDays; i++ {
			days = append(days, placeholderDay(weekdays[i%7]))
		}
	}
	return days
}

// splitDaySections cuts the text on "DAY n:" markers and drops blank pieces.
// Any preamble before the first marker is discarded so day labels stay aligned.
func splitDaySections(raw string) []string {
	loc := dayMarkerRe.FindStringIndex(raw)
	if loc == nil {
		return nil
	}

	var sections []string
	for _, part := range dayMarkerRe.Split(raw[loc[0]:], -1) {
		if strings.TrimSpace(part) != "" {
			sections = append(sections, part)
		}
	}
	return sections
}

// parseDaySection extracts meals from one day's text. The second return value
// reports whether any real content was found.
func parseDaySection(section, label string) (DailyPlan, bool) {
	day := DailyPlan{
		Day:       label,
		Breakfast: MealItem{Name: "Breakfast", Description: "No breakfast details available"},
		Lunch:     MealItem{Name: "Lunch", Description: "No lunch details available"},
		Dinner:    MealItem{Name: "Dinner", Description: "No dinner details available"},
	}

	var lines []string
	for _, line := range strings.Split(section, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}

	var found bool
	if desc, ok := findMeal(lines, "breakfast", breakfastLabelRe); ok {
		day.Breakfast.Description = desc
		found = true
	}
	if desc, ok := findMeal(lines, "lunch", lunchLabelRe); ok {
		day.Lunch.Description = desc
		found = true
	}
	if desc, ok := findMeal(lines, "dinner", dinnerLabelRe); ok {
		day.Dinner.Description = desc
		found = true
	}

	for _, line := range lines {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "snack") || strings.Contains(lower, "snacks:") || len(line) <= minSnackLine {
			continue
		}
		desc := strings.TrimSpace(snackLabelRe.ReplaceAllString(line, ""))
		if desc == "" {
			continue
		}
		day.Snacks = append(day.Snacks, MealItem{
			Name:        fmt.Sprintf("Snack %d", len(day.Snacks)+1),
			Description: desc,
		})
		found = true
	}

	if !found {
		return placeholderDay(label), false
	}
	return day, true
}

// findMeal returns the description from the first line mentioning the keyword.
func findMeal(lines []string, keyword string, labelRe *regexp.Regexp) (string, bool) {
	for _, line := range lines {
		if !strings.Contains(strings.ToLower(line), keyword) {
			continue
		}
		if desc := strings.TrimSpace(labelRe.ReplaceAllString(line, "")); desc != "" {
			return desc, true
		}
		return "", false
	}
	return "", false
}

func placeholderDay(label string) DailyPlan {
	return DailyPlan{
		Day:         label,
		Breakfast:   MealItem{Name: "Sample Breakfast", Description: "Oatmeal with fresh fruit and a glass of milk"},
		Lunch:       MealItem{Name: "Sample Lunch", Description: "Grilled chicken salad with mixed greens"},
		Dinner:      MealItem{Name: "Sample Dinner", Description: "Baked salmon with roasted vegetables"},
		Snacks:      []MealItem{{Name: "Snack 1", Description: "A handful of mixed nuts"}},
		Placeholder: true,
	}
}
