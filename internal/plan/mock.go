package plan

import (
	"fmt"
	"strings"
)

// mealSet is one day's worth of canned meals.
type mealSet struct {
	breakfast string
	lunch     string
	dinner    string
	snack     string
}

// workoutTemplates holds seven sessions per level so a full 7-day week cycles
// without repeating.
var workoutTemplates = map[FitnessLevel][]string{
	LevelBeginner: {
		"full-body circuit: bodyweight squats, wall push-ups, glute bridges and a 10-minute brisk walk",
		"low-impact cardio: stationary bike or brisk walking at a conversational pace",
		"upper-body basics: incline push-ups, band rows, shoulder taps and plank holds",
		"lower-body basics: chair squats, step-ups, calf raises and standing hip abductions",
		"mobility and core: cat-cow, bird-dog, dead bugs and gentle stretching",
		"intervals for starters: alternate 1 minute fast walking with 2 minutes easy walking",
		"active recovery: light yoga flow and a relaxed walk outdoors",
	},
	LevelIntermediate: {
		"push day: dumbbell bench press, overhead press, dips and triceps extensions",
		"pull day: pull-ups or lat pulldowns, barbell rows, face pulls and biceps curls",
		"leg day: back squats, Romanian deadlifts, walking lunges and calf raises",
		"steady-state cardio: 60-70% effort run, row or cycle with a core finisher",
		"full-body strength: deadlifts, push press, chin-ups and farmer carries",
		"HIIT session: 30s hard / 90s easy intervals on bike or rower, 8 rounds",
		"tempo circuit: kettlebell swings, goblet squats, push-ups and plank variations",
	},
	LevelAdvanced: {
		"heavy lower: back squats 5x5, front squats, Bulgarian split squats and nordic curls",
		"heavy upper: weighted pull-ups, barbell bench 5x5, pendlay rows and overhead press",
		"olympic work: power cleans, snatch pulls, push jerks and box jumps",
		"conditioning: sprint intervals 10x200m with full-effort hill finishers",
		"volume push-pull: superset bench/rows, incline press/pulldowns, arm work to failure",
		"posterior chain: conventional deadlifts 5x3, good mornings, hip thrusts and back extensions",
		"mixed-modal circuit: rower sprints, thrusters, burpees and double-unders, 5 rounds for time",
	},
}

// mealTemplates holds seven meal sets per dietary preference.
var mealTemplates = map[DietaryPreference][]mealSet{
	DietBalanced: {
		{"oatmeal with banana, berries and a glass of milk", "grilled chicken wrap with mixed salad", "baked salmon, brown rice and steamed broccoli", "apple slices with peanut butter"},
		{"scrambled eggs on wholegrain toast with avocado", "turkey and hummus sandwich with carrot sticks", "lean beef stir-fry with vegetables and noodles", "Greek yoghurt with honey"},
		{"Greek yoghurt parfait with granola and berries", "tuna pasta salad with sweetcorn and peppers", "roast chicken, sweet potato and green beans", "a handful of mixed nuts"},
		{"banana smoothie with oats and milk", "chicken and rice bowl with black beans", "grilled white fish with quinoa and courgette", "cottage cheese with pineapple"},
		{"wholegrain pancakes with berries and yoghurt", "egg salad sandwich with side salad", "turkey meatballs with spaghetti and tomato sauce", "rice cakes with almond butter"},
		{"muesli with milk and a boiled egg", "leftover roast chicken salad with vinaigrette", "pork loin with mashed potato and carrots", "dark chocolate and an orange"},
		{"avocado toast with poached eggs", "minestrone soup with wholegrain roll", "beef chilli with rice and a side salad", "trail mix"},
	},
	DietHighProtein: {
		{"four-egg omelette with spinach and feta", "grilled chicken breast with quinoa and greens", "sirloin steak with roasted vegetables", "protein shake with banana"},
		{"protein pancakes with Greek yoghurt", "tuna steak salad with edamame", "turkey mince lettuce wraps with rice", "cottage cheese with berries"},
		{"Greek yoghurt with whey, oats and almonds", "beef and bean burrito bowl", "baked cod with lentils and kale", "two boiled eggs"},
		{"scrambled eggs with smoked salmon", "chicken and chickpea salad with tahini", "lamb chops with couscous and peppers", "beef jerky and an apple"},
		{"egg white frittata with turkey bacon", "prawn and avocado salad with quinoa", "grilled chicken thighs with sweet potato", "casein shake"},
		{"skyr with seeds and protein granola", "salmon poke bowl with brown rice", "pork tenderloin with white beans and spinach", "roasted chickpeas"},
		{"steak and eggs with tomato", "chicken caesar salad, extra chicken", "turkey burgers with cottage cheese slaw", "tinned tuna on crackers"},
	},
	DietVegetarian: {
		{"porridge with almond butter and berries", "halloumi and roasted vegetable wrap", "chickpea and spinach curry with rice", "hummus with vegetable sticks"},
		{"scrambled tofu on sourdough toast", "lentil soup with wholegrain bread", "vegetable lasagne with side salad", "a handful of almonds"},
		{"Greek yoghurt with granola and honey", "falafel bowl with tabbouleh and tzatziki", "black bean burgers with sweet potato wedges", "fruit and nut bar"},
		{"smoothie bowl with banana, spinach and seeds", "caprese sandwich with basil and balsamic", "paneer tikka with naan and cucumber salad", "edamame with sea salt"},
		{"overnight oats with chia and mango", "quinoa salad with feta and pomegranate", "mushroom stroganoff with rice", "dark chocolate and walnuts"},
		{"veggie omelette with cheddar", "tomato soup with grilled cheese", "stuffed peppers with couscous and beans", "apple with peanut butter"},
		{"banana pancakes with maple syrup", "buddha bowl with tofu and tahini dressing", "vegetable stir-fry with cashews and noodles", "Greek yoghurt with honey"},
	},
	DietLowCarb: {
		{"bacon and eggs with avocado", "chicken caesar salad without croutons", "ribeye steak with buttered greens", "cheese cubes and olives"},
		{"Greek yoghurt with seeds and a few berries", "tuna salad stuffed avocado", "baked salmon with asparagus and hollandaise", "a boiled egg"},
		{"mushroom and cheese omelette", "zucchini noodle bowl with pesto chicken", "pork belly with cauliflower mash", "celery with cream cheese"},
		{"smoked salmon and cream cheese roll-ups", "cobb salad with blue cheese", "lamb kofta with Greek salad", "macadamia nuts"},
		{"chia pudding with coconut milk", "lettuce-wrapped burgers with cheddar", "garlic butter prawns with courgetti", "pork scratchings"},
		{"sausages with fried eggs and spinach", "chicken wings with celery and ranch", "beef stew with swede instead of potato", "a small handful of pecans"},
		{"frittata with peppers and goat cheese", "egg mayo salad with cucumber", "roast chicken legs with broccoli cheese", "beef biltong"},
	},
}

// MockDay renders one canned day block. Selection is a pure function of the
// day index, fitness level and dietary preference, so output is deterministic
// and the same parser that handles real model output handles this.
func MockDay(day int, req Request) string {
	req = req.Normalized()

	workouts := workoutTemplates[req.FitnessLevel]
	meals := mealTemplates[req.DietaryPreference]
	workout := workouts[(day-1)%len(workouts)]
	meal := meals[(day-1)%len(meals)]

	var b strings.Builder
	fmt.Fprintf(&b, "DAY %d:\n", day)
	b.WriteString("WORKOUT:\n")
	fmt.Fprintf(&b, "%d-minute %s session: %s\n", req.WorkoutDurationMinutes, req.FitnessLevel, workout)
	b.WriteString("MEALS:\n")
	fmt.Fprintf(&b, "Breakfast: %s\n", meal.breakfast)
	fmt.Fprintf(&b, "Lunch: %s\n", meal.lunch)
	fmt.Fprintf(&b, "Dinner: %s\n", meal.dinner)
	fmt.Fprintf(&b, "Snack: %s\n", meal.snack)

	return b.String()
}

// MockPlan renders a full canned plan covering req.DaysPerWeek days. It is
// used when no upstream API key is configured or, with fallback enabled, when
// the upstream call fails.
func MockPlan(req Request) string {
	req = req.Normalized()

	blocks := make([]string, 0, req.DaysPerWeek)
	for day := 1; day <= req.DaysPerWeek; day++ {
		blocks = append(blocks, MockDay(day, req))
	}
	return strings.Join(blocks, "\n")
}
