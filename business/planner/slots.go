package planner

import (
	"sort"
	"strings"

	"myMealPlanner/business/recommend"
	"myMealPlanner/domain"
)

var dayOrder = map[string]int{
	"monday":    0,
	"tuesday":   1,
	"wednesday": 2,
	"thursday":  3,
	"friday":    4,
	"saturday":  5,
	"sunday":    6,
}

var mealOrder = map[string]int{
	domain.MealBreakfast: 0,
	domain.MealLunch:     1,
	domain.MealSnack:     2,
	domain.MealDinner:    3,
}

// orderSlots sorts by day, then by the fixed meal ordering. Unknown days
// and meal types sort last, keeping their input order.
func orderSlots(slots []domain.PlanSlot) []domain.PlanSlot {
	ordered := make([]domain.PlanSlot, len(slots))
	copy(ordered, slots)

	sort.SliceStable(ordered, func(i, j int) bool {
		di, dj := slotDayRank(ordered[i]), slotDayRank(ordered[j])
		if di != dj {
			return di < dj
		}
		return slotMealRank(ordered[i]) < slotMealRank(ordered[j])
	})

	return ordered
}

func slotDayRank(s domain.PlanSlot) int {
	if rank, ok := dayOrder[strings.ToLower(s.Day)]; ok {
		return rank
	}
	return len(dayOrder)
}

func slotMealRank(s domain.PlanSlot) int {
	if rank, ok := mealOrder[strings.ToLower(s.MealType)]; ok {
		return rank
	}
	return len(mealOrder)
}

type suggestOptions struct {
	excludeIDs     []uint64
	minScore       float64
	maxSuggestions int
}

// suggestForSlot is the pure slot-suggestion pass: exclude, score,
// floor, prefer matching meal-type tags, take the top N. Recipes tagged
// for the slot's meal type win when any exist; otherwise every scored
// candidate stays eligible.
func suggestForSlot(
	recipes []domain.Recipe,
	prefs domain.UserPreferences,
	slot domain.PlanSlot,
	scoreCtx *domain.MealContext,
	opts suggestOptions,
) []domain.RecipeSuggestion {

	minScore := opts.minScore
	if minScore <= 0 {
		minScore = DefaultMinScore
	}
	maxSuggestions := opts.maxSuggestions
	if maxSuggestions <= 0 {
		maxSuggestions = DefaultMaxSuggestions
	}

	excluded := make(map[uint64]bool, len(opts.excludeIDs))
	for _, id := range opts.excludeIDs {
		excluded[id] = true
	}

	slotCtx := domain.MealContext{TargetMealType: slot.MealType}
	if scoreCtx != nil {
		slotCtx = *scoreCtx
		slotCtx.TargetMealType = slot.MealType
	}

	type scored struct {
		recipe domain.Recipe
		score  float64
	}
	qualifying := make([]scored, 0, len(recipes))
	for _, recipe := range recipes {
		if excluded[recipe.ID] {
			continue
		}
		score := recommend.Score(recipe, prefs, &slotCtx)
		if score < minScore {
			continue
		}
		qualifying = append(qualifying, scored{recipe: recipe, score: score})
	}

	tagged := make([]scored, 0, len(qualifying))
	for _, q := range qualifying {
		if q.recipe.HasTag(slot.MealType) {
			tagged = append(tagged, q)
		}
	}
	if len(tagged) > 0 {
		qualifying = tagged
	}

	sort.SliceStable(qualifying, func(i, j int) bool {
		return qualifying[i].score > qualifying[j].score
	})

	if maxSuggestions > len(qualifying) {
		maxSuggestions = len(qualifying)
	}
	out := make([]domain.RecipeSuggestion, 0, maxSuggestions)
	for i := 0; i < maxSuggestions; i++ {
		out = append(out, domain.RecipeSuggestion{
			RecipeID:   qualifying[i].recipe.ID,
			RecipeName: qualifying[i].recipe.Name,
			Score:      qualifying[i].score,
		})
	}
	return out
}
