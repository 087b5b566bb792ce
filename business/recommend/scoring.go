package recommend

import (
	"strings"

	"myMealPlanner/domain"
)

// Sub-score weights. Time fit and cuisine are flat bonuses; the rest
// multiply a sub-score normalized to [0,1].
const (
	weightDietary    = 30.0
	weightSkill      = 15.0
	weightIngredient = 10.0
	weightVariety    = 10.0
	weightSeasonal   = 5.0
	weightPantry     = 5.0

	timeFitBonus   = 20.0
	timeFitPenalty = -10.0
	cuisineBonus   = 15.0

	ratingBonusMax = 10.0
	favoriteBonus  = 20.0

	maxScore = 100.0
)

// Ingredient lists rewarded by the seasonal sub-score.
var seasonalIngredients = map[string][]string{
	"spring": {"asparagus", "pea", "spinach", "radish", "rhubarb", "artichoke"},
	"summer": {"tomato", "zucchini", "corn", "cucumber", "berry", "basil", "peach"},
	"autumn": {"pumpkin", "squash", "mushroom", "apple", "kale", "sweet potato"},
	"winter": {"cabbage", "potato", "leek", "carrot", "citrus", "brussels"},
}

// Ingredient categories that qualify as "main" regardless of amount.
var mainIngredientCategories = map[string]bool{
	"meat":    true,
	"produce": true,
}

const (
	mainIngredientMinAmount = 50.0
	maxMainIngredients      = 3
	cuisineOveruseCount     = 3

	varietyDuplicatePenalty = 0.5
	varietyCuisinePenalty   = 0.3
	varietyOverlapPenalty   = 0.2
)

// Score rates how well a recipe fits a user's declared preferences on a
// 0..100 scale. Dietary restrictions and excluded/allergen ingredients
// are hard gates: a violation zeroes the whole score. The context
// argument is optional; without it the variety, seasonal and pantry
// sub-scores do not apply. Pure and deterministic.
func Score(recipe domain.Recipe, prefs domain.UserPreferences, ctx *domain.MealContext) float64 {
	dietary, ok := dietaryScore(recipe, prefs)
	if !ok {
		return 0
	}
	ingredient, ok := ingredientScore(recipe, prefs)
	if !ok {
		return 0
	}

	score := dietary * weightDietary
	score += timeFitScore(recipe, prefs)
	score += skillScore(recipe, prefs) * weightSkill
	score += cuisineMatchBonus(recipe, prefs)
	score += ingredient * weightIngredient

	if ctx != nil {
		score += varietyScore(recipe, ctx.ExistingMeals) * weightVariety
		if prefs.SeasonalPreference {
			score += seasonalScore(recipe, ctx.Season) * weightSeasonal
		}
		if prefs.UsePantry {
			score += pantryScore(recipe, ctx.PantryItems) * weightPantry
		}
	}

	score += ratingBonusMax * clamp01(recipe.Rating/5.0)
	if recipe.IsFavorite {
		score += favoriteBonus
	}

	if score < 0 {
		return 0
	}
	if score > maxScore {
		return maxScore
	}
	return score
}

// dietaryScore returns the fraction of declared diets the recipe
// satisfies. Vegan and vegetarian are hard restrictions: violating either
// fails the gate outright.
func dietaryScore(recipe domain.Recipe, prefs domain.UserPreferences) (float64, bool) {
	if len(prefs.DietaryRestrictions) == 0 {
		return 1.0, true
	}
	satisfied := 0
	for _, diet := range prefs.DietaryRestrictions {
		switch strings.ToLower(diet) {
		case "vegan":
			if !recipe.HasTag("vegan") {
				return 0, false
			}
			satisfied++
		case "vegetarian":
			if !recipe.HasTag("vegetarian") && !recipe.HasTag("vegan") {
				return 0, false
			}
			satisfied++
		default:
			if recipe.HasTag(diet) {
				satisfied++
			}
		}
	}
	return float64(satisfied) / float64(len(prefs.DietaryRestrictions)), true
}

// timeFitScore is a flat bonus or penalty, not normalized like the other
// sub-scores. An unset max cooking time means no constraint.
func timeFitScore(recipe domain.Recipe, prefs domain.UserPreferences) float64 {
	if prefs.MaxCookingMinutes <= 0 {
		return timeFitBonus
	}
	if recipe.TotalMinutes() <= prefs.MaxCookingMinutes {
		return timeFitBonus
	}
	return timeFitPenalty
}

func skillRank(level string) int {
	switch strings.ToLower(level) {
	case domain.SkillBeginner:
		return 0
	case domain.SkillAdvanced:
		return 2
	default:
		return 1
	}
}

func skillScore(recipe domain.Recipe, prefs domain.UserPreferences) float64 {
	user := skillRank(prefs.SkillLevel)
	required := skillRank(recipe.Difficulty)
	switch {
	case user == required:
		return 1.0
	case user > required:
		return 0.8
	case required == user+1:
		return 0.5
	default:
		return 0.2
	}
}

func cuisineMatchBonus(recipe domain.Recipe, prefs domain.UserPreferences) float64 {
	for _, c := range prefs.PreferredCuisines {
		if strings.EqualFold(c, recipe.Cuisine) {
			return cuisineBonus
		}
	}
	return 0
}

// ingredientScore gates on excluded ingredients and allergens, matched as
// case-insensitive substrings of ingredient names. Past the gate the
// sub-score is 1.0 plus a preferred-ingredient bonus, capped at 1.0.
func ingredientScore(recipe domain.Recipe, prefs domain.UserPreferences) (float64, bool) {
	blocked := make([]string, 0, len(prefs.ExcludedIngredients)+len(prefs.Allergies))
	for _, e := range prefs.ExcludedIngredients {
		blocked = append(blocked, strings.ToLower(e))
	}
	for _, a := range prefs.Allergies {
		blocked = append(blocked, strings.ToLower(a))
	}

	for _, ing := range recipe.Ingredients {
		name := strings.ToLower(ing.Name)
		for _, b := range blocked {
			if b != "" && strings.Contains(name, b) {
				return 0, false
			}
		}
	}

	score := 1.0
	if len(prefs.PreferredIngredients) > 0 {
		matched := 0
		for _, pref := range prefs.PreferredIngredients {
			p := strings.ToLower(pref)
			for _, ing := range recipe.Ingredients {
				if p != "" && strings.Contains(strings.ToLower(ing.Name), p) {
					matched++
					break
				}
			}
		}
		score += 0.5 * float64(matched) / float64(len(prefs.PreferredIngredients))
	}
	if score > 1.0 {
		score = 1.0
	}
	return score, true
}

// varietyScore starts at 1 and subtracts a penalty per clash with the
// week under construction: exact duplicate, overused cuisine, or heavy
// main-ingredient overlap.
func varietyScore(recipe domain.Recipe, existing []domain.Recipe) float64 {
	if len(existing) == 0 {
		return 1.0
	}

	v := 1.0

	for _, meal := range existing {
		if meal.ID == recipe.ID {
			v -= varietyDuplicatePenalty
			break
		}
	}

	if recipe.Cuisine != "" {
		uses := 0
		for _, meal := range existing {
			if strings.EqualFold(meal.Cuisine, recipe.Cuisine) {
				uses++
			}
		}
		if uses >= cuisineOveruseCount {
			v -= varietyCuisinePenalty
		}
	}

	mains := mainIngredients(recipe)
	if len(mains) > 0 {
		used := make(map[string]bool)
		for _, meal := range existing {
			for _, m := range mainIngredients(meal) {
				used[m] = true
			}
		}
		overlap := 0
		for _, m := range mains {
			if used[m] {
				overlap++
			}
		}
		if float64(overlap)/float64(len(mains)) > 0.5 {
			v -= varietyOverlapPenalty
		}
	}

	return v
}

// mainIngredients extracts up to three defining ingredients: large
// amounts or meat/produce categories.
func mainIngredients(recipe domain.Recipe) []string {
	mains := make([]string, 0, maxMainIngredients)
	for _, ing := range recipe.Ingredients {
		if len(mains) == maxMainIngredients {
			break
		}
		if ing.Amount > mainIngredientMinAmount || mainIngredientCategories[strings.ToLower(ing.Category)] {
			mains = append(mains, strings.ToLower(ing.Name))
		}
	}
	return mains
}

func seasonalScore(recipe domain.Recipe, season string) float64 {
	list, ok := seasonalIngredients[strings.ToLower(season)]
	if !ok {
		return 0
	}
	for _, ing := range recipe.Ingredients {
		name := strings.ToLower(ing.Name)
		for _, s := range list {
			if strings.Contains(name, s) {
				return 1.0
			}
		}
	}
	return 0
}

// pantryScore is the fraction of recipe ingredients satisfiable by
// on-hand pantry items, matched as substrings in either direction.
func pantryScore(recipe domain.Recipe, pantry []string) float64 {
	if len(recipe.Ingredients) == 0 || len(pantry) == 0 {
		return 0
	}
	onHand := make([]string, 0, len(pantry))
	for _, p := range pantry {
		onHand = append(onHand, strings.ToLower(p))
	}
	matched := 0
	for _, ing := range recipe.Ingredients {
		name := strings.ToLower(ing.Name)
		for _, item := range onHand {
			if item == "" {
				continue
			}
			if strings.Contains(name, item) || strings.Contains(item, name) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(recipe.Ingredients))
}
