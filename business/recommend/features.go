package recommend

import (
	"strings"

	"myMealPlanner/domain"
)

// Fixed vocabularies for categorical feature detection. Matching is
// case-insensitive substring, first entry wins.
var proteinVocabulary = []string{"beef", "chicken", "pork", "fish", "tofu", "egg"}

var cookingMethods = []string{"bake", "grill", "roast", "steam", "boil", "stew", "saute", "fry"}

var mealTypeTags = []string{
	domain.MealBreakfast,
	domain.MealLunch,
	domain.MealDinner,
	domain.MealSnack,
	"dessert",
}

// Canonical dish names that mark a recipe as traditional.
var traditionalDishes = []string{
	"sunday roast",
	"pot roast",
	"roast chicken",
	"meatloaf",
	"meatballs",
	"beef stew",
	"shepherd's pie",
	"lasagna",
	"paella",
	"pancakes",
}

const (
	quickMealMinutes   = 30
	budgetCostFraction = 0.6

	prepTimeScaleMinutes = 60.0
	costScalePerServing  = 500.0
	calorieBaseline      = 400.0

	neutralFeature = 0.5
)

// RecipeFeatures is the normalized view of a recipe the bandit caches per
// arm. Numeric fields are clamped to [0,1]; booleans derive only from the
// recipe's declared tags, ingredients and timings.
type RecipeFeatures struct {
	MealType      string `json:"meal_type,omitempty"`
	Cuisine       string `json:"cuisine,omitempty"`
	MainProtein   string `json:"main_protein,omitempty"`
	CookingMethod string `json:"cooking_method,omitempty"`

	PrepTime   float64 `json:"prep_time"`
	Cost       float64 `json:"cost"`
	Health     float64 `json:"health"`
	Spiciness  float64 `json:"spiciness"`
	Complexity float64 `json:"complexity"`

	Vegetarian  bool `json:"vegetarian"`
	GlutenFree  bool `json:"gluten_free"`
	DairyFree   bool `json:"dairy_free"`
	Traditional bool `json:"traditional"`
	Quick       bool `json:"quick"`
	Budget      bool `json:"budget"`
}

// Extract derives RecipeFeatures from a recipe and an optional meal
// context. It is total: missing fields fall back to neutral defaults
// (0.5 for continuous scores, false for booleans) and it never errors.
func Extract(recipe domain.Recipe, ctx *domain.MealContext) RecipeFeatures {
	f := RecipeFeatures{
		MealType:      detectMealType(recipe, ctx),
		Cuisine:       strings.ToLower(recipe.Cuisine),
		MainProtein:   detectMainProtein(recipe),
		CookingMethod: detectCookingMethod(recipe),

		PrepTime:   prepTimeFeature(recipe),
		Cost:       costFeature(recipe),
		Health:     healthFeature(recipe),
		Spiciness:  spicinessFeature(recipe),
		Complexity: complexityFeature(recipe),

		Vegetarian:  recipe.HasTag("vegetarian") || recipe.HasTag("vegan"),
		GlutenFree:  recipe.HasTag("gluten-free"),
		DairyFree:   recipe.HasTag("dairy-free"),
		Traditional: isTraditional(recipe),
	}

	f.Quick = recipe.TotalMinutes() > 0 && recipe.TotalMinutes() < quickMealMinutes
	f.Budget = f.Cost < budgetCostFraction

	return f
}

func detectMealType(recipe domain.Recipe, ctx *domain.MealContext) string {
	for _, mt := range mealTypeTags {
		if recipe.HasTag(mt) {
			return mt
		}
	}
	if ctx != nil && ctx.TargetMealType != "" {
		return strings.ToLower(ctx.TargetMealType)
	}
	return ""
}

// detectMainProtein scans the name first, then ingredient names.
func detectMainProtein(recipe domain.Recipe) string {
	name := strings.ToLower(recipe.Name)
	for _, p := range proteinVocabulary {
		if strings.Contains(name, p) {
			return p
		}
	}
	for _, ing := range recipe.Ingredients {
		ingName := strings.ToLower(ing.Name)
		for _, p := range proteinVocabulary {
			if strings.Contains(ingName, p) {
				return p
			}
		}
	}
	return ""
}

func detectCookingMethod(recipe domain.Recipe) string {
	name := strings.ToLower(recipe.Name)
	for _, m := range cookingMethods {
		if strings.Contains(name, m) {
			return m
		}
	}
	for _, step := range recipe.Instructions {
		stepLower := strings.ToLower(step)
		for _, m := range cookingMethods {
			if strings.Contains(stepLower, m) {
				return m
			}
		}
	}
	return ""
}

func prepTimeFeature(recipe domain.Recipe) float64 {
	total := recipe.TotalMinutes()
	if total <= 0 {
		return neutralFeature
	}
	return clamp01(float64(total) / prepTimeScaleMinutes)
}

func costFeature(recipe domain.Recipe) float64 {
	if recipe.EstimatedCost <= 0 {
		return neutralFeature
	}
	servings := recipe.Servings
	if servings <= 0 {
		servings = 1
	}
	perServing := recipe.EstimatedCost / float64(servings)
	return clamp01(perServing / costScalePerServing)
}

// healthFeature scores calories-per-serving against the baseline; lighter
// recipes score higher, anything at double the baseline or above scores 0.
func healthFeature(recipe domain.Recipe) float64 {
	if recipe.Calories <= 0 {
		return neutralFeature
	}
	servings := recipe.Servings
	if servings <= 0 {
		servings = 1
	}
	perServing := recipe.Calories / float64(servings)
	return clamp01(1.0 - (perServing-calorieBaseline)/calorieBaseline)
}

func spicinessFeature(recipe domain.Recipe) float64 {
	if recipe.SpiceLevel > 0 {
		return clamp01(float64(recipe.SpiceLevel) / 5.0)
	}
	if recipe.HasTag("spicy") {
		return 0.75
	}
	return neutralFeature
}

// complexityFeature grows with ingredient and step counts; a recipe with
// neither declared is neutral rather than trivially simple.
func complexityFeature(recipe domain.Recipe) float64 {
	if len(recipe.Ingredients) == 0 && len(recipe.Instructions) == 0 {
		return neutralFeature
	}
	ingredientLoad := clamp01(float64(len(recipe.Ingredients)) / 15.0)
	stepLoad := clamp01(float64(len(recipe.Instructions)) / 12.0)
	return clamp01((ingredientLoad + stepLoad) / 2.0)
}

func isTraditional(recipe domain.Recipe) bool {
	name := strings.ToLower(recipe.Name)
	for _, dish := range traditionalDishes {
		if strings.Contains(name, dish) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
