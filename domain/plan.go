package domain

import (
	"fmt"
	"strings"
)

// Meal types in the fixed order week planning fills them.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealSnack     = "snack"
	MealDinner    = "dinner"
)

// PlanSlot is one (day, meal type) cell of a weekly plan.
type PlanSlot struct {
	Day      string `json:"day" validate:"required"`
	MealType string `json:"meal_type" validate:"required"`
}

// Key is the canonical slot identifier, e.g. "monday-dinner".
func (s PlanSlot) Key() string {
	return fmt.Sprintf("%s-%s", strings.ToLower(s.Day), strings.ToLower(s.MealType))
}

// SlotAssignment is one filled cell of a generated plan.
type SlotAssignment struct {
	RecipeID   uint64  `json:"recipe_id"`
	RecipeName string  `json:"recipe_name"`
	Score      float64 `json:"score"`
}

// WeekPlan maps slot keys to assignments. Slots the planner could not
// fill are absent from the map; callers must check for missing keys.
type WeekPlan struct {
	Assignments map[string]SlotAssignment `json:"assignments"`
}

// RecipeSuggestion is one scored candidate for a single slot.
type RecipeSuggestion struct {
	RecipeID   uint64  `json:"recipe_id"`
	RecipeName string  `json:"recipe_name"`
	Score      float64 `json:"score"`
}
