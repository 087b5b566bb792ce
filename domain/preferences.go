package domain

import (
	"strings"
	"time"
)

// Skill levels understood by the preference scorer.
const (
	SkillBeginner     = "beginner"
	SkillIntermediate = "intermediate"
	SkillAdvanced     = "advanced"
)

// Budget tiers. Only BudgetTierBudget changes scoring behavior.
const (
	BudgetTierBudget   = "budget"
	BudgetTierModerate = "moderate"
	BudgetTierPremium  = "premium"
)

type UserPreferences struct {
	UserID               uint     `gorm:"column:user_id;primaryKey" json:"user_id"`
	DietaryRestrictions  []string `gorm:"column:dietary_restrictions;type:jsonb;serializer:json" json:"dietary_restrictions"`
	Allergies            []string `gorm:"column:allergies;type:jsonb;serializer:json" json:"allergies"`
	ExcludedIngredients  []string `gorm:"column:excluded_ingredients;type:jsonb;serializer:json" json:"excluded_ingredients"`
	PreferredIngredients []string `gorm:"column:preferred_ingredients;type:jsonb;serializer:json" json:"preferred_ingredients"`
	PreferredCuisines    []string `gorm:"column:preferred_cuisines;type:jsonb;serializer:json" json:"preferred_cuisines"`
	SkillLevel           string   `gorm:"column:skill_level;type:text" json:"skill_level"`
	MaxCookingMinutes    int      `gorm:"column:max_cooking_minutes" json:"max_cooking_minutes"`
	SpicePreference      int      `gorm:"column:spice_preference" json:"spice_preference"`
	BudgetTier           string   `gorm:"column:budget_tier;type:text" json:"budget_tier"`
	PreferVariety        bool     `gorm:"column:prefer_variety;default:true" json:"prefer_variety"`
	SeasonalPreference   bool     `gorm:"column:seasonal_preference;default:false" json:"seasonal_preference"`
	UsePantry            bool     `gorm:"column:use_pantry;default:false" json:"use_pantry"`

	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (UserPreferences) TableName() string {
	return "user_preferences"
}

// HasDiet reports whether the user declared the restriction, case-insensitively.
func (p UserPreferences) HasDiet(diet string) bool {
	for _, d := range p.DietaryRestrictions {
		if strings.EqualFold(d, diet) {
			return true
		}
	}
	return false
}

// MealContext carries the situational inputs for one recommendation or
// scoring pass. It is assembled per request and never stored. A nil or
// zero-value context degrades every consumer to its context-free behavior.
type MealContext struct {
	UserID         uint            `json:"user_id"`
	Preferences    UserPreferences `json:"preferences"`
	Season         string          `json:"season"`
	DayOfWeek      time.Weekday    `json:"day_of_week"`
	TargetMealType string          `json:"target_meal_type"`

	// Recent-meals window, last 7 days, used for de-duplication.
	RecentProteins []string `json:"recent_proteins,omitempty"`
	RecentCuisines []string `json:"recent_cuisines,omitempty"`

	// Week under construction, used by the variety sub-score.
	ExistingMeals []Recipe `json:"-"`

	// On-hand pantry item names, used by the pantry sub-score.
	PantryItems []string `json:"pantry_items,omitempty"`
}

// SeasonOf maps a point in time to the northern-hemisphere season names
// used by the seasonal ingredient lists.
func SeasonOf(t time.Time) string {
	switch t.Month() {
	case time.March, time.April, time.May:
		return "spring"
	case time.June, time.July, time.August:
		return "summer"
	case time.September, time.October, time.November:
		return "autumn"
	default:
		return "winter"
	}
}
