package bandit

import (
	"strings"
	"time"

	"myMealPlanner/business/recommend"
	"myMealPlanner/domain"
)

// Boost multipliers. Each rule is independent; products of several rules
// are possible and the result is clamped back into [0,1].
const (
	boostDietMatch      = 1.5
	boostBudgetMatch    = 1.3
	boostRecentProtein  = 0.7
	boostTraditionalSun = 1.2
	boostQuickWeekday   = 1.2
)

// contextualBoost reweights a Thompson sample with deterministic
// situational rules. It never re-randomizes: the same sample, features
// and context always produce the same boosted value.
func contextualBoost(sample float64, feats recommend.RecipeFeatures, mealCtx domain.MealContext) float64 {
	boosted := sample
	prefs := mealCtx.Preferences

	if dietBoostApplies(feats, prefs) {
		boosted *= boostDietMatch
	}

	if prefs.BudgetTier == domain.BudgetTierBudget && feats.Budget {
		boosted *= boostBudgetMatch
	}

	if feats.MainProtein != "" && containsFold(mealCtx.RecentProteins, feats.MainProtein) {
		boosted *= boostRecentProtein
	}

	if feats.Traditional && mealCtx.DayOfWeek == time.Sunday {
		boosted *= boostTraditionalSun
	}

	if feats.Quick && isWeekday(mealCtx.DayOfWeek) && strings.EqualFold(mealCtx.TargetMealType, domain.MealLunch) {
		boosted *= boostQuickWeekday
	}

	return clamp01(boosted)
}

// dietBoostApplies checks the hard restrictions the boost layer rewards:
// vegetarian (vegan users count, the vegetarian feature covers both) and
// gluten-free.
func dietBoostApplies(feats recommend.RecipeFeatures, prefs domain.UserPreferences) bool {
	if feats.Vegetarian && (prefs.HasDiet("vegetarian") || prefs.HasDiet("vegan")) {
		return true
	}
	if feats.GlutenFree && prefs.HasDiet("gluten-free") {
		return true
	}
	return false
}

func isWeekday(d time.Weekday) bool {
	return d != time.Saturday && d != time.Sunday
}

func containsFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
