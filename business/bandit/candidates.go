package bandit

import (
	"context"
	"fmt"

	"myMealPlanner/business/recommend"
	"myMealPlanner/domain"
)

// loadCandidates pulls the candidate pool for a meal type, over-fetching
// threefold so selection has room to explore. An empty meal-type result
// falls back to the whole catalog rather than returning nothing.
func (s *BanditService) loadCandidates(
	ctx context.Context,
	mealType string,
	limit int,
) ([]domain.Recipe, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	candidateLimit := limit * 3
	if candidateLimit < limit {
		candidateLimit = limit
	}

	if mealType != "" {
		rows, err := s.recipeRepo.FindByMealType(ctx, mealType, candidateLimit)
		if err != nil {
			return nil, fmt.Errorf("load candidates by meal type: %w", err)
		}
		if len(rows) > 0 {
			return rows, nil
		}
	}

	rows, err := s.recipeRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load recipe catalog: %w", err)
	}
	return rows, nil
}

// screenCandidates drops recipes the preference scorer hard-gates, so the
// bandit never samples a recipe that violates a dietary restriction or
// contains an excluded or allergen ingredient. Only the gates can zero a
// score; every recipe that clears them scores above zero.
func screenCandidates(candidates []domain.Recipe, prefs domain.UserPreferences) []domain.Recipe {
	if len(prefs.DietaryRestrictions) == 0 &&
		len(prefs.ExcludedIngredients) == 0 &&
		len(prefs.Allergies) == 0 {
		return candidates
	}

	kept := make([]domain.Recipe, 0, len(candidates))
	for _, recipe := range candidates {
		if recommend.Score(recipe, prefs, nil) == 0 {
			continue
		}
		kept = append(kept, recipe)
	}
	return kept
}
