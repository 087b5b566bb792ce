package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"myMealPlanner/business/bandit"
	"myMealPlanner/business/planner"
	"myMealPlanner/domain"

	"gorm.io/gorm"
)

// RecipeRepository reads the recipe catalog. The recommendation stack
// never writes recipes; the catalog is maintained out of band.
type RecipeRepository struct {
	DB *gorm.DB
}

var (
	_ bandit.RecipeRepository  = (*RecipeRepository)(nil)
	_ planner.RecipeRepository = (*RecipeRepository)(nil)
)

func NewRecipeRepository(db *gorm.DB) *RecipeRepository {
	return &RecipeRepository{
		DB: db,
	}
}

func (r *RecipeRepository) FindAll(ctx context.Context) ([]domain.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var recipes []domain.Recipe
	err := r.DB.WithContext(ctx).Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recipes: %w", err)
	}

	return recipes, nil
}

func (r *RecipeRepository) FindByIDs(ctx context.Context, ids []uint64) ([]domain.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	var recipes []domain.Recipe
	err := r.DB.WithContext(ctx).Where("id IN ?", ids).Find(&recipes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find recipes by ids: %w", err)
	}

	return recipes, nil
}

// FindByMealType matches on the jsonb tags column. Meal types live in
// the tags array alongside free-form tags.
func (r *RecipeRepository) FindByMealType(ctx context.Context, mealType string, limit int) ([]domain.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	tag, err := json.Marshal([]string{mealType})
	if err != nil {
		return nil, fmt.Errorf("failed to encode meal type: %w", err)
	}

	query := r.DB.WithContext(ctx).Where("tags @> ?::jsonb", string(tag))
	if limit > 0 {
		query = query.Limit(limit)
	}

	var recipes []domain.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return nil, fmt.Errorf("failed to find recipes by meal type: %w", err)
	}

	return recipes, nil
}
