package postgres

import (
	"context"
	"errors"
	"fmt"

	"myMealPlanner/business/bandit"
	"myMealPlanner/business/planner"
	"myMealPlanner/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PreferenceRepository reads and writes the user_preferences table.
// Users who never saved preferences read back as the zero value, not an
// error; every consumer treats zero preferences as "no constraints".
type PreferenceRepository struct {
	DB *gorm.DB
}

var (
	_ bandit.PreferenceRepository  = (*PreferenceRepository)(nil)
	_ planner.PreferenceRepository = (*PreferenceRepository)(nil)
)

func NewPreferenceRepository(db *gorm.DB) *PreferenceRepository {
	return &PreferenceRepository{DB: db}
}

func (r *PreferenceRepository) GetPreferences(ctx context.Context, userID uint) (domain.UserPreferences, error) {
	if err := ctx.Err(); err != nil {
		return domain.UserPreferences{}, fmt.Errorf("context error: %w", err)
	}

	var prefs domain.UserPreferences
	err := r.DB.WithContext(ctx).First(&prefs, "user_id = ?", userID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.UserPreferences{}, nil
	}
	if err != nil {
		return domain.UserPreferences{}, fmt.Errorf("failed to query user_preferences: %w", err)
	}

	return prefs, nil
}

func (r *PreferenceRepository) UpsertPreferences(ctx context.Context, prefs domain.UserPreferences) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		},
	).Create(&prefs).Error; err != nil {
		return fmt.Errorf("failed to upsert user_preferences: %w", err)
	}

	return nil
}
