package postgres

import (
	"context"
	"errors"
	"fmt"
	"myMealPlanner/business/planner"
	"myMealPlanner/domain"

	"gorm.io/gorm"
)

type PantryRepository struct {
	DB *gorm.DB
}

var _ planner.PantryRepository = (*PantryRepository)(nil)

func NewPantryRepository(db *gorm.DB) *PantryRepository {
	return &PantryRepository{
		DB: db,
	}
}

func (r *PantryRepository) Create(ctx context.Context, item *domain.PantryItem) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(item).Error; err != nil {
		return fmt.Errorf("failed to create pantry item: %w", err)
	}

	return nil
}

func (r *PantryRepository) ListByUser(ctx context.Context, userID uint) ([]domain.PantryItem, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var items []domain.PantryItem
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pantry items: %w", err)
	}

	return items, nil
}

func (r *PantryRepository) Delete(ctx context.Context, userID uint, id uint64) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	result := r.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&domain.PantryItem{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete pantry item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.New("pantry item not found")
	}

	return nil
}
