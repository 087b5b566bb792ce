package postgres

import (
	"context"
	"fmt"
	"myMealPlanner/business/bandit"
	"myMealPlanner/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BanditConfigRepository struct {
	DB *gorm.DB
}

var _ bandit.ConfigRepository = (*BanditConfigRepository)(nil)

func NewBanditConfigRepository(db *gorm.DB) *BanditConfigRepository {
	return &BanditConfigRepository{DB: db}
}

func (r *BanditConfigRepository) GetConfig(ctx context.Context, profile string) (domain.BanditConfig, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.BanditConfig{}, false, fmt.Errorf("context error: %w", err)
	}

	var cfg domain.BanditConfig
	err := r.DB.WithContext(ctx).
		Where("profile = ?", profile).
		First(&cfg).Error
	if err == gorm.ErrRecordNotFound {
		return domain.BanditConfig{}, false, nil
	}
	if err != nil {
		return domain.BanditConfig{}, false, err
	}

	return cfg, true, nil
}

func (r *BanditConfigRepository) UpsertConfig(ctx context.Context, cfg domain.BanditConfig) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "profile"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"jitter_bound",
				"evidence_threshold",
				"prior_decay",
				"prior_step",
				"exploration_weight",
				"max_arms_per_user",
				"updated_at",
			}),
		}).
		Create(&cfg).Error
}
