package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"myMealPlanner/business/bandit"
	"myMealPlanner/domain"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BanditRepository persists the two bandit collaborators: the per-user
// state blob and the append-only feedback event log.
type BanditRepository struct {
	DB *gorm.DB
}

var (
	_ bandit.StateRepository         = (*BanditRepository)(nil)
	_ bandit.FeedbackEventRepository = (*BanditRepository)(nil)
)

func NewBanditRepository(db *gorm.DB) *BanditRepository {
	return &BanditRepository{DB: db}
}

// ---- Events ----

func (r *BanditRepository) SaveEvent(ctx context.Context, event domain.FeedbackEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to save feedback event: %w", err)
	}

	return nil
}

func (r *BanditRepository) RecentByUser(ctx context.Context, userID uint, since time.Time) ([]domain.FeedbackEvent, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var events []domain.FeedbackEvent
	err := r.DB.WithContext(ctx).
		Where("user_id = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback events: %w", err)
	}

	return events, nil
}

// ---- State ----

type banditStateRow struct {
	UserID    uint      `gorm:"column:user_id;primaryKey"`
	StateJSON []byte    `gorm:"column:state_json"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (banditStateRow) TableName() string {
	return "bandit_state"
}

func (r *BanditRepository) GetState(ctx context.Context, userID uint) (*bandit.SavedState, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var row banditStateRow
	err := r.DB.WithContext(ctx).First(&row, "user_id = ?", userID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query bandit_state: %w", err)
	}

	var state bandit.SavedState
	if err := json.Unmarshal(row.StateJSON, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state_json: %w", err)
	}

	return &state, nil
}

func (r *BanditRepository) SaveState(ctx context.Context, userID uint, state *bandit.SavedState) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	raw, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	row := banditStateRow{
		UserID:    userID,
		StateJSON: raw,
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			UpdateAll: true,
		},
	).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to upsert bandit_state: %w", err)
	}

	return nil
}
