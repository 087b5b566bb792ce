package domain

import (
	"time"

	"gorm.io/datatypes"
)

// FeedbackEvent is the append-only log of recommendation feedback. The
// recent-meals window is derived from accepted events in the last week.
type FeedbackEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"column:user_id;not null" json:"user_id"`
	RecipeID  uint64    `gorm:"column:recipe_id;not null" json:"recipe_id"`
	Accepted  bool      `gorm:"column:accepted;not null" json:"accepted"`
	Success   bool      `gorm:"column:success;not null" json:"success"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Context datatypes.JSONMap `gorm:"column:context;type:jsonb" json:"context"`
}

func (FeedbackEvent) TableName() string {
	return "feedback_events"
}

// FeedbackMetadata is the optional detail attached to a feedback call.
// Rating outranks WouldRepeat, which outranks the raw accepted flag,
// when deciding whether the event counts as a success.
type FeedbackMetadata struct {
	Rating         *int     `json:"rating,omitempty" validate:"omitempty,min=1,max=5"`
	CookingMinutes *int     `json:"cooking_minutes,omitempty"`
	WouldRepeat    *bool    `json:"would_repeat,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}
