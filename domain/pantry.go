package domain

import (
	"time"
)

// CREATE TABLE public.pantry_items (
//     id          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     user_id     BIGINT NOT NULL,
//     name        TEXT NOT NULL,
//     quantity    NUMERIC,
//     unit        TEXT,
//     category    TEXT,
//     created_at  TIMESTAMPTZ DEFAULT NOW()
// );

type PantryItem struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    uint      `gorm:"column:user_id;not null" json:"user_id"`
	Name      string    `gorm:"column:name;type:text;not null" json:"name"`
	Quantity  float64   `gorm:"column:quantity;type:numeric" json:"quantity"`
	Unit      string    `gorm:"column:unit;type:text" json:"unit"`
	Category  string    `gorm:"column:category;type:text" json:"category"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
}

func (PantryItem) TableName() string {
	return "pantry_items"
}
