package domain

import (
	"strings"
	"time"
)

// CREATE TABLE public.recipes (
//     id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
//     name            TEXT NOT NULL,
//     cuisine         TEXT,
//     difficulty      TEXT,
//     tags            JSONB,
//     ingredients     JSONB,
//     instructions    JSONB,
//     servings        INT,
//     estimated_cost  NUMERIC,
//     calories        NUMERIC,
//     spice_level     INT,
//     prep_minutes    INT,
//     cook_minutes    INT,
//     rating          NUMERIC,
//     is_favorite     BOOLEAN,
//     created_at      TIMESTAMPTZ DEFAULT NOW()
// );

type Ingredient struct {
	Name     string  `json:"name"`
	Amount   float64 `json:"amount"`
	Unit     string  `json:"unit"`
	Category string  `json:"category,omitempty"`
}

type Recipe struct {
	ID            uint64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name          string       `gorm:"column:name;type:text;not null" json:"name"`
	Cuisine       string       `gorm:"column:cuisine;type:text" json:"cuisine"`
	Difficulty    string       `gorm:"column:difficulty;type:text" json:"difficulty"`
	Tags          []string     `gorm:"column:tags;type:jsonb;serializer:json" json:"tags"`
	Ingredients   []Ingredient `gorm:"column:ingredients;type:jsonb;serializer:json" json:"ingredients"`
	Instructions  []string     `gorm:"column:instructions;type:jsonb;serializer:json" json:"instructions"`
	Servings      int          `gorm:"column:servings" json:"servings"`
	EstimatedCost float64      `gorm:"column:estimated_cost;type:numeric" json:"estimated_cost"`
	Calories      float64      `gorm:"column:calories;type:numeric" json:"calories"`
	SpiceLevel    int          `gorm:"column:spice_level" json:"spice_level"`
	PrepMinutes   int          `gorm:"column:prep_minutes" json:"prep_minutes"`
	CookMinutes   int          `gorm:"column:cook_minutes" json:"cook_minutes"`
	Rating        float64      `gorm:"column:rating;type:numeric" json:"rating"`
	IsFavorite    bool         `gorm:"column:is_favorite;default:false" json:"is_favorite"`
	CreatedAt     time.Time    `gorm:"column:created_at" json:"created_at"`
}

func (Recipe) TableName() string {
	return "recipes"
}

// TotalMinutes is prep plus cook time; recipes missing both report 0.
func (r Recipe) TotalMinutes() int {
	return r.PrepMinutes + r.CookMinutes
}

// HasTag reports whether the recipe carries the tag, case-insensitively.
func (r Recipe) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
