package domain

// RecipeRecommendation is one ranked entry from Thompson selection.
type RecipeRecommendation struct {
	RecipeID   uint64  `json:"recipe_id"`
	RecipeName string  `json:"recipe_name"`
	Score      float64 `json:"score"`
}

// ArmInsight is the read-only per-arm view returned by the insights
// endpoint. Score is the ranking key: expected reward plus the weighted
// exploration value.
type ArmInsight struct {
	RecipeID         uint64  `json:"recipe_id"`
	RecipeName       string  `json:"recipe_name"`
	ExpectedReward   float64 `json:"expected_reward"`
	Uncertainty      float64 `json:"uncertainty"`
	ExplorationValue float64 `json:"exploration_value"`
	Pulls            int     `json:"pulls"`
	Successes        int     `json:"successes"`
	Score            float64 `json:"score"`
}
