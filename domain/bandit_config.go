package domain

import "time"

// BanditConfig is a stored override of the bandit tuning parameters.
// One row per profile; the service falls back to compiled defaults when
// no row exists. The jitter bound and evidence threshold are heuristic
// carry-overs pending calibration, which is why they live here rather
// than as constants.
type BanditConfig struct {
	Profile string `json:"profile" gorm:"column:profile;primaryKey"`

	JitterBound       float64 `json:"jitter_bound" gorm:"column:jitter_bound"`
	EvidenceThreshold float64 `json:"evidence_threshold" gorm:"column:evidence_threshold"`
	PriorDecay        float64 `json:"prior_decay" gorm:"column:prior_decay"`
	PriorStep         float64 `json:"prior_step" gorm:"column:prior_step"`
	ExplorationWeight float64 `json:"exploration_weight" gorm:"column:exploration_weight"`
	MaxArmsPerUser    int     `json:"max_arms_per_user" gorm:"column:max_arms_per_user"`

	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at;autoUpdateTime"`
}

func (BanditConfig) TableName() string {
	return "bandit_configs"
}
