package bandit

import (
	"context"

	"myMealPlanner/domain"
)

// Config carries the bandit tuning parameters. JitterBound and
// EvidenceThreshold are heuristics carried over without a derivation;
// they are parameters rather than constants so they can be recalibrated
// from stored overrides without a deploy.
type Config struct {
	// jitter applied around the posterior mean for well-evidenced arms
	JitterBound float64
	// alpha+beta above which the mean+jitter shortcut replaces sampling
	EvidenceThreshold float64

	// global prior decay factor and outcome nudge per feedback event
	PriorDecay float64
	PriorStep  float64

	// weight of the exploration value in the insights ranking
	ExplorationWeight float64

	// per-user arm cap enforced only by explicit compaction; 0 disables it
	MaxArmsPerUser int

	// entropy seed; 0 means time-seeded
	Seed int64
}

const (
	defaultJitterBound       = 0.05
	defaultEvidenceThreshold = 30.0
	defaultPriorDecay        = 0.99
	defaultPriorStep         = 0.01
	defaultExplorationWeight = 0.1
)

func DefaultConfig() Config {
	return Config{
		JitterBound:       defaultJitterBound,
		EvidenceThreshold: defaultEvidenceThreshold,
		PriorDecay:        defaultPriorDecay,
		PriorStep:         defaultPriorStep,
		ExplorationWeight: defaultExplorationWeight,
	}
}

// normalized fills zero or nonsensical fields with defaults so a partial
// override cannot disable sampling. MaxArmsPerUser is the exception:
// zero is a valid value meaning no cap, so only negatives are reset.
func (c Config) normalized() Config {
	d := DefaultConfig()
	if c.JitterBound <= 0 {
		c.JitterBound = d.JitterBound
	}
	if c.EvidenceThreshold <= 0 {
		c.EvidenceThreshold = d.EvidenceThreshold
	}
	if c.PriorDecay <= 0 || c.PriorDecay > 1 {
		c.PriorDecay = d.PriorDecay
	}
	if c.PriorStep <= 0 {
		c.PriorStep = d.PriorStep
	}
	if c.ExplorationWeight < 0 {
		c.ExplorationWeight = d.ExplorationWeight
	}
	if c.MaxArmsPerUser < 0 {
		c.MaxArmsPerUser = 0
	}
	return c
}

// ConfigProfileDefault is the profile row the service reads overrides from.
const ConfigProfileDefault = "default"

// ConfigRepository reads and writes stored tuning overrides.
type ConfigRepository interface {
	GetConfig(ctx context.Context, profile string) (domain.BanditConfig, bool, error)
	UpsertConfig(ctx context.Context, cfg domain.BanditConfig) error
}
