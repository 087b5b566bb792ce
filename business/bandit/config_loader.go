package bandit

import (
	"context"
)

// loadConfig reads the stored override for the default profile, falling
// back to the service's compiled config when there is no repository, no
// row, or a read error. Overrides are merged field by field so a partial
// row keeps sane values everywhere else.
func (s *BanditService) loadConfig(ctx context.Context) Config {
	if s.cfgRepo == nil {
		return s.defaultCfg.normalized()
	}

	row, ok, err := s.cfgRepo.GetConfig(ctx, ConfigProfileDefault)
	if err != nil || !ok {
		return s.defaultCfg.normalized()
	}

	cfg := s.defaultCfg
	if row.JitterBound > 0 {
		cfg.JitterBound = row.JitterBound
	}
	if row.EvidenceThreshold > 0 {
		cfg.EvidenceThreshold = row.EvidenceThreshold
	}
	if row.PriorDecay > 0 {
		cfg.PriorDecay = row.PriorDecay
	}
	if row.PriorStep > 0 {
		cfg.PriorStep = row.PriorStep
	}
	if row.ExplorationWeight > 0 {
		cfg.ExplorationWeight = row.ExplorationWeight
	}
	if row.MaxArmsPerUser > 0 {
		cfg.MaxArmsPerUser = row.MaxArmsPerUser
	}

	return cfg.normalized()
}
