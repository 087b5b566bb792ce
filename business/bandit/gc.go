package bandit

import (
	"context"
	"fmt"
	"sort"
	"time"

	"myMealPlanner/pkg/logger"
)

// CompactArms evicts a user's coldest arms down to the configured
// MaxArmsPerUser and flushes the surviving state. It is an explicit
// maintenance operation, never run on the feedback or selection paths:
// the learning loop only dilutes arms through prior decay. With the cap
// unset or zero it is a no-op. Returns the number of arms evicted.
func (s *BanditService) CompactArms(ctx context.Context, userID uint) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	cfg := s.loadConfig(ctx)
	if cfg.MaxArmsPerUser <= 0 {
		return 0, nil
	}

	us := s.store.userArms(ctx, userID)

	us.mu.Lock()
	evicted := capArms(us, cfg.MaxArmsPerUser)
	us.mu.Unlock()

	if evicted == 0 {
		return 0, nil
	}

	BanditArmsEvictedTotal.Add(float64(evicted))
	logger.Info("bandit_arms_compacted",
		"trace_id", TraceIDFromContext(ctx),
		"user_id", userID,
		"evicted", evicted,
		"max_arms", cfg.MaxArmsPerUser,
	)

	if err := s.store.flush(ctx, userID); err != nil {
		return evicted, fmt.Errorf("failed to save compacted state: %w", err)
	}
	return evicted, nil
}

// capArms evicts the coldest arms once a user exceeds maxArms and
// returns how many were dropped. Eviction order is least-recently-pulled,
// then fewest pulls. Caller holds the user's lock.
func capArms(us *userState, maxArms int) int {
	if us == nil || maxArms <= 0 {
		return 0
	}
	if len(us.arms) <= maxArms {
		return 0
	}

	type armInfo struct {
		recipeID   uint64
		lastPulled time.Time
		pulls      int
	}

	infos := make([]armInfo, 0, len(us.arms))
	for rid, arm := range us.arms {
		infos = append(infos, armInfo{
			recipeID:   rid,
			lastPulled: arm.LastPulled,
			pulls:      arm.Pulls,
		})
	}

	// Sort ascending: oldest & least-used first
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].lastPulled.Equal(infos[j].lastPulled) {
			return infos[i].pulls < infos[j].pulls
		}
		return infos[i].lastPulled.Before(infos[j].lastPulled)
	})

	toDrop := len(us.arms) - maxArms
	dropped := 0
	for i := 0; i < toDrop && i < len(infos); i++ {
		delete(us.arms, infos[i].recipeID)
		dropped++
	}
	return dropped
}
