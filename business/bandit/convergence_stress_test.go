//go:build !integration

package bandit

import (
	"context"
	"fmt"
	"math/rand"
	"testing"

	"myMealPlanner/domain"
)

// scenario params
const (
	stressNumRecipes   = 10
	stressNumRounds    = 2000
	stressTailWindow   = 500
	stressBestRecipe   = uint64(5)
	stressBestAccept   = 0.9
	stressOthersAccept = 0.2
)

func stressCatalog() []domain.Recipe {
	recipes := make([]domain.Recipe, 0, stressNumRecipes)
	for i := 1; i <= stressNumRecipes; i++ {
		recipes = append(recipes, domain.Recipe{
			ID:   uint64(i),
			Name: fmt.Sprintf("Recipe %d", i),
		})
	}
	return recipes
}

func TestConvergence_BestArmDominatesLateRounds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = 1
	svc := NewBanditService(nil, nil, nil, nil, nil, cfg)

	ctx := context.Background()
	catalog := stressCatalog()
	outcomes := rand.New(rand.NewSource(2))

	userID := uint(1)
	tailHits := 0

	for round := 0; round < stressNumRounds; round++ {
		picks, err := svc.SelectTop(ctx, userID, catalog, domain.MealContext{}, 1)
		if err != nil {
			t.Fatalf("round %d SelectTop: %v", round, err)
		}
		pick := picks[0].RecipeID

		acceptProb := stressOthersAccept
		if pick == stressBestRecipe {
			acceptProb = stressBestAccept
		}
		accepted := outcomes.Float64() < acceptProb

		if err := svc.RecordFeedback(ctx, userID, pick, accepted, nil); err != nil {
			t.Fatalf("round %d RecordFeedback: %v", round, err)
		}

		if round >= stressNumRounds-stressTailWindow && pick == stressBestRecipe {
			tailHits++
		}
	}

	us := svc.store.userArms(ctx, userID)
	best := us.arms[stressBestRecipe]
	t.Logf("best arm after %d rounds: alpha=%.1f beta=%.1f pulls=%d",
		stressNumRounds, best.Alpha, best.Beta, best.Pulls)

	share := float64(tailHits) / float64(stressTailWindow)
	t.Logf("best-arm share over final %d rounds: %.2f", stressTailWindow, share)

	if share < 0.6 {
		t.Errorf("bandit did not converge on the best arm: late share %.2f", share)
	}

	if er := best.expectedReward(); er < 0.7 {
		t.Errorf("best arm expected reward %.2f, want near its true 0.9 rate", er)
	}
}

func TestStateGrowth_CompactionBoundsMemory(t *testing.T) {
	const (
		capPerUser = 50
		numRecipes = 80
	)

	cfg := DefaultConfig()
	cfg.Seed = 3
	cfg.MaxArmsPerUser = capPerUser
	svc := NewBanditService(nil, nil, nil, nil, nil, cfg)

	ctx := context.Background()
	catalog := make([]domain.Recipe, 0, numRecipes)
	for i := 1; i <= numRecipes; i++ {
		catalog = append(catalog, domain.Recipe{
			ID:   uint64(i),
			Name: fmt.Sprintf("Recipe %d", i),
		})
	}

	userID := uint(1)
	if _, err := svc.SelectTop(ctx, userID, catalog, domain.MealContext{}, 5); err != nil {
		t.Fatalf("SelectTop: %v", err)
	}

	us := svc.store.userArms(ctx, userID)
	t.Logf("arms after selection over %d candidates: %d", numRecipes, len(us.arms))

	// the learning loop never evicts, even past the cap
	if err := svc.RecordFeedback(ctx, userID, 1, true, nil); err != nil {
		t.Fatalf("RecordFeedback: %v", err)
	}
	t.Logf("arms after feedback with cap %d: %d", capPerUser, len(us.arms))
	if len(us.arms) != numRecipes {
		t.Errorf("arm count %d after feedback, want all %d kept", len(us.arms), numRecipes)
	}

	// only the explicit maintenance pass enforces the cap
	evicted, err := svc.CompactArms(ctx, userID)
	if err != nil {
		t.Fatalf("CompactArms: %v", err)
	}
	t.Logf("compaction evicted %d arms, %d remain under cap %d", evicted, len(us.arms), capPerUser)
	if evicted != numRecipes-capPerUser {
		t.Errorf("evicted = %d, want %d", evicted, numRecipes-capPerUser)
	}
	if len(us.arms) != capPerUser {
		t.Errorf("arm count %d after compaction, want %d", len(us.arms), capPerUser)
	}

	// the arm that just received feedback is the warmest and must survive
	if _, ok := us.arms[1]; !ok {
		t.Error("most recently pulled arm was evicted")
	}
}
