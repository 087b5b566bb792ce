package bandit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"myMealPlanner/domain"
)

type fakeRecipeRepo struct {
	recipes []domain.Recipe
}

var _ RecipeRepository = (*fakeRecipeRepo)(nil)

func (f *fakeRecipeRepo) FindAll(_ context.Context) ([]domain.Recipe, error) {
	return f.recipes, nil
}

func (f *fakeRecipeRepo) FindByIDs(_ context.Context, ids []uint64) ([]domain.Recipe, error) {
	want := make(map[uint64]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []domain.Recipe
	for _, r := range f.recipes {
		if want[r.ID] {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRecipeRepo) FindByMealType(_ context.Context, mealType string, limit int) ([]domain.Recipe, error) {
	var out []domain.Recipe
	for _, r := range f.recipes {
		if r.HasTag(mealType) {
			out = append(out, r)
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

type fakePrefRepo struct {
	prefs domain.UserPreferences
	err   error
}

var _ PreferenceRepository = (*fakePrefRepo)(nil)

func (f *fakePrefRepo) GetPreferences(_ context.Context, _ uint) (domain.UserPreferences, error) {
	return f.prefs, f.err
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events []domain.FeedbackEvent
	err    error
}

var _ FeedbackEventRepository = (*fakeEventRepo)(nil)

func (f *fakeEventRepo) SaveEvent(_ context.Context, event domain.FeedbackEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakeEventRepo) RecentByUser(_ context.Context, userID uint, _ time.Time) ([]domain.FeedbackEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []domain.FeedbackEvent
	for _, ev := range f.events {
		if ev.UserID == userID {
			out = append(out, ev)
		}
	}
	return out, nil
}

func testCandidates() []domain.Recipe {
	return []domain.Recipe{
		{ID: 1, Name: "Ayam Bakar", Cuisine: "indonesian", Tags: []string{"dinner"}, PrepMinutes: 20, CookMinutes: 40},
		{ID: 2, Name: "Gado Gado", Cuisine: "indonesian", Tags: []string{"lunch"}, PrepMinutes: 15, CookMinutes: 10},
		{ID: 3, Name: "Beef Rendang", Cuisine: "indonesian", Tags: []string{"dinner"}, PrepMinutes: 30, CookMinutes: 180},
	}
}

func newTestService(stateRepo StateRepository) *BanditService {
	cfg := DefaultConfig()
	cfg.Seed = 42
	return NewBanditService(stateRepo, nil, nil, nil, nil, cfg)
}

func TestSelectTopCreatesColdArms(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	out, err := svc.SelectTop(ctx, 42, testCandidates(), domain.MealContext{}, 2)
	if err != nil {
		t.Fatalf("SelectTop: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d recommendations, want 2", len(out))
	}
	if out[0].RecipeID == out[1].RecipeID {
		t.Error("duplicate recipe in selection")
	}

	us := svc.store.userArms(ctx, 42)
	if len(us.arms) != 3 {
		t.Fatalf("got %d arms, want one per candidate", len(us.arms))
	}
	for id, arm := range us.arms {
		if arm.Pulls != 0 {
			t.Errorf("arm %d: selection must not count as a pull, pulls = %d", id, arm.Pulls)
		}
		if arm.Alpha != 1 || arm.Beta != 1 {
			t.Errorf("arm %d: cold arm must start at Beta(1,1), got (%v,%v)", id, arm.Alpha, arm.Beta)
		}
	}
}

func TestSelectTopKLargerThanPool(t *testing.T) {
	svc := newTestService(nil)

	out, err := svc.SelectTop(context.Background(), 1, testCandidates(), domain.MealContext{}, 50)
	if err != nil {
		t.Fatalf("SelectTop: %v", err)
	}
	if len(out) != 3 {
		t.Errorf("got %d recommendations, want all 3 candidates", len(out))
	}
}

func TestSelectTopEmptyCandidates(t *testing.T) {
	svc := newTestService(nil)

	out, err := svc.SelectTop(context.Background(), 1, nil, domain.MealContext{}, 5)
	if err != nil {
		t.Fatalf("SelectTop: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("got %d recommendations from an empty pool", len(out))
	}
}

func TestSelectTopCancelledContext(t *testing.T) {
	svc := newTestService(nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.SelectTop(ctx, 1, testCandidates(), domain.MealContext{}, 5); err == nil {
		t.Error("cancelled context must fail")
	}
}

func TestRecordFeedbackMonotonic(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	if _, err := svc.SelectTop(ctx, 7, testCandidates(), domain.MealContext{}, 3); err != nil {
		t.Fatalf("SelectTop: %v", err)
	}

	for i := 0; i < 5; i++ {
		if err := svc.RecordFeedback(ctx, 7, 1, true, nil); err != nil {
			t.Fatalf("RecordFeedback: %v", err)
		}
	}

	arm := svc.store.userArms(ctx, 7).arms[1]
	if arm.Alpha != 6 || arm.Beta != 1 {
		t.Errorf("after 5 successes: alpha=%v beta=%v, want 6 and 1", arm.Alpha, arm.Beta)
	}
	if arm.Pulls != 5 || arm.Successes != 5 {
		t.Errorf("pulls=%d successes=%d, want 5 and 5", arm.Pulls, arm.Successes)
	}
	if arm.LastPulled.IsZero() {
		t.Error("LastPulled not stamped")
	}

	prior := svc.store.priorSnapshot()
	if prior == defaultPrior() {
		t.Error("global prior did not move after feedback")
	}
}

func TestRecordFeedbackRejection(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	svc.SelectTop(ctx, 7, testCandidates(), domain.MealContext{}, 3)
	if err := svc.RecordFeedback(ctx, 7, 2, false, nil); err != nil {
		t.Fatalf("RecordFeedback: %v", err)
	}

	arm := svc.store.userArms(ctx, 7).arms[2]
	if arm.Alpha != 1 || arm.Beta != 2 {
		t.Errorf("after rejection: alpha=%v beta=%v, want 1 and 2", arm.Alpha, arm.Beta)
	}
	if arm.Successes != 0 {
		t.Errorf("successes = %d, want 0", arm.Successes)
	}
}

func TestRecordFeedbackOutcomeResolution(t *testing.T) {
	rating := func(n int) *int { return &n }
	boolp := func(b bool) *bool { return &b }

	tests := []struct {
		name        string
		accepted    bool
		meta        *domain.FeedbackMetadata
		wantSuccess bool
	}{
		{"accepted alone", true, nil, true},
		{"rejected alone", false, nil, false},
		{"low rating overrides accept", true, &domain.FeedbackMetadata{Rating: rating(2)}, false},
		{"high rating overrides reject", false, &domain.FeedbackMetadata{Rating: rating(5)}, true},
		{"rating four is a success", false, &domain.FeedbackMetadata{Rating: rating(4)}, true},
		{"would repeat overrides reject", false, &domain.FeedbackMetadata{WouldRepeat: boolp(true)}, true},
		{"would not repeat overrides accept", true, &domain.FeedbackMetadata{WouldRepeat: boolp(false)}, false},
		{"rating outranks would repeat", true, &domain.FeedbackMetadata{Rating: rating(1), WouldRepeat: boolp(true)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveSuccess(tt.accepted, tt.meta); got != tt.wantSuccess {
				t.Errorf("resolveSuccess() = %v, want %v", got, tt.wantSuccess)
			}
		})
	}
}

func TestRecordFeedbackUnknownArm(t *testing.T) {
	events := &fakeEventRepo{}
	cfg := DefaultConfig()
	cfg.Seed = 42
	svc := NewBanditService(nil, nil, nil, events, nil, cfg)
	ctx := context.Background()

	if err := svc.RecordFeedback(ctx, 3, 999, true, nil); err != nil {
		t.Fatalf("unknown arm must be a no-op, got error: %v", err)
	}

	if len(svc.store.userArms(ctx, 3).arms) != 0 {
		t.Error("unknown-arm feedback must not create an arm")
	}
	if len(events.events) != 0 {
		t.Error("unknown-arm feedback must not log an event")
	}
	if p := svc.store.priorSnapshot(); p != defaultPrior() {
		t.Errorf("unknown-arm feedback must not move the prior: %+v", p)
	}
}

func TestRecordFeedbackRequiresRecipeID(t *testing.T) {
	svc := newTestService(nil)
	if err := svc.RecordFeedback(context.Background(), 1, 0, true, nil); err == nil {
		t.Error("recipe_id 0 must fail")
	}
}

func TestRecordFeedbackAppendsEvent(t *testing.T) {
	events := &fakeEventRepo{}
	cfg := DefaultConfig()
	cfg.Seed = 42
	svc := NewBanditService(nil, nil, nil, events, nil, cfg)
	ctx := context.Background()

	svc.SelectTop(ctx, 7, testCandidates(), domain.MealContext{}, 3)

	rating := 5
	meta := &domain.FeedbackMetadata{Rating: &rating}
	if err := svc.RecordFeedback(ctx, 7, 3, true, meta); err != nil {
		t.Fatalf("RecordFeedback: %v", err)
	}

	if len(events.events) != 1 {
		t.Fatalf("got %d events, want 1", len(events.events))
	}
	ev := events.events[0]
	if ev.UserID != 7 || ev.RecipeID != 3 || !ev.Accepted || !ev.Success {
		t.Errorf("event = %+v", ev)
	}
	if ev.Context["main_protein"] != "beef" {
		t.Errorf("event context main_protein = %v, want beef", ev.Context["main_protein"])
	}
	if ev.Context["rating"] != 5 {
		t.Errorf("event context rating = %v, want 5", ev.Context["rating"])
	}
}

func TestRecordFeedbackKeepsAllArms(t *testing.T) {
	// Cap configured below the arm count. Feedback must still never
	// evict; only CompactArms enforces the cap.
	cfgRepo := &fakeConfigRepo{cfg: domain.BanditConfig{
		Profile:        ConfigProfileDefault,
		MaxArmsPerUser: 2,
	}, found: true}
	cfg := DefaultConfig()
	cfg.Seed = 42
	svc := NewBanditService(nil, nil, nil, nil, cfgRepo, cfg)
	ctx := context.Background()

	if _, err := svc.SelectTop(ctx, 9, testCandidates(), domain.MealContext{}, 3); err != nil {
		t.Fatalf("SelectTop: %v", err)
	}
	if err := svc.RecordFeedback(ctx, 9, 1, true, nil); err != nil {
		t.Fatalf("RecordFeedback: %v", err)
	}

	if got := len(svc.store.userArms(ctx, 9).arms); got != 3 {
		t.Errorf("got %d arms after feedback, want all 3 kept", got)
	}
}

func TestStateRoundTrip(t *testing.T) {
	repo := newFakeStateRepo()
	ctx := context.Background()

	first := newTestService(repo)
	first.SelectTop(ctx, 11, testCandidates(), domain.MealContext{}, 3)
	first.RecordFeedback(ctx, 11, 1, true, nil)
	first.RecordFeedback(ctx, 11, 1, true, nil)
	first.RecordFeedback(ctx, 11, 2, false, nil)

	fresh := newTestService(repo)
	restored := fresh.store.userArms(ctx, 11)
	original := first.store.userArms(ctx, 11)

	if len(restored.arms) != len(original.arms) {
		t.Fatalf("restored %d arms, want %d", len(restored.arms), len(original.arms))
	}
	for id, want := range original.arms {
		got := restored.arms[id]
		if got == nil {
			t.Fatalf("arm %d missing after restart", id)
		}
		if got.Alpha != want.Alpha || got.Beta != want.Beta ||
			got.Pulls != want.Pulls || got.Successes != want.Successes {
			t.Errorf("arm %d: got (%v,%v,%d,%d), want (%v,%v,%d,%d)",
				id, got.Alpha, got.Beta, got.Pulls, got.Successes,
				want.Alpha, want.Beta, want.Pulls, want.Successes)
		}
	}

	if fresh.store.priorSnapshot() != first.store.priorSnapshot() {
		t.Errorf("prior after restart = %+v, want %+v",
			fresh.store.priorSnapshot(), first.store.priorSnapshot())
	}
}

func TestSaveFailureKeepsMemoryAuthoritative(t *testing.T) {
	repo := newFakeStateRepo()
	repo.failSave = true
	svc := newTestService(repo)
	ctx := context.Background()

	svc.SelectTop(ctx, 5, testCandidates(), domain.MealContext{}, 3)
	if err := svc.RecordFeedback(ctx, 5, 1, true, nil); err != nil {
		t.Fatalf("save failure must not surface: %v", err)
	}

	arm := svc.store.userArms(ctx, 5).arms[1]
	if arm.Alpha != 2 || arm.Pulls != 1 {
		t.Errorf("in-memory update lost on save failure: %+v", arm)
	}

	// Once the repo recovers, the next flush carries both updates.
	repo.mu.Lock()
	repo.failSave = false
	repo.mu.Unlock()

	if err := svc.RecordFeedback(ctx, 5, 1, true, nil); err != nil {
		t.Fatalf("RecordFeedback: %v", err)
	}

	saved := repo.states[5]
	if saved == nil {
		t.Fatal("state not persisted after repo recovered")
	}
	for _, arm := range saved.Arms {
		if arm.RecipeID == 1 {
			if arm.Alpha != 3 || arm.Pulls != 2 {
				t.Errorf("persisted arm = %+v, want both feedback events applied", arm)
			}
			return
		}
	}
	t.Error("arm 1 missing from persisted state")
}

func TestCompactArmsDisabledWithoutCap(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	if _, err := svc.SelectTop(ctx, 12, testCandidates(), domain.MealContext{}, 3); err != nil {
		t.Fatalf("SelectTop: %v", err)
	}

	evicted, err := svc.CompactArms(ctx, 12)
	if err != nil {
		t.Fatalf("CompactArms: %v", err)
	}
	if evicted != 0 {
		t.Errorf("evicted %d arms with no cap configured, want 0", evicted)
	}
	if got := len(svc.store.userArms(ctx, 12).arms); got != 3 {
		t.Errorf("got %d arms, want 3 untouched", got)
	}
}

func TestCompactArmsFlushesSurvivors(t *testing.T) {
	repo := newFakeStateRepo()
	cfgRepo := &fakeConfigRepo{cfg: domain.BanditConfig{
		Profile:        ConfigProfileDefault,
		MaxArmsPerUser: 2,
	}, found: true}
	cfg := DefaultConfig()
	cfg.Seed = 42
	svc := NewBanditService(repo, nil, nil, nil, cfgRepo, cfg)
	ctx := context.Background()

	svc.SelectTop(ctx, 14, testCandidates(), domain.MealContext{}, 3)
	// Warm two arms so the never-pulled third is the coldest.
	svc.RecordFeedback(ctx, 14, 1, true, nil)
	svc.RecordFeedback(ctx, 14, 2, false, nil)

	evicted, err := svc.CompactArms(ctx, 14)
	if err != nil {
		t.Fatalf("CompactArms: %v", err)
	}
	if evicted != 1 {
		t.Fatalf("evicted = %d, want 1", evicted)
	}

	us := svc.store.userArms(ctx, 14)
	if len(us.arms) != 2 {
		t.Fatalf("got %d arms after compaction, want 2", len(us.arms))
	}
	if us.arms[3] != nil {
		t.Error("cold arm 3 survived compaction")
	}

	saved := repo.states[14]
	if saved == nil {
		t.Fatal("compacted state not persisted")
	}
	if len(saved.Arms) != 2 {
		t.Errorf("persisted %d arms, want 2", len(saved.Arms))
	}
	for _, arm := range saved.Arms {
		if arm.RecipeID == 3 {
			t.Error("evicted arm present in persisted state")
		}
	}
}

func TestGetRecommendationsReadOnly(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	insights, err := svc.GetRecommendations(ctx, 21, testCandidates(), domain.MealContext{})
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(insights) != 3 {
		t.Fatalf("got %d insights, want 3", len(insights))
	}

	if len(svc.store.userArms(ctx, 21).arms) != 0 {
		t.Error("insights must not materialize arms")
	}

	for _, in := range insights {
		if in.ExpectedReward != 0.5 {
			t.Errorf("cold insight expected reward = %v, want 0.5", in.ExpectedReward)
		}
		if in.ExplorationValue != 1.0 {
			t.Errorf("cold insight exploration value = %v, want 1.0", in.ExplorationValue)
		}
	}
}

func TestWarmArmOutranksCold(t *testing.T) {
	svc := newTestService(nil)
	ctx := context.Background()

	svc.SelectTop(ctx, 8, testCandidates(), domain.MealContext{}, 3)
	for i := 0; i < 8; i++ {
		svc.RecordFeedback(ctx, 8, 3, true, nil)
	}
	for i := 0; i < 2; i++ {
		svc.RecordFeedback(ctx, 8, 3, false, nil)
	}

	insights, err := svc.GetRecommendations(ctx, 8, testCandidates(), domain.MealContext{})
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}

	if insights[0].RecipeID != 3 {
		t.Fatalf("top insight = recipe %d, want the 8/10 arm", insights[0].RecipeID)
	}
	if insights[0].Pulls != 10 || insights[0].Successes != 8 {
		t.Errorf("top insight pulls=%d successes=%d", insights[0].Pulls, insights[0].Successes)
	}
	if er := insights[0].ExpectedReward; er != 0.75 {
		// Beta(9,3) mean
		t.Errorf("expected reward = %v, want 0.75", er)
	}
	for _, in := range insights[1:] {
		if in.Score >= insights[0].Score {
			t.Errorf("cold arm %d scored %v, above the warm arm's %v",
				in.RecipeID, in.Score, insights[0].Score)
		}
	}
}

func TestRecommendForUserFiltersByMealType(t *testing.T) {
	recipes := &fakeRecipeRepo{recipes: testCandidates()}
	cfg := DefaultConfig()
	cfg.Seed = 42
	svc := NewBanditService(nil, recipes, &fakePrefRepo{}, &fakeEventRepo{}, nil, cfg)

	out, err := svc.RecommendForUser(context.Background(), 2, "dinner", 5)
	if err != nil {
		t.Fatalf("RecommendForUser: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("got %d recommendations, want the 2 dinner recipes", len(out))
	}
	for _, rec := range out {
		if rec.RecipeID == 2 {
			t.Error("lunch recipe returned for a dinner request")
		}
	}
}

func TestRecommendForUserFallsBackToAllRecipes(t *testing.T) {
	recipes := &fakeRecipeRepo{recipes: testCandidates()}
	cfg := DefaultConfig()
	cfg.Seed = 42
	svc := NewBanditService(nil, recipes, &fakePrefRepo{}, &fakeEventRepo{}, nil, cfg)

	out, err := svc.RecommendForUser(context.Background(), 2, "brunch", 5)
	if err != nil {
		t.Fatalf("RecommendForUser: %v", err)
	}
	if len(out) != 3 {
		t.Errorf("got %d recommendations, want the whole catalog as fallback", len(out))
	}
}

// gatedCatalog is three dinner recipes of which only Tempeh Curry
// survives a vegan user with a peanut allergy: Pork Rendang fails the
// dietary gate, Peanut Noodles the allergen gate.
func gatedCatalog() []domain.Recipe {
	return []domain.Recipe{
		{ID: 1, Name: "Pork Rendang", Cuisine: "indonesian", Tags: []string{"dinner"},
			Ingredients: []domain.Ingredient{{Name: "pork shoulder", Category: "meat", Amount: 500}}},
		{ID: 2, Name: "Tempeh Curry", Cuisine: "indonesian", Tags: []string{"dinner", "vegan"},
			Ingredients: []domain.Ingredient{{Name: "tempeh", Category: "produce", Amount: 300}}},
		{ID: 3, Name: "Peanut Noodles", Cuisine: "thai", Tags: []string{"dinner", "vegan"},
			Ingredients: []domain.Ingredient{{Name: "peanut butter", Amount: 60}}},
	}
}

func veganPeanutAllergyPrefs() *fakePrefRepo {
	return &fakePrefRepo{prefs: domain.UserPreferences{
		DietaryRestrictions: []string{"vegan"},
		Allergies:           []string{"peanut"},
	}}
}

func TestRecommendForUserScreensGatedRecipes(t *testing.T) {
	recipes := &fakeRecipeRepo{recipes: gatedCatalog()}
	cfg := DefaultConfig()
	cfg.Seed = 42
	svc := NewBanditService(nil, recipes, veganPeanutAllergyPrefs(), &fakeEventRepo{}, nil, cfg)
	ctx := context.Background()

	// Repeated requests must never surface a gated recipe.
	for i := 0; i < 10; i++ {
		out, err := svc.RecommendForUser(ctx, 6, "dinner", 3)
		if err != nil {
			t.Fatalf("RecommendForUser: %v", err)
		}
		if len(out) != 1 {
			t.Fatalf("got %d recommendations, want only the vegan peanut-free recipe", len(out))
		}
		if out[0].RecipeID != 2 {
			t.Fatalf("recommended recipe %d, want 2", out[0].RecipeID)
		}
	}

	if got := len(svc.store.userArms(ctx, 6).arms); got != 1 {
		t.Errorf("got %d arms, want no arms for gated recipes", got)
	}
}

func TestInsightsForUserScreensGatedRecipes(t *testing.T) {
	recipes := &fakeRecipeRepo{recipes: gatedCatalog()}
	cfg := DefaultConfig()
	cfg.Seed = 42
	svc := NewBanditService(nil, recipes, veganPeanutAllergyPrefs(), &fakeEventRepo{}, nil, cfg)

	insights, err := svc.InsightsForUser(context.Background(), 6, "dinner", 5)
	if err != nil {
		t.Fatalf("InsightsForUser: %v", err)
	}
	if len(insights) != 1 {
		t.Fatalf("got %d insights, want only the vegan peanut-free recipe", len(insights))
	}
	if insights[0].RecipeID != 2 {
		t.Errorf("insight recipe = %d, want 2", insights[0].RecipeID)
	}
}

func TestScreenCandidatesNoPreferencesKeepsAll(t *testing.T) {
	kept := screenCandidates(gatedCatalog(), domain.UserPreferences{})
	if len(kept) != 3 {
		t.Errorf("got %d candidates, want all 3 without declared restrictions", len(kept))
	}
}

func TestConcurrentFeedbackAcrossUsers(t *testing.T) {
	repo := newFakeStateRepo()
	svc := newTestService(repo)
	ctx := context.Background()

	const users = 8
	const rounds = 25

	var wg sync.WaitGroup
	for u := 1; u <= users; u++ {
		wg.Add(1)
		go func(userID uint) {
			defer wg.Done()
			if _, err := svc.SelectTop(ctx, userID, testCandidates(), domain.MealContext{}, 3); err != nil {
				t.Errorf("user %d SelectTop: %v", userID, err)
				return
			}
			for i := 0; i < rounds; i++ {
				if err := svc.RecordFeedback(ctx, userID, 1, i%2 == 0, nil); err != nil {
					t.Errorf("user %d RecordFeedback: %v", userID, err)
					return
				}
			}
		}(uint(u))
	}
	wg.Wait()

	for u := 1; u <= users; u++ {
		arm := svc.store.userArms(ctx, uint(u)).arms[1]
		if arm == nil || arm.Pulls != rounds {
			t.Errorf("user %d: arm pulls = %+v, want %d", u, arm, rounds)
		}
	}
}

func TestBuildMealContextRecentWindow(t *testing.T) {
	events := &fakeEventRepo{events: []domain.FeedbackEvent{
		{UserID: 4, RecipeID: 1, Accepted: true, Context: map[string]interface{}{"main_protein": "chicken", "cuisine": "indonesian"}},
		{UserID: 4, RecipeID: 2, Accepted: true, Context: map[string]interface{}{"main_protein": "chicken", "cuisine": "thai"}},
		{UserID: 4, RecipeID: 3, Accepted: false, Context: map[string]interface{}{"main_protein": "beef", "cuisine": "french"}},
		{UserID: 9, RecipeID: 4, Accepted: true, Context: map[string]interface{}{"main_protein": "pork", "cuisine": "chinese"}},
	}}
	cfg := DefaultConfig()
	cfg.Seed = 42
	svc := NewBanditService(nil, nil, &fakePrefRepo{}, events, nil, cfg)

	mealCtx := svc.buildMealContext(context.Background(), 4, "dinner")

	if len(mealCtx.RecentProteins) != 1 || mealCtx.RecentProteins[0] != "chicken" {
		t.Errorf("recent proteins = %v, want [chicken]", mealCtx.RecentProteins)
	}
	if len(mealCtx.RecentCuisines) != 2 {
		t.Errorf("recent cuisines = %v, want indonesian and thai", mealCtx.RecentCuisines)
	}
	if mealCtx.TargetMealType != "dinner" {
		t.Errorf("target meal type = %q", mealCtx.TargetMealType)
	}
}

func TestLoadConfigMergesOverrides(t *testing.T) {
	cfgRepo := &fakeConfigRepo{cfg: domain.BanditConfig{
		Profile:     ConfigProfileDefault,
		JitterBound: 0.1,
	}, found: true}

	cfg := DefaultConfig()
	cfg.Seed = 42
	svc := NewBanditService(nil, nil, nil, nil, cfgRepo, cfg)

	got := svc.loadConfig(context.Background())
	if got.JitterBound != 0.1 {
		t.Errorf("JitterBound = %v, want the stored override 0.1", got.JitterBound)
	}
	if got.EvidenceThreshold != defaultEvidenceThreshold {
		t.Errorf("EvidenceThreshold = %v, want the default", got.EvidenceThreshold)
	}
}

func TestLoadConfigRepoFailureFallsBack(t *testing.T) {
	cfgRepo := &fakeConfigRepo{err: errors.New("db down")}
	cfg := DefaultConfig()
	cfg.Seed = 42
	svc := NewBanditService(nil, nil, nil, nil, cfgRepo, cfg)

	got := svc.loadConfig(context.Background())
	if got != cfg.normalized() {
		t.Errorf("config on repo failure = %+v, want the defaults", got)
	}
}

type fakeConfigRepo struct {
	cfg   domain.BanditConfig
	found bool
	err   error

	upserted []domain.BanditConfig
}

var _ ConfigRepository = (*fakeConfigRepo)(nil)

func (f *fakeConfigRepo) GetConfig(_ context.Context, _ string) (domain.BanditConfig, bool, error) {
	return f.cfg, f.found, f.err
}

func (f *fakeConfigRepo) UpsertConfig(_ context.Context, cfg domain.BanditConfig) error {
	f.upserted = append(f.upserted, cfg)
	return f.err
}
