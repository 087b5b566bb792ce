package bandit

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"myMealPlanner/business/recommend"
	"myMealPlanner/domain"
	"myMealPlanner/pkg/logger"

	"gorm.io/datatypes"
)

const defaultSelectionLimit = 5

// recentMealsWindow is how far back accepted feedback counts toward the
// protein/cuisine de-duplication window.
const recentMealsWindow = 7 * 24 * time.Hour

// ---- Repository interfaces ----

// StateRepository is the persistence collaborator for bandit state. A
// (nil, nil) return from GetState means no state exists yet.
type StateRepository interface {
	GetState(ctx context.Context, userID uint) (*SavedState, error)
	SaveState(ctx context.Context, userID uint, state *SavedState) error
}

type RecipeRepository interface {
	FindAll(ctx context.Context) ([]domain.Recipe, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Recipe, error)
	FindByMealType(ctx context.Context, mealType string, limit int) ([]domain.Recipe, error)
}

type PreferenceRepository interface {
	GetPreferences(ctx context.Context, userID uint) (domain.UserPreferences, error)
}

type FeedbackEventRepository interface {
	SaveEvent(ctx context.Context, event domain.FeedbackEvent) error
	RecentByUser(ctx context.Context, userID uint, since time.Time) ([]domain.FeedbackEvent, error)
}

// ---- Usecase / Service ----

// BanditService owns the Thompson Sampling state for all users: the
// per-user arms, the decaying global prior, and the sampler. One
// instance per process; construct more for isolated state (tests,
// shards).
type BanditService struct {
	store   *Store
	sampler *sampler

	recipeRepo RecipeRepository
	prefRepo   PreferenceRepository
	eventRepo  FeedbackEventRepository
	cfgRepo    ConfigRepository

	defaultCfg Config
}

func NewBanditService(
	stateRepo StateRepository,
	recipeRepo RecipeRepository,
	prefRepo PreferenceRepository,
	eventRepo FeedbackEventRepository,
	cfgRepo ConfigRepository,
	defaultCfg Config,
) *BanditService {
	cfg := defaultCfg.normalized()
	return &BanditService{
		store:      NewStore(stateRepo),
		sampler:    newSampler(defaultCfg.Seed),
		recipeRepo: recipeRepo,
		prefRepo:   prefRepo,
		eventRepo:  eventRepo,
		cfgRepo:    cfgRepo,
		defaultCfg: cfg,
	}
}

//  Selection / serving

// SelectTop runs one round of Thompson Sampling over the candidates:
// every candidate gets an arm (created lazily at the current global
// prior), one Beta draw, and a deterministic contextual boost; the top k
// boosted samples win. Ties keep candidate order. Selection does not
// count as a pull and is not persisted.
func (s *BanditService) SelectTop(
	ctx context.Context,
	userID uint,
	candidates []domain.Recipe,
	mealCtx domain.MealContext,
	k int,
) ([]domain.RecipeRecommendation, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}
	if k <= 0 {
		k = defaultSelectionLimit
	}
	if len(candidates) == 0 {
		return []domain.RecipeRecommendation{}, nil
	}

	cfg := s.loadConfig(ctx)
	us := s.store.userArms(ctx, userID)
	prior := s.store.priorSnapshot()

	type scored struct {
		recipeID   uint64
		recipeName string
		score      float64
	}
	scoredList := make([]scored, 0, len(candidates))

	us.mu.Lock()
	for _, recipe := range candidates {
		feats := recommend.Extract(recipe, &mealCtx)
		arm, created := us.getOrCreate(recipe.ID, recipe.Name, feats, prior)
		if created {
			BanditArmsCreatedTotal.Inc()
		}

		sample := s.sampler.Beta(arm.Alpha, arm.Beta, cfg.JitterBound, cfg.EvidenceThreshold)
		boosted := contextualBoost(sample, arm.Features, mealCtx)

		scoredList = append(scoredList, scored{
			recipeID:   arm.RecipeID,
			recipeName: arm.RecipeName,
			score:      boosted,
		})
	}
	us.mu.Unlock()

	sort.SliceStable(scoredList, func(i, j int) bool {
		return scoredList[i].score > scoredList[j].score
	})

	if k > len(scoredList) {
		k = len(scoredList)
	}
	out := make([]domain.RecipeRecommendation, 0, k)
	for i := 0; i < k; i++ {
		out = append(out, domain.RecipeRecommendation{
			RecipeID:   scoredList[i].recipeID,
			RecipeName: scoredList[i].recipeName,
			Score:      scoredList[i].score,
		})
	}

	logger.Debug("bandit_select_top",
		"trace_id", TraceIDFromContext(ctx),
		"user_id", userID,
		"candidate_count", len(candidates),
		"returned", len(out),
	)

	return out, nil
}

//  Feedback / learning

// RecordFeedback applies one accept/reject outcome to the user's arm and
// nudges the global prior. Feedback for an arm the user was never
// offered is a warned no-op. Feedback never evicts arms; stale arms
// fade through prior decay and are only removed by CompactArms. State
// is flushed before returning; a flush failure is surfaced as a warning
// only, the in-memory state stays authoritative.
func (s *BanditService) RecordFeedback(
	ctx context.Context,
	userID uint,
	recipeID uint64,
	accepted bool,
	meta *domain.FeedbackMetadata,
) error {

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}
	if recipeID == 0 {
		return fmt.Errorf("recipe_id is required")
	}

	cfg := s.loadConfig(ctx)
	us := s.store.userArms(ctx, userID)

	us.mu.Lock()
	arm, ok := us.arms[recipeID]
	if !ok {
		us.mu.Unlock()
		logger.Warn("bandit_feedback_unknown_arm",
			"trace_id", TraceIDFromContext(ctx),
			"user_id", userID,
			"recipe_id", recipeID,
		)
		BanditUnknownArmFeedbackTotal.Inc()
		return nil
	}

	success := resolveSuccess(accepted, meta)

	arm.Pulls++
	arm.LastPulled = time.Now()
	if success {
		arm.Successes++
		arm.Alpha++
	} else {
		arm.Beta++
	}
	feats := arm.Features
	us.mu.Unlock()

	s.store.observeOutcome(success, cfg.PriorDecay, cfg.PriorStep)

	logger.Debug("bandit_feedback",
		"trace_id", TraceIDFromContext(ctx),
		"user_id", userID,
		"recipe_id", recipeID,
		"accepted", accepted,
		"success", success,
	)

	if err := s.store.flush(ctx, userID); err != nil {
		logger.Warn("bandit_state_save_failed",
			"trace_id", TraceIDFromContext(ctx),
			"user_id", userID,
			"error", err,
		)
		BanditStateSaveFailuresTotal.Inc()
	}

	s.appendEvent(ctx, userID, recipeID, accepted, success, feats, meta)

	BanditFeedbackEventsTotal.WithLabelValues(outcomeLabel(success)).Inc()

	return nil
}

// appendEvent writes the feedback row the recent-meals window is built
// from. Failures degrade observability, not correctness, so they warn.
func (s *BanditService) appendEvent(
	ctx context.Context,
	userID uint,
	recipeID uint64,
	accepted, success bool,
	feats recommend.RecipeFeatures,
	meta *domain.FeedbackMetadata,
) {
	if s.eventRepo == nil {
		return
	}

	evtCtx := datatypes.JSONMap{
		"meal_type":    feats.MealType,
		"cuisine":      feats.Cuisine,
		"main_protein": feats.MainProtein,
		"event_time":   time.Now().Format(time.RFC3339),
	}
	if meta != nil {
		if meta.Rating != nil {
			evtCtx["rating"] = *meta.Rating
		}
		if meta.WouldRepeat != nil {
			evtCtx["would_repeat"] = *meta.WouldRepeat
		}
		if meta.CookingMinutes != nil {
			evtCtx["cooking_minutes"] = *meta.CookingMinutes
		}
		if len(meta.Tags) > 0 {
			evtCtx["tags"] = meta.Tags
		}
	}

	event := domain.FeedbackEvent{
		UserID:   userID,
		RecipeID: recipeID,
		Accepted: accepted,
		Success:  success,
		Context:  evtCtx,
	}

	if err := s.eventRepo.SaveEvent(ctx, event); err != nil {
		logger.Warn("bandit_event_save_failed",
			"trace_id", TraceIDFromContext(ctx),
			"user_id", userID,
			"recipe_id", recipeID,
			"error", err,
		)
	}
}

//  Read-only insights

// GetRecommendations ranks candidates by expected reward plus a weighted
// exploration value, without sampling and without touching state:
// candidates the user has never seen get an ephemeral view seeded from
// the global prior instead of a persisted arm.
func (s *BanditService) GetRecommendations(
	ctx context.Context,
	userID uint,
	candidates []domain.Recipe,
	mealCtx domain.MealContext,
) ([]domain.ArmInsight, error) {

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	cfg := s.loadConfig(ctx)
	us := s.store.userArms(ctx, userID)
	prior := s.store.priorSnapshot()

	insights := make([]domain.ArmInsight, 0, len(candidates))

	us.mu.Lock()
	for _, recipe := range candidates {
		arm, ok := us.arms[recipe.ID]
		if !ok {
			arm = &Arm{
				RecipeID:   recipe.ID,
				RecipeName: recipe.Name,
				Features:   recommend.Extract(recipe, &mealCtx),
				Alpha:      math.Max(prior.Alpha, 1.0),
				Beta:       math.Max(prior.Beta, 1.0),
			}
		}

		er := arm.expectedReward()
		ev := arm.explorationValue()
		insights = append(insights, domain.ArmInsight{
			RecipeID:         arm.RecipeID,
			RecipeName:       arm.RecipeName,
			ExpectedReward:   er,
			Uncertainty:      arm.uncertainty(),
			ExplorationValue: ev,
			Pulls:            arm.Pulls,
			Successes:        arm.Successes,
			Score:            er + cfg.ExplorationWeight*ev,
		})
	}
	us.mu.Unlock()

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].Score > insights[j].Score
	})

	return insights, nil
}

//  Request-level wrappers

// RecommendForUser loads preferences, context and candidates for the
// user, screens out recipes the preference scorer hard-gates, and runs
// SelectTop over the rest.
func (s *BanditService) RecommendForUser(
	ctx context.Context,
	userID uint,
	mealType string,
	limit int,
) ([]domain.RecipeRecommendation, error) {

	if limit <= 0 {
		limit = defaultSelectionLimit
	}

	candidates, err := s.loadCandidates(ctx, mealType, limit)
	if err != nil {
		return nil, err
	}

	mealCtx := s.buildMealContext(ctx, userID, mealType)
	candidates = screenCandidates(candidates, mealCtx.Preferences)
	if len(candidates) == 0 {
		return []domain.RecipeRecommendation{}, nil
	}

	return s.SelectTop(ctx, userID, candidates, mealCtx, limit)
}

// InsightsForUser is the read-only counterpart of RecommendForUser. It
// applies the same hard-gate screening, so insights never surface a
// recipe the user would not be served.
func (s *BanditService) InsightsForUser(
	ctx context.Context,
	userID uint,
	mealType string,
	limit int,
) ([]domain.ArmInsight, error) {

	if limit <= 0 {
		limit = defaultSelectionLimit
	}

	candidates, err := s.loadCandidates(ctx, mealType, limit)
	if err != nil {
		return nil, err
	}

	mealCtx := s.buildMealContext(ctx, userID, mealType)
	candidates = screenCandidates(candidates, mealCtx.Preferences)

	insights, err := s.GetRecommendations(ctx, userID, candidates, mealCtx)
	if err != nil {
		return nil, err
	}
	if limit < len(insights) {
		insights = insights[:limit]
	}
	return insights, nil
}

// buildMealContext assembles the situational context for one request:
// stored preferences, calendar facts, and the recent-meals window from
// the feedback log. Every lookup degrades to a zero value on error.
func (s *BanditService) buildMealContext(ctx context.Context, userID uint, mealType string) domain.MealContext {
	now := time.Now()
	mealCtx := domain.MealContext{
		UserID:         userID,
		Season:         domain.SeasonOf(now),
		DayOfWeek:      now.Weekday(),
		TargetMealType: mealType,
	}

	if s.prefRepo != nil {
		prefs, err := s.prefRepo.GetPreferences(ctx, userID)
		if err != nil {
			logger.Warn("bandit_preferences_load_failed",
				"trace_id", TraceIDFromContext(ctx),
				"user_id", userID,
				"error", err,
			)
		} else {
			mealCtx.Preferences = prefs
		}
	}

	if s.eventRepo != nil {
		events, err := s.eventRepo.RecentByUser(ctx, userID, now.Add(-recentMealsWindow))
		if err != nil {
			logger.Warn("bandit_recent_meals_load_failed",
				"trace_id", TraceIDFromContext(ctx),
				"user_id", userID,
				"error", err,
			)
		} else {
			mealCtx.RecentProteins, mealCtx.RecentCuisines = recentWindow(events)
		}
	}

	return mealCtx
}

// recentWindow reduces accepted events to distinct protein and cuisine
// identifiers.
func recentWindow(events []domain.FeedbackEvent) (proteins, cuisines []string) {
	seenProtein := make(map[string]bool)
	seenCuisine := make(map[string]bool)
	for _, ev := range events {
		if !ev.Accepted || ev.Context == nil {
			continue
		}
		if p, ok := ev.Context["main_protein"].(string); ok && p != "" && !seenProtein[p] {
			seenProtein[p] = true
			proteins = append(proteins, p)
		}
		if c, ok := ev.Context["cuisine"].(string); ok && c != "" && !seenCuisine[c] {
			seenCuisine[c] = true
			cuisines = append(cuisines, c)
		}
	}
	return proteins, cuisines
}
