package planner

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"myMealPlanner/domain"
	"myMealPlanner/pkg/logger"
)

const (
	// DefaultMinScore is the preference-score floor for slot suggestions.
	DefaultMinScore = 30.0
	// DefaultMaxSuggestions is how many candidates a slot query returns.
	DefaultMaxSuggestions = 5
	// pickPoolSize is how many top suggestions week planning draws from.
	pickPoolSize = 3
)

// ---- Repository interfaces ----

type RecipeRepository interface {
	FindAll(ctx context.Context) ([]domain.Recipe, error)
	FindByIDs(ctx context.Context, ids []uint64) ([]domain.Recipe, error)
}

type PreferenceRepository interface {
	GetPreferences(ctx context.Context, userID uint) (domain.UserPreferences, error)
}

type PantryRepository interface {
	ListByUser(ctx context.Context, userID uint) ([]domain.PantryItem, error)
}

// ---- Requests ----

type SuggestRequest struct {
	UserID uint
	Slot   domain.PlanSlot

	// Recipes already planned this week, for variety scoring.
	ExistingRecipeIDs []uint64
	// Hard exclusions, never suggested.
	ExcludeIDs []uint64

	MinScore       float64 // 0 means DefaultMinScore
	MaxSuggestions int     // 0 means DefaultMaxSuggestions
}

type WeekPlanRequest struct {
	UserID uint
	Slots  []domain.PlanSlot

	// Slot keys the planner must not touch.
	LockedSlots []string
	// Overrides the user's stored variety preference when set.
	PreferVariety *bool

	ExcludeIDs     []uint64
	MinScore       float64
	MaxSuggestions int
}

// ---- Usecase / Service ----

// Service fills meal slots by preference score. Selection among the top
// suggestions is random on purpose, so repeated plans vary; the seed is
// injectable for deterministic tests.
type Service struct {
	recipeRepo RecipeRepository
	prefRepo   PreferenceRepository
	pantryRepo PantryRepository

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewService(
	recipeRepo RecipeRepository,
	prefRepo PreferenceRepository,
	pantryRepo PantryRepository,
	seed int64,
) *Service {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Service{
		recipeRepo: recipeRepo,
		prefRepo:   prefRepo,
		pantryRepo: pantryRepo,
		rng:        rand.New(rand.NewSource(seed)),
	}
}

// SuggestForSlot returns the best-scoring candidates for one slot,
// highest first. Slots nothing qualifies for return an empty list, not
// an error.
func (s *Service) SuggestForSlot(ctx context.Context, req SuggestRequest) ([]domain.RecipeSuggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	recipes, err := s.recipeRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load recipe catalog: %w", err)
	}

	prefs := s.loadPreferences(ctx, req.UserID)
	existing, err := s.loadExisting(ctx, req.ExistingRecipeIDs)
	if err != nil {
		return nil, err
	}

	scoreCtx := s.buildScoreContext(ctx, req.UserID, prefs, existing)

	suggestions := suggestForSlot(recipes, prefs, req.Slot, scoreCtx, suggestOptions{
		excludeIDs:     req.ExcludeIDs,
		minScore:       req.MinScore,
		maxSuggestions: req.MaxSuggestions,
	})

	logger.Debug("planner_suggest",
		"user_id", req.UserID,
		"slot", req.Slot.Key(),
		"candidates", len(recipes),
		"returned", len(suggestions),
	)

	return suggestions, nil
}

// GenerateWeekPlan assigns recipes to every unlocked slot, day by day in
// breakfast/lunch/snack/dinner order. Each slot draws uniformly from its
// top suggestions. A slot with no qualifying recipe is left out of the
// plan; callers must treat missing keys as unassigned.
func (s *Service) GenerateWeekPlan(ctx context.Context, req WeekPlanRequest) (domain.WeekPlan, error) {
	plan := domain.WeekPlan{Assignments: make(map[string]domain.SlotAssignment)}

	if err := ctx.Err(); err != nil {
		return plan, fmt.Errorf("context error: %w", err)
	}
	if len(req.Slots) == 0 {
		return plan, nil
	}

	recipes, err := s.recipeRepo.FindAll(ctx)
	if err != nil {
		return plan, fmt.Errorf("load recipe catalog: %w", err)
	}

	prefs := s.loadPreferences(ctx, req.UserID)
	preferVariety := prefs.PreferVariety
	if req.PreferVariety != nil {
		preferVariety = *req.PreferVariety
	}

	scoreCtx := s.buildScoreContext(ctx, req.UserID, prefs, nil)

	byID := make(map[uint64]domain.Recipe, len(recipes))
	for _, r := range recipes {
		byID[r.ID] = r
	}

	slots := orderSlots(req.Slots)
	locked := make(map[string]bool, len(req.LockedSlots))
	for _, key := range req.LockedSlots {
		locked[key] = true
	}

	used := make(map[uint64]bool)
	unfilled := 0

	for _, slot := range slots {
		key := slot.Key()
		if locked[key] {
			continue
		}

		exclude := req.ExcludeIDs
		if preferVariety && len(used) > 0 {
			exclude = append(append([]uint64{}, req.ExcludeIDs...), keys(used)...)
		}

		suggestions := suggestForSlot(recipes, prefs, slot, scoreCtx, suggestOptions{
			excludeIDs:     exclude,
			minScore:       req.MinScore,
			maxSuggestions: req.MaxSuggestions,
		})
		if len(suggestions) == 0 && preferVariety && len(used) > 0 {
			// variety exhausted the pool; allow repeats before giving up
			suggestions = suggestForSlot(recipes, prefs, slot, scoreCtx, suggestOptions{
				excludeIDs:     req.ExcludeIDs,
				minScore:       req.MinScore,
				maxSuggestions: req.MaxSuggestions,
			})
		}
		if len(suggestions) == 0 {
			unfilled++
			continue
		}

		pool := pickPoolSize
		if pool > len(suggestions) {
			pool = len(suggestions)
		}
		chosen := suggestions[s.pick(pool)]

		plan.Assignments[key] = domain.SlotAssignment{
			RecipeID:   chosen.RecipeID,
			RecipeName: chosen.RecipeName,
			Score:      chosen.Score,
		}
		if preferVariety {
			used[chosen.RecipeID] = true
		}
		if recipe, ok := byID[chosen.RecipeID]; ok {
			scoreCtx.ExistingMeals = append(scoreCtx.ExistingMeals, recipe)
		}
	}

	logger.Info("planner_week_plan",
		"user_id", req.UserID,
		"slots", len(req.Slots),
		"assigned", len(plan.Assignments),
		"unfilled", unfilled,
	)

	return plan, nil
}

func (s *Service) pick(n int) int {
	if n <= 1 {
		return 0
	}
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}

// loadPreferences degrades to zero-value preferences on error; a
// recommendation beats a failure here.
func (s *Service) loadPreferences(ctx context.Context, userID uint) domain.UserPreferences {
	if s.prefRepo == nil {
		return domain.UserPreferences{}
	}
	prefs, err := s.prefRepo.GetPreferences(ctx, userID)
	if err != nil {
		logger.Warn("planner_preferences_load_failed",
			"user_id", userID,
			"error", err,
		)
		return domain.UserPreferences{}
	}
	return prefs
}

func (s *Service) loadExisting(ctx context.Context, ids []uint64) ([]domain.Recipe, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	existing, err := s.recipeRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load existing week recipes: %w", err)
	}
	return existing, nil
}

// buildScoreContext carries season, pantry and the accumulated week into
// preference scoring.
func (s *Service) buildScoreContext(
	ctx context.Context,
	userID uint,
	prefs domain.UserPreferences,
	existing []domain.Recipe,
) *domain.MealContext {

	scoreCtx := &domain.MealContext{
		UserID:        userID,
		Preferences:   prefs,
		Season:        domain.SeasonOf(time.Now()),
		DayOfWeek:     time.Now().Weekday(),
		ExistingMeals: existing,
	}

	if prefs.UsePantry && s.pantryRepo != nil {
		items, err := s.pantryRepo.ListByUser(ctx, userID)
		if err != nil {
			logger.Warn("planner_pantry_load_failed",
				"user_id", userID,
				"error", err,
			)
		} else {
			names := make([]string, 0, len(items))
			for _, it := range items {
				names = append(names, it.Name)
			}
			scoreCtx.PantryItems = names
		}
	}

	return scoreCtx
}

func keys(m map[uint64]bool) []uint64 {
	out := make([]uint64, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
