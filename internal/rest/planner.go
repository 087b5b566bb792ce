package rest

import (
	"context"
	"net/http"
	"time"

	"myMealPlanner/business/planner"
	"myMealPlanner/domain"
	"myMealPlanner/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	PlannerHandler struct {
		validate *validator.Validate
		service  PlannerService
	}

	PlannerService interface {
		SuggestForSlot(ctx context.Context, req planner.SuggestRequest) ([]domain.RecipeSuggestion, error)
		GenerateWeekPlan(ctx context.Context, req planner.WeekPlanRequest) (domain.WeekPlan, error)
	}

	SuggestRequest struct {
		UserID uint            `json:"user_id" validate:"required"`
		Slot   domain.PlanSlot `json:"slot"`

		ExistingRecipeIDs []uint64 `json:"existing_recipe_ids"`
		ExcludeIDs        []uint64 `json:"exclude_ids"`
		MinScore          float64  `json:"min_score"`
		MaxSuggestions    int      `json:"max_suggestions"`
	}

	WeekPlanRequest struct {
		UserID uint              `json:"user_id" validate:"required"`
		Slots  []domain.PlanSlot `json:"slots" validate:"dive"`

		LockedSlots   []string `json:"locked_slots"`
		PreferVariety *bool    `json:"prefer_variety"`

		ExcludeIDs     []uint64 `json:"exclude_ids"`
		MinScore       float64  `json:"min_score"`
		MaxSuggestions int      `json:"max_suggestions"`
	}
)

func NewPlannerHandler(svc PlannerService) *PlannerHandler {
	return &PlannerHandler{
		validate: validator.New(),
		service:  svc,
	}
}

// POST /api/v1/planner/suggestions
func (h *PlannerHandler) Suggest(c echo.Context) error {
	var req SuggestRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	suggestions, err := h.service.SuggestForSlot(c.Request().Context(), planner.SuggestRequest{
		UserID:            req.UserID,
		Slot:              req.Slot,
		ExistingRecipeIDs: req.ExistingRecipeIDs,
		ExcludeIDs:        req.ExcludeIDs,
		MinScore:          req.MinScore,
		MaxSuggestions:    req.MaxSuggestions,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(suggestions))
}

// POST /api/v1/planner/week
//
// Slots the planner could not fill are absent from the assignments map;
// clients render those as empty cells.
func (h *PlannerHandler) PlanWeek(c echo.Context) error {
	var req WeekPlanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	start := time.Now()
	plan, err := h.service.GenerateWeekPlan(c.Request().Context(), planner.WeekPlanRequest{
		UserID:         req.UserID,
		Slots:          req.Slots,
		LockedSlots:    req.LockedSlots,
		PreferVariety:  req.PreferVariety,
		ExcludeIDs:     req.ExcludeIDs,
		MinScore:       req.MinScore,
		MaxSuggestions: req.MaxSuggestions,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	metrics.WeekPlanLatency.Observe(time.Since(start).Seconds())

	if unfilled := countUnfilled(req.Slots, req.LockedSlots, plan); unfilled > 0 {
		metrics.WeekPlanUnfilledSlotsTotal.Add(float64(unfilled))
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(plan))
}

// countUnfilled counts requested slots that are neither locked nor
// assigned.
func countUnfilled(slots []domain.PlanSlot, lockedKeys []string, plan domain.WeekPlan) int {
	locked := make(map[string]bool, len(lockedKeys))
	for _, key := range lockedKeys {
		locked[key] = true
	}

	unfilled := 0
	for _, slot := range slots {
		key := slot.Key()
		if locked[key] {
			continue
		}
		if _, ok := plan.Assignments[key]; !ok {
			unfilled++
		}
	}
	return unfilled
}
