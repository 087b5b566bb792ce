package rest

import (
	"context"
	"net/http"
	"time"

	"myMealPlanner/domain"
	"myMealPlanner/pkg/metrics"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	RecommendationHandler struct {
		validate *validator.Validate
		service  RecommendationService
	}

	RecommendationService interface {
		RecommendForUser(ctx context.Context, userID uint, mealType string, limit int) ([]domain.RecipeRecommendation, error)
		InsightsForUser(ctx context.Context, userID uint, mealType string, limit int) ([]domain.ArmInsight, error)
		RecordFeedback(ctx context.Context, userID uint, recipeID uint64, accepted bool, meta *domain.FeedbackMetadata) error
	}

	RecommendQuery struct {
		UserID   uint   `query:"user_id" validate:"required"`
		MealType string `query:"meal_type"`
		N        int    `query:"n"`
	}

	FeedbackRequest struct {
		UserID   uint   `json:"user_id" validate:"required"`
		RecipeID uint64 `json:"recipe_id" validate:"required"`
		Accepted bool   `json:"accepted"`

		Rating         *int     `json:"rating" validate:"omitempty,min=1,max=5"`
		CookingMinutes *int     `json:"cooking_minutes"`
		WouldRepeat    *bool    `json:"would_repeat"`
		Tags           []string `json:"tags"`
	}
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

func NewRecommendationHandler(svc RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		validate: validator.New(),
		service:  svc,
	}
}

// GET /api/v1/recommendations?user_id=7&meal_type=dinner&n=5
func (h *RecommendationHandler) Recommend(c echo.Context) error {
	var q RecommendQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	start := time.Now()
	recs, err := h.service.RecommendForUser(c.Request().Context(), q.UserID, q.MealType, q.N)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}
	metrics.RecommendLatency.Observe(time.Since(start).Seconds())
	metrics.RecommendServedTotal.WithLabelValues(mealTypeLabel(q.MealType)).Add(float64(len(recs)))

	return c.JSON(http.StatusOK, fres.Response.StatusOK(recs))
}

// GET /api/v1/recommendations/insights?user_id=7&meal_type=dinner&n=5
//
// Read-only ranking by expected reward plus exploration value. Serving
// this endpoint never creates arms or changes state.
func (h *RecommendationHandler) Insights(c echo.Context) error {
	var q RecommendQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	insights, err := h.service.InsightsForUser(c.Request().Context(), q.UserID, q.MealType, q.N)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(insights))
}

// POST /api/v1/recommendations/feedback
func (h *RecommendationHandler) Feedback(c echo.Context) error {
	var req FeedbackRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	var meta *domain.FeedbackMetadata
	if req.Rating != nil || req.CookingMinutes != nil || req.WouldRepeat != nil || len(req.Tags) > 0 {
		meta = &domain.FeedbackMetadata{
			Rating:         req.Rating,
			CookingMinutes: req.CookingMinutes,
			WouldRepeat:    req.WouldRepeat,
			Tags:           req.Tags,
		}
	}

	err := h.service.RecordFeedback(c.Request().Context(), req.UserID, req.RecipeID, req.Accepted, meta)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated("feedback recorded"))
}

func mealTypeLabel(mealType string) string {
	if mealType == "" {
		return "any"
	}
	return mealType
}
