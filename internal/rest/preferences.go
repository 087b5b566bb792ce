package rest

import (
	"context"
	"net/http"

	"myMealPlanner/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	PreferenceHandler struct {
		validate *validator.Validate
		store    PreferenceStore
	}

	// PreferenceStore is satisfied by the postgres preference repository.
	PreferenceStore interface {
		GetPreferences(ctx context.Context, userID uint) (domain.UserPreferences, error)
		UpsertPreferences(ctx context.Context, prefs domain.UserPreferences) error
	}

	PreferenceQuery struct {
		UserID uint `query:"user_id" validate:"required"`
	}
)

func NewPreferenceHandler(store PreferenceStore) *PreferenceHandler {
	return &PreferenceHandler{
		validate: validator.New(),
		store:    store,
	}
}

// GET /api/v1/preferences?user_id=7
//
// Users without a stored row get zero-value preferences, which scoring
// treats as "no constraints".
func (h *PreferenceHandler) Get(c echo.Context) error {
	var q PreferenceQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	prefs, err := h.store.GetPreferences(c.Request().Context(), q.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(prefs))
}

// PUT /api/v1/preferences
// body: UserPreferences JSON
func (h *PreferenceHandler) Upsert(c echo.Context) error {
	var prefs domain.UserPreferences
	if err := c.Bind(&prefs); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if prefs.UserID == 0 {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "user_id is required"})
	}

	if err := h.store.UpsertPreferences(c.Request().Context(), prefs); err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(prefs))
}
