package rest

import (
	"context"
	"net/http"
	"strconv"

	"myMealPlanner/domain"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	PantryHandler struct {
		validate *validator.Validate
		store    PantryStore
	}

	// PantryStore is satisfied by the postgres pantry repository.
	PantryStore interface {
		Create(ctx context.Context, item *domain.PantryItem) error
		ListByUser(ctx context.Context, userID uint) ([]domain.PantryItem, error)
		Delete(ctx context.Context, userID uint, id uint64) error
	}

	PantryQuery struct {
		UserID uint `query:"user_id" validate:"required"`
	}

	PantryItemRequest struct {
		UserID   uint    `json:"user_id" validate:"required"`
		Name     string  `json:"name" validate:"required"`
		Quantity float64 `json:"quantity"`
		Unit     string  `json:"unit"`
		Category string  `json:"category"`
	}
)

func NewPantryHandler(store PantryStore) *PantryHandler {
	return &PantryHandler{
		validate: validator.New(),
		store:    store,
	}
}

// GET /api/v1/pantry?user_id=7
func (h *PantryHandler) List(c echo.Context) error {
	var q PantryQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	items, err := h.store.ListByUser(c.Request().Context(), q.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(items))
}

// POST /api/v1/pantry
func (h *PantryHandler) Create(c echo.Context) error {
	var req PantryItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	item := domain.PantryItem{
		UserID:   req.UserID,
		Name:     req.Name,
		Quantity: req.Quantity,
		Unit:     req.Unit,
		Category: req.Category,
	}
	if err := h.store.Create(c.Request().Context(), &item); err != nil {
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusCreated, fres.Response.StatusCreated(item))
}

// DELETE /api/v1/pantry/:id?user_id=7
func (h *PantryHandler) Delete(c echo.Context) error {
	var q PantryQuery
	if err := c.Bind(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&q); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid pantry item id"})
	}

	if err := h.store.Delete(c.Request().Context(), q.UserID, id); err != nil {
		if err.Error() == "pantry item not found" {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK("pantry item deleted"))
}
