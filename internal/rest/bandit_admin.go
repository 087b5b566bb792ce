package rest

import (
	"context"
	"net/http"
	"strconv"

	"myMealPlanner/business/bandit"
	"myMealPlanner/domain"

	"github.com/labstack/echo/v4"
)

// BanditMaintenanceService is the slice of the bandit service the admin
// surface needs for state maintenance.
type BanditMaintenanceService interface {
	CompactArms(ctx context.Context, userID uint) (int, error)
}

type BanditAdminHandler struct {
	cfgRepo bandit.ConfigRepository
	svc     BanditMaintenanceService
}

func NewBanditAdminHandler(cfgRepo bandit.ConfigRepository, svc BanditMaintenanceService) *BanditAdminHandler {
	return &BanditAdminHandler{
		cfgRepo: cfgRepo,
		svc:     svc,
	}
}

// GET /api/v1/admin/bandit/config?profile=default
func (h *BanditAdminHandler) GetConfig(c echo.Context) error {
	ctx := c.Request().Context()

	profile := c.QueryParam("profile")
	if profile == "" {
		profile = bandit.ConfigProfileDefault
	}

	cfg, ok, err := h.cfgRepo.GetConfig(ctx, profile)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{
			"error": "config not found",
		})
	}

	return c.JSON(http.StatusOK, cfg)
}

// PUT /api/v1/admin/bandit/config
// body: BanditConfig JSON
func (h *BanditAdminHandler) UpsertConfig(c echo.Context) error {
	ctx := c.Request().Context()

	var body domain.BanditConfig
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "invalid body: " + err.Error(),
		})
	}
	if body.Profile == "" {
		body.Profile = bandit.ConfigProfileDefault
	}

	if err := h.cfgRepo.UpsertConfig(ctx, body); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status": "ok",
	})
}

// POST /api/v1/admin/bandit/compact?user_id=7
//
// Evicts the user's coldest arms down to the configured MaxArmsPerUser
// and persists the result. With the cap unset or zero nothing is evicted.
func (h *BanditAdminHandler) CompactArms(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := strconv.ParseUint(c.QueryParam("user_id"), 10, 32)
	if err != nil || userID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "user_id is required",
		})
	}

	evicted, err := h.svc.CompactArms(ctx, uint(userID))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"evicted": evicted,
	})
}
