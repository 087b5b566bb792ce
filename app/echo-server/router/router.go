package router

import (
	"myMealPlanner/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetRecommendationRoutes(api *echo.Group, handler *rest.RecommendationHandler) {
	reco := api.Group("/recommendations")
	reco.GET("", handler.Recommend)
	reco.GET("/insights", handler.Insights)
	reco.POST("/feedback", handler.Feedback)
}

func SetPlannerRoutes(api *echo.Group, handler *rest.PlannerHandler) {
	plan := api.Group("/planner")
	plan.POST("/suggestions", handler.Suggest)
	plan.POST("/week", handler.PlanWeek)
}

func SetPreferenceRoutes(api *echo.Group, handler *rest.PreferenceHandler) {
	prefs := api.Group("/preferences")
	prefs.GET("", handler.Get)
	prefs.PUT("", handler.Upsert)
}

func SetPantryRoutes(api *echo.Group, handler *rest.PantryHandler) {
	pantry := api.Group("/pantry")
	pantry.GET("", handler.List)
	pantry.POST("", handler.Create)
	pantry.DELETE("/:id", handler.Delete)
}

func SetBanditAdminRoutes(api *echo.Group, handler *rest.BanditAdminHandler) {
	admin := api.Group("/admin/bandit")

	admin.GET("/config", handler.GetConfig)
	admin.PUT("/config", handler.UpsertConfig)
	admin.POST("/compact", handler.CompactArms)
}
