package main

import (
	"context"
	"fmt"
	"log"
	appmetrics "myMealPlanner/app/echo-server/metrics"
	"myMealPlanner/app/echo-server/router"
	"myMealPlanner/business/bandit"
	"myMealPlanner/business/planner"
	"myMealPlanner/internal/middleware"
	psqlRepo "myMealPlanner/internal/repository/postgres"
	redisRepo "myMealPlanner/internal/repository/redis"
	"myMealPlanner/internal/rest"
	"myMealPlanner/pkg/config"
	"myMealPlanner/pkg/database"
	dbredis "myMealPlanner/pkg/database/redis"
	"myMealPlanner/pkg/logger"
	"myMealPlanner/pkg/metrics"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Meal Planner API", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := dbredis.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}
	defer func() {
		if err := dbredis.CloseRedisClient(redisClient); err != nil {
			logger.Error("Failed to close redis client", "error", err)
		}
	}()

	// Init repo
	recipeRepo := psqlRepo.NewRecipeRepository(db)
	prefRepo := psqlRepo.NewPreferenceRepository(db)
	pantryRepo := psqlRepo.NewPantryRepository(db)
	banditRepo := psqlRepo.NewBanditRepository(db)
	banditCfgRepo := psqlRepo.NewBanditConfigRepository(db)

	// Bandit state reads go through redis; writes land in postgres first.
	stateTTL := time.Duration(cfg.Bandit.StateCacheTTLMinutes) * time.Minute
	stateCache := redisRepo.NewStateCache(redisClient, banditRepo, stateTTL)

	// Init service
	banditCfg := bandit.DefaultConfig()
	banditCfg.Seed = cfg.Bandit.Seed
	banditService := bandit.NewBanditService(stateCache, recipeRepo, prefRepo, banditRepo, banditCfgRepo, banditCfg)
	plannerService := planner.NewService(recipeRepo, prefRepo, pantryRepo, cfg.Bandit.Seed)

	// Init handler
	recommendationHandler := rest.NewRecommendationHandler(banditService)
	plannerHandler := rest.NewPlannerHandler(plannerService)
	preferenceHandler := rest.NewPreferenceHandler(prefRepo)
	pantryHandler := rest.NewPantryHandler(pantryRepo)
	banditAdminHandler := rest.NewBanditAdminHandler(banditCfgRepo, banditService)

	// Init metrics
	metrics.Init()
	appmetrics.Init()

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	e.Use(middleware.RequestID())
	e.Use(appmetrics.Middleware())

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetRecommendationRoutes(api, recommendationHandler)
	router.SetPlannerRoutes(api, plannerHandler)
	router.SetPreferenceRoutes(api, preferenceHandler)
	router.SetPantryRoutes(api, pantryHandler)
	router.SetBanditAdminRoutes(api, banditAdminHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
