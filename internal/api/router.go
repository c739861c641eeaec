package api

import (
	"net/http"
	"time"

	"meal-planner/internal/api/handlers/health"
	mealplanHandler "meal-planner/internal/api/handlers/mealplan"
	shoppingHandler "meal-planner/internal/api/handlers/shopping"
	suggestionHandler "meal-planner/internal/api/handlers/suggestion"
	"meal-planner/internal/api/middleware"
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/core/suggestion"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/pkg/common"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Dependencies 路由所需的服務
type Dependencies struct {
	AI          health.AIStatus
	DB          health.Pinger
	MealPlans   *mealplan.Service
	Shopping    *shopping.Service
	Suggestions *suggestion.Service
}

// SetupRouter 設置路由，回傳的 cleanup 需在關閉時呼叫
func SetupRouter(cfg *config.Config, deps Dependencies) (*gin.Engine, func()) {
	common.LogInfo("Starting router setup",
		zap.Bool("debug_mode", cfg.App.Debug),
		zap.String("version", cfg.App.Version),
		zap.String("environment", cfg.App.Env),
	)

	if !cfg.App.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// requestid 先掛，讓 Logger 與 Recovery 取得請求 ID
	router.Use(requestid.New())
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.Server.MaxBodyBytes > 0 {
		router.Use(middleware.BodySizeLimit(cfg.Server.MaxBodyBytes))
	}
	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.Requests, cfg.RateLimit.Window))
	}

	cleanup := func() {}
	if cfg.DedupWindow > 0 {
		dedup := middleware.NewDeduplicator(cfg.DedupWindow)
		router.Use(dedup.Middleware())
		cleanup = dedup.Close
	}

	if cfg.Server.RequestTimeout > 0 {
		router.Use(middleware.Timeout(cfg.Server.RequestTimeout))
	}

	healthH := health.NewHandler(cfg, deps.AI, deps.DB)
	router.GET("/health", healthH.HealthCheck)
	router.GET("/ready", healthH.ReadinessCheck)
	router.GET("/live", healthH.LivenessCheck)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.ErrNotFound.ToResponse(false))
	})

	api := router.Group("/api/v1")
	{
		mp := mealplanHandler.NewHandler(deps.MealPlans, cfg.App.Debug)
		mealPlans := api.Group("/meal-plans")
		{
			mealPlans.POST("/parse", mp.HandleParse)
			mealPlans.POST("/generate", mp.HandleGenerate)
			mealPlans.GET("/:id", mp.HandleGet)
			mealPlans.POST("/:id/days/:day/regenerate", mp.HandleRegenerateDay)
		}

		sl := shoppingHandler.NewHandler(deps.Shopping, cfg.App.Debug)
		lists := api.Group("/shopping-lists")
		{
			lists.POST("", sl.HandleCreate)
			lists.POST("/aggregate", sl.HandleAggregate)
			lists.GET("/:id", sl.HandleGet)
			lists.POST("/:id/generate", sl.HandleGenerate)
			lists.PATCH("/:id/items/:itemId/toggle", sl.HandleToggleItem)
			lists.DELETE("/:id/items", sl.HandleClear)
		}

		sg := suggestionHandler.NewHandler(deps.Suggestions, cfg.App.Debug)
		ai := api.Group("/ai")
		{
			ai.POST("/suggest-recipes", sg.HandleSuggestRecipes)
			ai.POST("/substitute-ingredient", sg.HandleSubstituteIngredient)
		}
	}

	common.LogInfo("Router setup completed",
		zap.Bool("rate_limit", cfg.RateLimit.Enabled),
		zap.Duration("dedup_window", cfg.DedupWindow),
		zap.Duration("timeout", cfg.Server.RequestTimeout),
		zap.Int64("max_body_size", cfg.Server.MaxBodyBytes),
	)

	return router, cleanup
}
