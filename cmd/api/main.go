package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"meal-planner/internal/api"
	"meal-planner/internal/core/ai/cache"
	"meal-planner/internal/core/ai/openai"
	"meal-planner/internal/core/ai/openrouter"
	"meal-planner/internal/core/ai/provider"
	"meal-planner/internal/core/ai/queue"
	"meal-planner/internal/core/ai/service"
	"meal-planner/internal/core/mealplan"
	"meal-planner/internal/core/shopping"
	"meal-planner/internal/core/suggestion"
	"meal-planner/internal/infrastructure/config"
	"meal-planner/internal/infrastructure/storage"
	"meal-planner/internal/pkg/common"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 初始化 logger（需在載入 config 後）
	if err := common.InitLogger(cfg.LogLevel); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer common.Sync()

	common.LogInfo("載入設定",
		zap.String("provider", cfg.AI.Provider),
		zap.String("model", cfg.ActiveModel()),
		zap.String("openrouter_api_key", config.MaskAPIKey(cfg.OpenRouter.APIKey)),
		zap.String("openai_api_key", config.MaskAPIKey(cfg.OpenAI.APIKey)),
		zap.String("cache_backend", cfg.Cache.Backend),
		zap.String("database", cfg.Database.Path),
	)

	aiCache, err := cache.New(cfg.Cache)
	if err != nil {
		common.LogFatal("Failed to initialize cache", zap.Error(err))
	}

	aiService := service.NewService(newProvider(cfg), aiCache, queue.NewManager(cfg.AI.MaxInFlight), service.Options{
		Timeout:   cfg.AI.Timeout,
		MaxTokens: maxTokens(cfg),
	})
	defer func() {
		if err := aiService.Close(); err != nil {
			common.LogWarn("Failed to close AI service", zap.Error(err))
		}
	}()

	db, err := storage.NewSQLite(cfg.Database.Path)
	if err != nil {
		common.LogFatal("Failed to open database", zap.Error(err))
	}
	defer db.Close()

	mealPlans := mealplan.NewService(db, aiService)
	lists := shopping.NewService(db, db, shopping.NewGenerator(aiService, cfg.Shopping.AIEnabled))

	router, cleanup := api.SetupRouter(cfg, api.Dependencies{
		AI:          aiService,
		DB:          db,
		MealPlans:   mealPlans,
		Shopping:    lists,
		Suggestions: suggestion.NewService(aiService),
	})
	defer cleanup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		common.LogInfo("啟動應用",
			zap.String("version", cfg.App.Version),
			zap.String("env", cfg.App.Env),
			zap.Bool("debug", cfg.App.Debug),
			zap.Int("port", cfg.Server.Port),
		)

		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serverErr:
		common.LogError("Failed to start server", zap.Error(err))
		return
	}

	common.LogInfo("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		common.LogError("Server forced to shutdown", zap.Error(err))
		return
	}

	common.LogInfo("Server exited")
}

func newProvider(cfg *config.Config) provider.Provider {
	if cfg.AI.Provider == config.ProviderOpenAI {
		return openai.NewClient(cfg.OpenAI)
	}
	return openrouter.NewClient(cfg.OpenRouter)
}

func maxTokens(cfg *config.Config) int {
	if cfg.AI.Provider == config.ProviderOpenAI {
		return cfg.OpenAI.MaxTokens
	}
	return cfg.OpenRouter.MaxTokens
}
