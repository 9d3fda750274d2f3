package main

import (
	"context"
	"net/http"
	"os"

	"github.com/ChrisB2025/Keystroke-Kingdom/internal/api"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/cache"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/config"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/database"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/handler"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/logger"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/middleware"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/ratelimit"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/services"
	"github.com/ChrisB2025/Keystroke-Kingdom/internal/store"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Could not load config: %v", err)
		os.Exit(1)
	}

	// Connect to PostgreSQL
	db, err := database.ConnectPostgres(cfg)
	if err != nil {
		logger.Error("Database connection failed: %v", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.InitSchema(context.Background(), db); err != nil {
		logger.Error("Schema init failed: %v", err)
		os.Exit(1)
	}

	// Shared cache : Redis en production, mémoire locale sinon
	var sharedCache cache.Cache
	if cfg.RedisAddr != "" {
		redisCache, err := cache.NewRedis(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Error("Redis connection failed: %v", err)
			os.Exit(1)
		}
		sharedCache = redisCache
		logger.Success("Connected to Redis at %s", cfg.RedisAddr)
	} else {
		sharedCache = cache.NewMemory()
		logger.Warning("REDIS_ADDR not set, using in-process cache (single instance only)")
	}

	// Claude proxy : optionnel, le reste de l'API fonctionne sans
	var claude handler.ClaudeClient
	if svc, err := services.NewClaudeService(cfg); err != nil {
		logger.Warning("Claude proxy disabled: %v", err)
	} else {
		claude = svc
	}

	gameStore := store.NewPostgres(db)
	limiter := ratelimit.NewLimiter(sharedCache)
	h := handler.New(gameStore, sharedCache, claude)

	// Initialize routes
	router := api.SetupRouter(h, limiter)

	// Wrap router with CORS middleware
	httpHandler := middleware.CORSMiddleware(router)

	// Start server
	logger.Success("Server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, httpHandler); err != nil {
		logger.Error("Server failed: %v", err)
		os.Exit(1)
	}
}
