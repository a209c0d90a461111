package main

import (
	"VoiceLedger/internal/config"
	"VoiceLedger/internal/crypto"
	"VoiceLedger/internal/handlers"
	"VoiceLedger/internal/middleware"
	"VoiceLedger/internal/repo"
	"VoiceLedger/internal/service"
	"net/http"

	"go.uber.org/zap"
)

func main() {
	cfg := config.NewConfig()

	// создаём предустановленный регистратор zap
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	// делаем регистратор SugaredLogger
	sugar := logger.Sugar()
	middleware.SetLogger(sugar) // передаём логгер в middleware
	//сброс буфера логгера
	defer func() {
		if err := logger.Sync(); err != nil {
			sugar.Errorw("Failed to sync logger", "error", err)
		}
	}()

	gormDB, err := repo.InitDB(cfg.DatabaseDSN)
	if err != nil {
		sugar.Fatalw("failed to initialize database", "error", err)
	}

	cipher, err := crypto.NewCipher(cfg.EncryptionKey)
	if err != nil {
		sugar.Fatalw("invalid encryption key", "error", err)
	}

	userRepo := repo.NewUserRepository(gormDB)
	expenseRepo := repo.NewExpenseRepository(gormDB)
	pendingRepo := repo.NewPendingSyncRepository(gormDB)
	userKeyRepo := repo.NewUserKeyRepository(gormDB)

	userService := service.NewUserService(userRepo)
	expenseService := service.NewExpenseService(expenseRepo, pendingRepo, sugar)
	keyService := service.NewKeyService(userKeyRepo, cipher, service.NewKeyCache(), sugar)
	aiService := service.NewAIService(keyService, cfg.AIEndpoint, sugar)
	limiter := service.NewRateLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)

	h := handlers.NewHandler(userService, expenseService, keyService, aiService, limiter, sugar, cfg)

	addr := cfg.BaseURL

	sugar.Infow(
		"Starting server",
		"addr", addr,
	)

	sugar.Infow("Config",
		"BaseURL", cfg.BaseURL,
		"EnableHTTPS", cfg.EnableHTTPS,
		"AIEndpoint", cfg.AIEndpoint,
		"RateLimitMax", cfg.RateLimitMax,
		"RateLimitWindow", cfg.RateLimitWindow,
	)

	if err := http.ListenAndServe(addr, h.Router); err != nil {
		sugar.Fatalw("Server failed", "error", err)
	}
}
