package handlers

import (
	"VoiceLedger/internal/config"
	"VoiceLedger/internal/middleware"
	"VoiceLedger/internal/service"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	Router chi.Router
}

// NewHandler разводящий для хендлеров
func NewHandler(
	userService *service.UserService,
	expenseService *service.ExpenseService,
	keyService *service.KeyService,
	aiService *service.AIService,
	limiter *service.RateLimiter,
	logger *zap.SugaredLogger,
	config *config.Config,
) *Handler {
	r := chi.NewRouter()

	r.Use(middleware.WithGzip)
	r.Use(middleware.WithLogging)
	r.Use(middleware.WithAuth(config.AuthSecret))

	// Handlers
	userHandler := NewUserHandler(userService, logger, config)
	expenseHandler := NewExpenseHandler(expenseService, logger)
	cacheHandler := NewCacheHandler(expenseService, logger)
	keyHandler := NewKeyHandler(keyService, logger)
	aiHandler := NewAIHandler(aiService, limiter, logger)

	// User routes
	r.Post("/api/user/register", userHandler.Register)
	r.Post("/api/user/login", userHandler.Login)

	// Expense routes (основное хранилище)
	r.Get("/api/expenses", expenseHandler.List)
	r.Post("/api/expenses", expenseHandler.Upsert)
	r.Delete("/api/expenses", expenseHandler.Delete)

	// Fallback-очередь недоставленных записей
	r.Post("/api/cache", cacheHandler.Enqueue)
	r.Delete("/api/cache", cacheHandler.Dequeue)

	// Пользовательский API-ключ
	r.Post("/api/user/apikey", keyHandler.Submit)
	r.Get("/api/user/apikey", keyHandler.Exists)

	// AI-прокси
	r.Post("/api/ai", aiHandler.Generate)

	return &Handler{Router: r}
}
