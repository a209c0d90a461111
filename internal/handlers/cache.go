package handlers

import (
	"VoiceLedger/internal/middleware"
	"VoiceLedger/internal/model"
	"VoiceLedger/internal/service"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// CacheHandler — fallback-очередь недоставленных записей.
// Запросы аутентифицируются, владелец берётся из сессии, а не из тела.
type CacheHandler struct {
	Expenses *service.ExpenseService
	Logger   *zap.SugaredLogger
}

// NewCacheHandler создаёт хендлер fallback-очереди
func NewCacheHandler(expenses *service.ExpenseService, logger *zap.SugaredLogger) *CacheHandler {
	return &CacheHandler{Expenses: expenses, Logger: logger}
}

type enqueueRequest struct {
	Expense *model.Expense `json:"expense"`
}

// Enqueue — POST /api/cache: идемпотентный upsert записи очереди по id расхода.
func (h *CacheHandler) Enqueue(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetEmailFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req enqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Expense == nil || req.Expense.ID == "" {
		writeError(w, http.StatusBadRequest, "missing expense or expense.id")
		return
	}

	payload, err := json.Marshal(req.Expense)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid expense payload")
		return
	}

	if err := h.Expenses.EnqueuePending(r.Context(), email, req.Expense.ID, payload); err != nil {
		h.Logger.Errorw("Failed cache save", "email", email, "id", req.Expense.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save to cache")
		return
	}
	writeSuccess(w)
}

// Dequeue — DELETE /api/cache: убрать запись очереди текущего пользователя;
// отсутствие — не ошибка, чужие записи не задеваются.
func (h *CacheHandler) Dequeue(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetEmailFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req deleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ID == "" {
		writeError(w, http.StatusBadRequest, "missing id")
		return
	}

	if err := h.Expenses.DequeuePending(r.Context(), email, req.ID); err != nil {
		h.Logger.Errorw("Failed to remove cached entry", "email", email, "id", req.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete cache entry")
		return
	}
	writeSuccess(w)
}
