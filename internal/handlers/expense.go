package handlers

import (
	"VoiceLedger/internal/middleware"
	"VoiceLedger/internal/model"
	"VoiceLedger/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"go.uber.org/zap"
)

// ExpenseHandler — CRUD основного хранилища расходов.
type ExpenseHandler struct {
	Expenses *service.ExpenseService
	Logger   *zap.SugaredLogger
}

// NewExpenseHandler создаёт хендлер расходов
func NewExpenseHandler(expenses *service.ExpenseService, logger *zap.SugaredLogger) *ExpenseHandler {
	return &ExpenseHandler{Expenses: expenses, Logger: logger}
}

// List — GET /api/expenses?year=YYYY&month=M: записи пользователя за период,
// отсортированные по createdAt по возрастанию.
func (h *ExpenseHandler) List(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetEmailFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	year, _ := strconv.Atoi(r.URL.Query().Get("year"))
	month, _ := strconv.Atoi(r.URL.Query().Get("month"))

	expenses, err := h.Expenses.List(r.Context(), email, year, month)
	if err != nil {
		h.Logger.Errorw("List expenses failed", "email", email, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch expenses")
		return
	}
	if expenses == nil {
		expenses = []model.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

type upsertExpenseRequest struct {
	Expense *model.Expense `json:"expense"`
}

// Upsert — POST /api/expenses: вставка/замена записи пользователя по id.
func (h *ExpenseHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetEmailFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req upsertExpenseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Expense == nil || req.Expense.ID == "" {
		writeError(w, http.StatusBadRequest, "missing expense or expense.id")
		return
	}

	if err := h.Expenses.Upsert(r.Context(), email, req.Expense); err != nil {
		if errors.Is(err, service.ErrValidation) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Logger.Errorw("Upsert expense failed", "email", email, "id", req.Expense.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save expense")
		return
	}
	writeSuccess(w)
}

type deleteRequest struct {
	ID string `json:"id"`
}

// Delete — DELETE /api/expenses: удаление записи пользователя по id.
// Предикат удаления всегда (id, email) вместе — чужую запись удалить нельзя.
func (h *ExpenseHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

	deleted, err := h.Expenses.Delete(r.Context(), email, req.ID)
	if err != nil {
		h.Logger.Errorw("Delete expense failed", "email", email, "id", req.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete expense")
		return
	}
	if !deleted {
		writeError(w, http.StatusBadRequest, "not found or not authorized")
		return
	}
	writeSuccess(w)
}
