package service

import (
	"VoiceLedger/internal/model"
	"VoiceLedger/internal/repo"
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// ErrValidation — некорректная запись на входе; наружу отдаётся как 400.
var ErrValidation = errors.New("validation")

// ExpenseService — валидация и оркестрация операций над расходами
// и fallback-очередью.
type ExpenseService struct {
	expenses repo.ExpenseRepository
	pending  repo.PendingSyncRepository
	logger   *zap.SugaredLogger
}

func NewExpenseService(e repo.ExpenseRepository, p repo.PendingSyncRepository, logger *zap.SugaredLogger) *ExpenseService {
	return &ExpenseService{expenses: e, pending: p, logger: logger}
}

// ValidateExpense нормализует запись и проверяет инварианты модели.
func ValidateExpense(exp *model.Expense) error {
	if exp == nil || exp.ID == "" {
		return fmt.Errorf("%w: missing expense or expense.id", ErrValidation)
	}
	if exp.AmountSpent < 0 {
		return fmt.Errorf("%w: amount must be non-negative", ErrValidation)
	}
	// два знака после запятой
	exp.AmountSpent = math.Round(exp.AmountSpent*100) / 100
	if exp.SpentOn != "" && !model.ValidCategory(exp.SpentOn) {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, exp.SpentOn)
	}
	if exp.SpentThrough != "" && !model.ValidPaymentMethod(exp.SpentThrough) {
		return fmt.Errorf("%w: unknown payment method %q", ErrValidation, exp.SpentThrough)
	}
	if exp.SelfOrOthersIncluded != "" && !model.ValidSpentScope(exp.SelfOrOthersIncluded) {
		return fmt.Errorf("%w: unknown scope %q", ErrValidation, exp.SelfOrOthersIncluded)
	}
	if exp.PaidTo == "" {
		exp.PaidTo = model.DefaultPaidTo
	}
	return nil
}

// Upsert валидирует запись и пишет её в основное хранилище.
// Пустой createdAt заполняется текущим временем только для первой записи:
// при повторе upsert сохранит исходное значение.
func (s *ExpenseService) Upsert(ctx context.Context, email string, exp *model.Expense) error {
	if err := ValidateExpense(exp); err != nil {
		return err
	}
	if exp.CreatedAt == "" {
		exp.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return s.expenses.Upsert(ctx, email, exp)
}

// List возвращает записи пользователя за период.
func (s *ExpenseService) List(ctx context.Context, email string, year, month int) ([]model.Expense, error) {
	return s.expenses.List(ctx, email, year, month)
}

// Delete удаляет запись пользователя; ok=false, если записи не было.
func (s *ExpenseService) Delete(ctx context.Context, email, id string) (bool, error) {
	return s.expenses.Delete(ctx, email, id)
}

// EnqueuePending кладёт недоставленную запись в fallback-очередь.
func (s *ExpenseService) EnqueuePending(ctx context.Context, email, id string, payload []byte) error {
	if id == "" {
		return fmt.Errorf("%w: missing id", ErrValidation)
	}
	return s.pending.Upsert(ctx, email, id, payload)
}

// DequeuePending идемпотентно убирает запись пользователя из
// fallback-очереди. Записи других пользователей предикат не задевает.
func (s *ExpenseService) DequeuePending(ctx context.Context, email, id string) error {
	if id == "" {
		return fmt.Errorf("%w: missing id", ErrValidation)
	}
	return s.pending.Delete(ctx, email, id)
}
