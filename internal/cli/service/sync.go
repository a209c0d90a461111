package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"VoiceLedger/internal/cli/api"
	"VoiceLedger/internal/cli/model"
	"VoiceLedger/internal/cli/repo"
	"VoiceLedger/internal/cli/store"
)

// SyncResult — итог доставки одной записи на сервер.
type SyncResult struct {
	// Delivered — запись принята основным хранилищем сервера.
	Delivered bool
	// Queued — попытки исчерпаны, запись поставлена в fallback-очередь.
	Queued bool
	// Err — и доставка, и постановка в очередь не удались.
	Err error
}

type expenseEnvelope struct {
	Expense model.Expense `json:"expense"`
}

type idEnvelope struct {
	ID string `json:"id"`
}

// Engine реализует двухэтапную запись: локальная фиксация — синхронно,
// доставка на сервер — в фоне с ретраями и fallback-очередью.
type Engine struct {
	ServerURL string
	Store     *store.Store
	Tokens    repo.TokenStore

	// Attempts/Pause управляют ретраями доставки; в тестах ужимаются.
	Attempts int
	Pause    time.Duration

	wg sync.WaitGroup
}

// NewEngine создаёт движок с тремя попытками доставки.
func NewEngine(serverURL string, st *store.Store, tokens repo.TokenStore) *Engine {
	return &Engine{
		ServerURL: serverURL,
		Store:     st,
		Tokens:    tokens,
		Attempts:  3,
		Pause:     300 * time.Millisecond,
	}
}

// Wait дожидается завершения всех фоновых доставок. Вызывается перед
// выходом процесса и в тестах.
func (e *Engine) Wait() { e.wg.Wait() }

// AddExpense фиксирует запись локально и запускает фоновую доставку.
// Возврат без ошибки означает, что локальная запись уже durable —
// недоступность сервера её не отменяет. Результат доставки приходит
// в канал (ёмкость 1, можно не читать).
func (e *Engine) AddExpense(ctx context.Context, exp model.Expense) (<-chan SyncResult, error) {
	if exp.ID == "" {
		return nil, fmt.Errorf("expense id is required")
	}
	if exp.CreatedAt == "" {
		exp.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	if exp.PaidTo == "" {
		exp.PaidTo = "Others"
	}
	if err := e.Store.Append(exp); err != nil {
		return nil, fmt.Errorf("local save: %w", err)
	}

	ch := make(chan SyncResult, 1)
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		ch <- e.deliver(ctx, exp)
	}()
	return ch, nil
}

// deliver — Attempts попыток upsert'а; при успехе убирает возможный
// след из fallback-очереди, при исчерпании — ставит запись в очередь.
func (e *Engine) deliver(ctx context.Context, exp model.Expense) SyncResult {
	token, err := e.Tokens.Load()
	if err != nil {
		return SyncResult{Err: fmt.Errorf("нет токена авторизации: %w", err)}
	}

	var lastErr error
	for attempt := 1; attempt <= e.Attempts; attempt++ {
		resp, body, err := api.PostJSON(e.ServerURL+"/api/expenses", expenseEnvelope{Expense: exp}, token)
		if err == nil && resp.StatusCode == http.StatusOK {
			// чистим fallback-очередь; одна попытка, неудача не критична
			_, _, _ = api.DeleteJSON(e.ServerURL+"/api/cache", idEnvelope{ID: exp.ID}, token)
			return SyncResult{Delivered: true}
		}
		if err != nil {
			lastErr = err
		} else {
			lastErr = fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
		}
		if attempt < e.Attempts {
			select {
			case <-ctx.Done():
				return SyncResult{Err: ctx.Err()}
			case <-time.After(e.Pause):
			}
		}
	}

	// попытки исчерпаны — фиксируем след в fallback-очереди
	resp, body, err := api.PostJSON(e.ServerURL+"/api/cache", expenseEnvelope{Expense: exp}, token)
	if err != nil {
		return SyncResult{Err: fmt.Errorf("deliver: %v; cache fallback: %w", lastErr, err)}
	}
	if resp.StatusCode != http.StatusOK {
		return SyncResult{Err: fmt.Errorf("deliver: %v; cache fallback status %d: %s", lastErr, resp.StatusCode, string(body))}
	}
	return SyncResult{Queued: true}
}

// DeleteExpense удаляет запись локально и одним фоновым запросом —
// на сервере. Удалённая неудача не откатывает локальное удаление.
func (e *Engine) DeleteExpense(_ context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("expense id is required")
	}
	if err := e.Store.Remove(id); err != nil {
		return fmt.Errorf("local delete: %w", err)
	}

	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		token, err := e.Tokens.Load()
		if err != nil {
			return
		}
		// одна попытка, fire-and-forget
		_, _, _ = api.DeleteJSON(e.ServerURL+"/api/expenses", idEnvelope{ID: id}, token)
	}()
	return nil
}

// Resync — ручная повторная доставка записи, застрявшей в
// fallback-очереди. Одна синхронная попытка; при успехе запись
// убирается из очереди.
func (e *Engine) Resync(_ context.Context, id string) error {
	exp, err := e.Store.Get(id)
	if err != nil {
		return err
	}
	token, err := e.Tokens.Load()
	if err != nil {
		return fmt.Errorf("нет токена авторизации: %w", err)
	}
	resp, body, err := api.PostJSON(e.ServerURL+"/api/expenses", expenseEnvelope{Expense: *exp}, token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}
	_, _, _ = api.DeleteJSON(e.ServerURL+"/api/cache", idEnvelope{ID: id}, token)
	return nil
}

// List возвращает записи за месяц: свежий серверный список с обновлением
// локальной партиции, а при недоступности сервера — локальную копию.
// Второе значение сообщает источник: "server" или "local".
func (e *Engine) List(_ context.Context, year, month int) ([]model.Expense, string, error) {
	token, err := e.Tokens.Load()
	if err != nil {
		return nil, "", fmt.Errorf("нет токена авторизации: %w", err)
	}
	url := fmt.Sprintf("%s/api/expenses?year=%d&month=%d", e.ServerURL, year, month)
	resp, body, err := api.GetJSON(url, token)
	if err != nil {
		// сервер недоступен — отдаём локальную копию
		local, lerr := e.Store.List(year, month)
		if lerr != nil {
			return nil, "", lerr
		}
		return local, "local", nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}
	var expenses []model.Expense
	if err := json.Unmarshal(body, &expenses); err != nil {
		return nil, "", err
	}
	if year > 0 && month > 0 {
		if err := e.Store.ReplaceMonth(year, month, expenses); err != nil {
			return nil, "", fmt.Errorf("refresh local partition: %w", err)
		}
	}
	return expenses, "server", nil
}
