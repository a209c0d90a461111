package handlers_test

import (
	"VoiceLedger/internal/model"
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestExpenses_RequireAuth(t *testing.T) {
	env := newTestEnv(t, "")

	for _, tc := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/expenses?year=2026&month=8"},
		{http.MethodPost, "/api/expenses"},
		{http.MethodDelete, "/api/expenses"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(`{}`))
		rr := httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", tc.method, tc.path)
	}
}

func TestListExpenses(t *testing.T) {
	env := newTestEnv(t, "")
	expected := []model.Expense{
		{ID: "e1", Email: "user@example.com", DateSpent: "2026-08-01", AmountSpent: 120.50, SpentOn: "Food"},
		{ID: "e2", Email: "user@example.com", DateSpent: "2026-08-15", AmountSpent: 40, SpentOn: "Travel"},
	}
	env.exps.On("List", mock.Anything, "user@example.com", 2026, 8).Return(expected, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/expenses?year=2026&month=8", nil)
	addAuthCookie(t, req, "user@example.com", env.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var got []model.Expense
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, "e1", got[0].ID)
	assert.Equal(t, "e2", got[1].ID)
	// email — внутренний ключ владельца, наружу не сериализуется
	assert.NotContains(t, rr.Body.String(), "user@example.com")
}

func TestListExpenses_EmptyIsArray(t *testing.T) {
	env := newTestEnv(t, "")
	env.exps.On("List", mock.Anything, "user@example.com", 2026, 1).Return(nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/expenses?year=2026&month=1", nil)
	addAuthCookie(t, req, "user@example.com", env.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[]`, rr.Body.String())
}

func TestUpsertExpense(t *testing.T) {
	env := newTestEnv(t, "")
	env.exps.On("Upsert", mock.Anything, "user@example.com", mock.MatchedBy(func(e *model.Expense) bool {
		return e.ID == "e1" && e.PaidTo == "Others" && e.CreatedAt != ""
	})).Return(nil)

	body := bytes.NewBufferString(`{"expense":{"id":"e1","dateSpent":"2026-08-31","amountSpent":99.99,"spentOn":"Food","spentThrough":"UPI","selfOrOthersIncluded":"Self"}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/expenses", body)
	addAuthCookie(t, req, "user@example.com", env.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"success":true}`, rr.Body.String())
	env.exps.AssertExpectations(t)
}

func TestUpsertExpense_MissingID(t *testing.T) {
	env := newTestEnv(t, "")

	body := bytes.NewBufferString(`{"expense":{"dateSpent":"2026-08-31","amountSpent":10}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/expenses", body)
	addAuthCookie(t, req, "user@example.com", env.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	env.exps.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpsertExpense_InvalidCategory(t *testing.T) {
	env := newTestEnv(t, "")

	body := bytes.NewBufferString(`{"expense":{"id":"e1","spentOn":"Gambling","amountSpent":10}}`)
	req := httptest.NewRequest(http.MethodPost, "/api/expenses", body)
	addAuthCookie(t, req, "user@example.com", env.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestDeleteExpense(t *testing.T) {
	env := newTestEnv(t, "")
	env.exps.On("Delete", mock.Anything, "user@example.com", "e1").Return(true, nil)

	body := bytes.NewBufferString(`{"id":"e1"}`)
	req := httptest.NewRequest(http.MethodDelete, "/api/expenses", body)
	addAuthCookie(t, req, "user@example.com", env.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	env.exps.AssertExpectations(t)
}

func TestDeleteExpense_NotOwned(t *testing.T) {
	env := newTestEnv(t, "")
	env.exps.On("Delete", mock.Anything, "user@example.com", "foreign").Return(false, nil)

	body := bytes.NewBufferString(`{"id":"foreign"}`)
	req := httptest.NewRequest(http.MethodDelete, "/api/expenses", body)
	addAuthCookie(t, req, "user@example.com", env.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
