package handlers_test

import (
	"VoiceLedger/internal/config"
	"VoiceLedger/internal/crypto"
	"VoiceLedger/internal/handlers"
	"VoiceLedger/internal/middleware"
	"VoiceLedger/internal/model"
	"VoiceLedger/internal/repo"
	"VoiceLedger/internal/service"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// Minimal mocks

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockUserRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.UserRepository = (*mockUserRepo)(nil)

type mockExpenseRepo struct{ mock.Mock }

func (m *mockExpenseRepo) Upsert(ctx context.Context, email string, exp *model.Expense) error {
	return m.Called(ctx, email, exp).Error(0)
}

func (m *mockExpenseRepo) List(ctx context.Context, email string, year, month int) ([]model.Expense, error) {
	args := m.Called(ctx, email, year, month)
	if v, ok := args.Get(0).([]model.Expense); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockExpenseRepo) Delete(ctx context.Context, email, id string) (bool, error) {
	args := m.Called(ctx, email, id)
	return args.Bool(0), args.Error(1)
}

var _ repo.ExpenseRepository = (*mockExpenseRepo)(nil)

type mockPendingRepo struct{ mock.Mock }

func (m *mockPendingRepo) Upsert(ctx context.Context, email, id string, payload []byte) error {
	return m.Called(ctx, email, id, payload).Error(0)
}

func (m *mockPendingRepo) Delete(ctx context.Context, email, id string) error {
	return m.Called(ctx, email, id).Error(0)
}

func (m *mockPendingRepo) Get(ctx context.Context, id string) (*model.PendingSync, error) {
	args := m.Called(ctx, id)
	if v, ok := args.Get(0).(*model.PendingSync); ok {
		return v, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.PendingSyncRepository = (*mockPendingRepo)(nil)

type mockUserKeyRepo struct{ mock.Mock }

func (m *mockUserKeyRepo) Upsert(ctx context.Context, key *model.UserKey) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockUserKeyRepo) Get(ctx context.Context, email string) (*model.UserKey, error) {
	args := m.Called(ctx, email)
	if k, ok := args.Get(0).(*model.UserKey); ok {
		return k, args.Error(1)
	}
	return nil, args.Error(1)
}

var _ repo.UserKeyRepository = (*mockUserKeyRepo)(nil)

// --- Helpers ---

type testEnv struct {
	router  http.Handler
	cfg     *config.Config
	users   *mockUserRepo
	exps    *mockExpenseRepo
	pending *mockPendingRepo
	keys    *mockUserKeyRepo
}

// newTestEnv собирает роутер с замоканными репозиториями и реальным шифром.
// aiEndpoint может указывать на httptest-сервер; для тестов без AI — пустая строка.
func newTestEnv(t *testing.T, aiEndpoint string) *testEnv {
	t.Helper()
	cfg := &config.Config{AuthSecret: "test-secret"}
	logger := zap.NewNop().Sugar()

	ur := &mockUserRepo{}
	er := &mockExpenseRepo{}
	pr := &mockPendingRepo{}
	kr := &mockUserKeyRepo{}

	cipher, err := crypto.NewCipher(strings.Repeat("cd", 32))
	if err != nil {
		t.Fatal(err)
	}

	userSvc := service.NewUserService(ur)
	expSvc := service.NewExpenseService(er, pr, logger)
	keySvc := service.NewKeyService(kr, cipher, service.NewKeyCache(), logger)
	aiSvc := service.NewAIService(keySvc, aiEndpoint, logger)
	limiter := service.NewRateLimiter(7, time.Minute)

	h := handlers.NewHandler(userSvc, expSvc, keySvc, aiSvc, limiter, logger, cfg)
	return &testEnv{router: h.Router, cfg: cfg, users: ur, exps: er, pending: pr, keys: kr}
}

func addAuthCookie(t *testing.T, req *http.Request, email, secret string) {
	t.Helper()
	rr := httptest.NewRecorder()
	_ = middleware.SetLoginCookie(rr, email, secret)
	for _, c := range rr.Result().Cookies() {
		req.AddCookie(c)
	}
}
