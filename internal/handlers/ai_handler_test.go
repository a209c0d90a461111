package handlers_test

import (
	"VoiceLedger/internal/model"
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAIGenerate(t *testing.T) {
	var gotKey string
	var gotBody []byte
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotBody, _ = io.ReadAll(r.Body)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
	}))
	defer upstream.Close()

	env := newTestEnv(t, upstream.URL)
	env.keys.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	// сначала пользователь сохраняет ключ
	submit := httptest.NewRequest(http.MethodPost, "/api/user/apikey",
		bytes.NewBufferString(`{"apiKey":"sk-live"}`))
	addAuthCookie(t, submit, "user@example.com", env.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, submit)
	require.Equal(t, http.StatusOK, rr.Code)

	body := bytes.NewBufferString(`{"contents":[{"parts":[{"text":"lunch 250 cash"}]}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/ai", body)
	addAuthCookie(t, req, "user@example.com", env.cfg.AuthSecret)
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "sk-live", gotKey)
	assert.Contains(t, string(gotBody), "lunch 250 cash")
	assert.Contains(t, rr.Body.String(), "candidates")
}

func TestAIGenerate_NoKeyConfigured(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:0")
	env.keys.On("Get", mock.Anything, "user@example.com").Return(nil, gorm.ErrRecordNotFound)

	body := bytes.NewBufferString(`{"contents":[{"parts":[{"text":"hi"}]}]}`)
	req := httptest.NewRequest(http.MethodPost, "/api/ai", body)
	addAuthCookie(t, req, "user@example.com", env.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "not configured")
}

func TestAIGenerate_RateLimited(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer upstream.Close()

	env := newTestEnv(t, upstream.URL)
	env.keys.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	submit := httptest.NewRequest(http.MethodPost, "/api/user/apikey",
		bytes.NewBufferString(`{"apiKey":"sk-live"}`))
	addAuthCookie(t, submit, "busy@example.com", env.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, submit)
	require.Equal(t, http.StatusOK, rr.Code)

	// лимит фиксированного окна: 7 запросов проходят, восьмой — 429
	for i := 0; i < 7; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/ai",
			bytes.NewBufferString(`{"contents":[{"parts":[{"text":"hi"}]}]}`))
		addAuthCookie(t, req, "busy@example.com", env.cfg.AuthSecret)
		rr = httptest.NewRecorder()
		env.router.ServeHTTP(rr, req)
		require.Equal(t, http.StatusOK, rr.Code, "request %d", i+1)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/ai",
		bytes.NewBufferString(`{"contents":[{"parts":[{"text":"hi"}]}]}`))
	addAuthCookie(t, req, "busy@example.com", env.cfg.AuthSecret)
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), "too many requests")
}

func TestAIGenerate_UpstreamError(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer upstream.Close()

	env := newTestEnv(t, upstream.URL)
	env.keys.On("Upsert", mock.Anything, mock.Anything).Return(nil)

	submit := httptest.NewRequest(http.MethodPost, "/api/user/apikey",
		bytes.NewBufferString(`{"apiKey":"sk-live"}`))
	addAuthCookie(t, submit, "user@example.com", env.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, submit)
	require.Equal(t, http.StatusOK, rr.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/ai",
		bytes.NewBufferString(`{"contents":[{"parts":[{"text":"hi"}]}]}`))
	addAuthCookie(t, req, "user@example.com", env.cfg.AuthSecret)
	rr = httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestAIGenerate_RequireAuth(t *testing.T) {
	env := newTestEnv(t, "")

	req := httptest.NewRequest(http.MethodPost, "/api/ai",
		bytes.NewBufferString(`{"contents":[{"parts":[{"text":"hi"}]}]}`))
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

// повреждённый шифртекст в БД — 500, а не утечка деталей
func TestAIGenerate_CorruptStoredKey(t *testing.T) {
	env := newTestEnv(t, "http://127.0.0.1:0")
	env.keys.On("Get", mock.Anything, "user@example.com").Return(&model.UserKey{
		Email:        "user@example.com",
		EncryptedKey: "deadbeef",
		IV:           "000000000000000000000000",
		Tag:          "00000000000000000000000000000000",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/ai",
		bytes.NewBufferString(`{"contents":[{"parts":[{"text":"hi"}]}]}`))
	addAuthCookie(t, req, "user@example.com", env.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "failed to decrypt")
}
