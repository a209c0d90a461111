package handlers_test

import (
	"VoiceLedger/internal/model"
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"
)

func TestSubmitKey(t *testing.T) {
	env := newTestEnv(t, "")
	env.keys.On("Upsert", mock.Anything, mock.MatchedBy(func(k *model.UserKey) bool {
		// в покое лежит только шифртекст, не исходный ключ
		return k.Email == "user@example.com" &&
			k.EncryptedKey != "" && k.EncryptedKey != "sk-plain" &&
			k.IV != "" && k.Tag != ""
	})).Return(nil)

	body := bytes.NewBufferString(`{"apiKey":"sk-plain"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/user/apikey", body)
	addAuthCookie(t, req, "user@example.com", env.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	// открытый текст не эхоится в ответе
	assert.NotContains(t, rr.Body.String(), "sk-plain")
	env.keys.AssertExpectations(t)
}

func TestSubmitKey_Empty(t *testing.T) {
	env := newTestEnv(t, "")

	body := bytes.NewBufferString(`{"apiKey":""}`)
	req := httptest.NewRequest(http.MethodPost, "/api/user/apikey", body)
	addAuthCookie(t, req, "user@example.com", env.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestKeyExists(t *testing.T) {
	env := newTestEnv(t, "")
	env.keys.On("Get", mock.Anything, "user@example.com").Return(&model.UserKey{
		Email:        "user@example.com",
		EncryptedKey: "aabb",
		IV:           "0102",
		Tag:          "0304",
	}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/user/apikey", nil)
	addAuthCookie(t, req, "user@example.com", env.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"exists":true}`, rr.Body.String())
	// только булево, без материала ключа
	assert.NotContains(t, rr.Body.String(), "aabb")
}

func TestKeyExists_NotConfigured(t *testing.T) {
	env := newTestEnv(t, "")
	env.keys.On("Get", mock.Anything, "user@example.com").Return(nil, gorm.ErrRecordNotFound)

	req := httptest.NewRequest(http.MethodGet, "/api/user/apikey", nil)
	addAuthCookie(t, req, "user@example.com", env.cfg.AuthSecret)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"exists":false}`, rr.Body.String())
}

func TestKey_RequireAuth(t *testing.T) {
	env := newTestEnv(t, "")

	req := httptest.NewRequest(http.MethodGet, "/api/user/apikey", nil)
	rr := httptest.NewRecorder()
	env.router.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
