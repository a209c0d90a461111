package handlers

import (
	"VoiceLedger/internal/middleware"
	"VoiceLedger/internal/service"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// KeyHandler принимает пользовательский API-ключ и отвечает на вопрос
// «настроен ли ключ». Материал ключа наружу не отдаётся никогда.
type KeyHandler struct {
	Keys   *service.KeyService
	Logger *zap.SugaredLogger
}

// NewKeyHandler создаёт хендлер ключей
func NewKeyHandler(keys *service.KeyService, logger *zap.SugaredLogger) *KeyHandler {
	return &KeyHandler{Keys: keys, Logger: logger}
}

type submitKeyRequest struct {
	APIKey string `json:"apiKey"`
}

// Submit — POST /api/user/apikey: шифрует и сохраняет ключ.
// В ответе только успех/неуспех, открытый текст не эхоится.
func (h *KeyHandler) Submit(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetEmailFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req submitKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.APIKey == "" {
		writeError(w, http.StatusBadRequest, "missing key")
		return
	}

	if err := h.Keys.Submit(r.Context(), email, req.APIKey); err != nil {
		h.Logger.Errorw("Submit key failed", "email", email, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save key")
		return
	}
	writeSuccess(w)
}

// Exists — GET /api/user/apikey: только булево наличие ключа.
func (h *KeyHandler) Exists(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetEmailFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	exists, err := h.Keys.Exists(r.Context(), email)
	if err != nil {
		h.Logger.Errorw("Key existence check failed", "email", email, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"exists": exists})
}
