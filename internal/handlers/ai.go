package handlers

import (
	"VoiceLedger/internal/crypto"
	"VoiceLedger/internal/middleware"
	"VoiceLedger/internal/service"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// AIHandler — прокси к upstream AI-сервису под rate-лимитом.
type AIHandler struct {
	AI      *service.AIService
	Limiter *service.RateLimiter
	Logger  *zap.SugaredLogger
}

// NewAIHandler создаёт хендлер AI-прокси
func NewAIHandler(ai *service.AIService, limiter *service.RateLimiter, logger *zap.SugaredLogger) *AIHandler {
	return &AIHandler{AI: ai, Limiter: limiter, Logger: logger}
}

type generateRequest struct {
	Contents json.RawMessage `json:"contents"`
}

// Generate — POST /api/ai: пересылает contents в upstream с ключом пользователя.
func (h *AIHandler) Generate(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetEmailFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if !h.Limiter.Allow(email) {
		h.Logger.Warnw("Rate limit exceeded", "email", email)
		retry := h.Limiter.RetryAfter(email)
		writeError(w, http.StatusTooManyRequests,
			fmt.Sprintf("too many requests for %s, try after %s", email, retry.Round(time.Second)))
		return
	}

	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Contents) == 0 {
		writeError(w, http.StatusBadRequest, "missing contents")
		return
	}

	body, err := h.AI.Generate(r.Context(), email, req.Contents)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrKeyNotConfigured):
			writeError(w, http.StatusBadRequest, "API key not configured for user")
		case errors.Is(err, crypto.ErrCryptoFailure):
			h.Logger.Errorw("Failed to decrypt API key", "email", email, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to decrypt API key")
		case errors.Is(err, service.ErrUpstreamFailure):
			h.Logger.Errorw("AI proxy error", "email", email, "error", err)
			writeError(w, http.StatusBadGateway, "upstream AI service unavailable")
		default:
			h.Logger.Errorw("AI proxy error", "email", email, "error", err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
