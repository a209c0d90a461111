package handlers

import (
	"VoiceLedger/internal/config"
	"VoiceLedger/internal/middleware"
	"VoiceLedger/internal/service"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// UserHandler обрабатывает регистрацию и вход.
type UserHandler struct {
	UserService *service.UserService
	Logger      *zap.SugaredLogger
	Config      *config.Config
}

// NewUserHandler создаёт хендлер пользователей
func NewUserHandler(userService *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *UserHandler {
	return &UserHandler{UserService: userService, Logger: logger, Config: cfg}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *UserHandler) decodeCredentials(w http.ResponseWriter, r *http.Request) (*credentialsRequest, bool) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request")
		return nil, false
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return nil, false
	}
	return &req, true
}

// Register создаёт пользователя и сразу ставит auth-cookie.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			writeError(w, http.StatusConflict, "email already registered")
			return
		}
		h.Logger.Errorw("Register: service error", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := middleware.SetLoginCookie(w, user.Email, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("Register: failed to set cookie", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeSuccess(w)
}

// Login проверяет учётные данные и ставит auth-cookie.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeCredentials(w, r)
	if !ok {
		return
	}

	user, err := h.UserService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		h.Logger.Errorw("Login: service error", "email", req.Email, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if err := middleware.SetLoginCookie(w, user.Email, h.Config.AuthSecret); err != nil {
		h.Logger.Errorw("Login: failed to set cookie", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeSuccess(w)
}
