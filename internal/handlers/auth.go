package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"MedMonitor/internal/config"
	"MedMonitor/internal/middleware"
	"MedMonitor/internal/model"
	"MedMonitor/internal/service"
)

// AuthHandler обслуживает /api/auth/*.
type AuthHandler struct {
	users  *service.UserService
	logger *zap.SugaredLogger
	cfg    *config.Config
}

func NewAuthHandler(users *service.UserService, logger *zap.SugaredLogger, cfg *config.Config) *AuthHandler {
	return &AuthHandler{users: users, logger: logger, cfg: cfg}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// userPayload — форма пользователя в ответах auth-эндпоинтов.
type userPayload struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name"`
	Role      string `json:"role"`
}

func toUserPayload(u *model.User) userPayload {
	return userPayload{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Role:      u.Role,
	}
}

// tokenResponse — ответ login/refresh: пара токенов выдаётся только целиком.
type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	User         *userPayload `json:"user,omitempty"`
}

func (h *AuthHandler) issuePair(w http.ResponseWriter, user *model.User) {
	access, refresh, err := middleware.NewTokenPair(user.ID, h.cfg.AuthSecret, h.cfg.AccessTTL, h.cfg.RefreshTTL)
	if err != nil {
		h.logger.Errorw("sign token pair", "error", err)
		respondError(w, http.StatusInternalServerError, "failed to issue tokens")
		return
	}
	up := toUserPayload(user)
	respondJSON(w, http.StatusOK, tokenResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
		User:         &up,
	})
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	user, err := h.users.Register(r.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			respondError(w, http.StatusConflict, "email already registered")
			return
		}
		h.logger.Errorw("register", "error", err)
		respondError(w, http.StatusInternalServerError, "registration failed")
		return
	}
	h.issuePair(w, user)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrUserInactive) {
			respondError(w, http.StatusUnauthorized, "Incorrect email or password")
			return
		}
		h.logger.Errorw("login", "error", err)
		respondError(w, http.StatusInternalServerError, "login failed")
		return
	}
	h.issuePair(w, user)
}

// Refresh аутентифицируется Bearer *refresh*-токеном и выдаёт новую пару.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	raw := middleware.BearerToken(r)
	if raw == "" {
		respondError(w, http.StatusUnauthorized, "refresh token required")
		return
	}
	claims, err := middleware.ParseToken(raw, middleware.TokenKindRefresh, h.cfg.AuthSecret)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}

	user, err := h.users.GetByID(r.Context(), claims.UserID)
	if err != nil || !user.IsActive {
		respondError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	h.issuePair(w, user)
}

// Logout инвалидирует сессию на стороне клиента; сервер отвечает успехом всегда,
// когда запрос аутентифицирован.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.GetUserIDFromContext(r.Context()); !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	user, err := h.users.GetByID(r.Context(), uid)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "not authenticated")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": toUserPayload(user)})
}

func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	uid, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"valid": true, "user_id": uid})
}
