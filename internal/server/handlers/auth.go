package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/iudanet/notekeeper/internal/models"
	"github.com/iudanet/notekeeper/internal/server/identity"
	"github.com/iudanet/notekeeper/pkg/api"
)

// IdentityService регистрирует и аутентифицирует пользователей
type IdentityService interface {
	Register(ctx context.Context, username, password string) (*identity.AuthResult, error)
	Authenticate(ctx context.Context, username, password string) (*identity.AuthResult, error)
}

// AuthHandler обрабатывает запросы авторизации
type AuthHandler struct {
	logger   *slog.Logger
	identity IdentityService
}

// NewAuthHandler создает новый handler для авторизации
func NewAuthHandler(logger *slog.Logger, identity IdentityService) *AuthHandler {
	return &AuthHandler{
		logger:   logger,
		identity: identity,
	}
}

// Register обрабатывает POST /api/auth/register
// Регистрация нового пользователя, в ответе сразу выдается токен
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode register request", slog.Any("error", err))
		writeServiceError(ctx, h.logger, w, err)
		return
	}

	res, err := h.identity.Register(ctx, req.Username, req.Password)
	if err != nil {
		writeServiceError(ctx, h.logger, w, err)
		return
	}

	WriteJSON(h.logger, w, tokenResponse(res), http.StatusCreated)
}

// Login обрабатывает POST /api/auth/login
// Аутентификация пользователя
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req api.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.WarnContext(ctx, "failed to decode login request", slog.Any("error", err))
		writeServiceError(ctx, h.logger, w, err)
		return
	}

	res, err := h.identity.Authenticate(ctx, req.Username, req.Password)
	if err != nil {
		writeServiceError(ctx, h.logger, w, err)
		return
	}

	WriteJSON(h.logger, w, tokenResponse(res), http.StatusOK)
}

// Me обрабатывает GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request, who models.Identity) {
	WriteJSON(h.logger, w, api.MeResponse{
		UserID:   who.UserID,
		Username: who.Username,
	}, http.StatusOK)
}

func tokenResponse(res *identity.AuthResult) api.TokenResponse {
	return api.TokenResponse{
		AccessToken: res.AccessToken,
		TokenType:   res.TokenType,
		ExpiresAt:   res.ExpiresAt.UTC(),
		UserID:      res.UserID,
		Username:    res.Username,
	}
}
