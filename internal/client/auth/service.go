package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/iudanet/notekeeper/internal/client/storage"
	"github.com/iudanet/notekeeper/internal/validation"
	pkgapi "github.com/iudanet/notekeeper/pkg/api"
)

// Ошибки локальной сессии
var (
	ErrNotAuthenticated = errors.New("not authenticated, run 'notekeeper login' first")
	ErrSessionExpired   = errors.New("session expired, run 'notekeeper login' again")
)

// APIClient часть HTTP клиента, нужная для получения токена
type APIClient interface {
	Register(ctx context.Context, req pkgapi.RegisterRequest) (*pkgapi.TokenResponse, error)
	Login(ctx context.Context, req pkgapi.LoginRequest) (*pkgapi.TokenResponse, error)
}

// Service получает токены у сервера и хранит сессию локально
type Service struct {
	apiClient APIClient
	authStore storage.AuthStorage
	logger    *slog.Logger
	now       func() time.Time
}

// NewService создает новый сервис авторизации
func NewService(logger *slog.Logger, apiClient APIClient, authStore storage.AuthStorage) *Service {
	return &Service{
		apiClient: apiClient,
		authStore: authStore,
		logger:    logger,
		now:       time.Now,
	}
}

// Register регистрирует пользователя; сервер сразу выдает токен, сессия сохраняется
func (s *Service) Register(ctx context.Context, username, password string) (*storage.AuthData, error) {
	if err := validation.ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	resp, err := s.apiClient.Register(ctx, pkgapi.RegisterRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("registration failed: %w", err)
	}

	return s.save(ctx, resp)
}

// Login выполняет аутентификацию и сохраняет сессию
func (s *Service) Login(ctx context.Context, username, password string) (*storage.AuthData, error) {
	if err := validation.ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	resp, err := s.apiClient.Login(ctx, pkgapi.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login failed: %w", err)
	}

	return s.save(ctx, resp)
}

// Logout удаляет локальную сессию. Токены stateless, серверу сообщать нечего.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.authStore.DeleteAuth(ctx); err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return ErrNotAuthenticated
		}
		return fmt.Errorf("failed to delete local auth data: %w", err)
	}
	return nil
}

// Stored возвращает сохраненную сессию, даже просроченную (для status)
func (s *Service) Stored(ctx context.Context) (*storage.AuthData, error) {
	authData, err := s.authStore.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, ErrNotAuthenticated
		}
		return nil, fmt.Errorf("failed to get auth data: %w", err)
	}
	return authData, nil
}

// Session возвращает действующую сессию.
// Срок проверяется локально, чтобы не отправлять серверу заведомо просроченный токен.
func (s *Service) Session(ctx context.Context) (*storage.AuthData, error) {
	authData, err := s.Stored(ctx)
	if err != nil {
		return nil, err
	}
	if authData.Expired(s.now()) {
		return nil, ErrSessionExpired
	}
	return authData, nil
}

func (s *Service) save(ctx context.Context, resp *pkgapi.TokenResponse) (*storage.AuthData, error) {
	authData := &storage.AuthData{
		Username:    resp.Username,
		UserID:      resp.UserID,
		AccessToken: resp.AccessToken,
		ExpiresAt:   resp.ExpiresAt.Unix(),
	}

	if err := s.authStore.SaveAuth(ctx, authData); err != nil {
		return nil, fmt.Errorf("failed to save auth data: %w", err)
	}

	s.logger.DebugContext(ctx, "session saved",
		slog.String("username", authData.Username),
		slog.Int64("expires_at", authData.ExpiresAt))

	return authData, nil
}
