// Package identity registers users and authenticates credentials, issuing session tokens.
package identity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/iudanet/notekeeper/internal/models"
	"github.com/iudanet/notekeeper/internal/server/storage"
	"github.com/iudanet/notekeeper/internal/validation"
)

// TokenType is the only token type issued by the service
const TokenType = "Bearer"

var (
	// ErrUsernameTaken username уже зарегистрирован
	ErrUsernameTaken = errors.New("username already taken")
	// ErrInvalidCredentials unknown user or wrong password; the two are never distinguished
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrUserNotFound no user with this username
	ErrUserNotFound = errors.New("user not found")
)

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) bool
	NeedsRehash(encoded string) bool
}

// TokenIssuer выпускает подписанные токены сессии
type TokenIssuer interface {
	Issue(username string) (string, time.Time, error)
}

// AuthResult is returned by successful registration and authentication
type AuthResult struct {
	ExpiresAt   time.Time
	AccessToken string
	TokenType   string
	UserID      string
	Username    string
}

// Service implements registration and authentication
type Service struct {
	logger    *slog.Logger
	users     storage.UserStorage
	hasher    PasswordHasher
	tokens    TokenIssuer
	now       func() time.Time
	dummyHash string
}

// NewService создает сервис. Для выравнивания времени ответа при неизвестном
// username заранее вычисляется хеш-заглушка.
func NewService(logger *slog.Logger, users storage.UserStorage, hasher PasswordHasher, tokens TokenIssuer) (*Service, error) {
	dummy, err := hasher.Hash(uuid.New().String())
	if err != nil {
		return nil, fmt.Errorf("failed to prepare dummy hash: %w", err)
	}

	return &Service{
		logger:    logger,
		users:     users,
		hasher:    hasher,
		tokens:    tokens,
		now:       time.Now,
		dummyHash: dummy,
	}, nil
}

// Register creates a new user and returns a token for it.
func (s *Service) Register(ctx context.Context, username, password string) (*AuthResult, error) {
	if err := validation.ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	exists, err := s.users.UserExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if exists {
		s.logger.WarnContext(ctx, "registration rejected: username taken", slog.String("username", username))
		return nil, ErrUsernameTaken
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// UserExists и CreateUser не атомарны: гонку закрывает уникальный индекс
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			s.logger.WarnContext(ctx, "registration rejected: username taken", slog.String("username", username))
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.InfoContext(ctx, "user registered successfully",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID))

	return s.issue(user)
}

// Authenticate checks credentials and returns a fresh token.
// Unknown username and wrong password both yield ErrInvalidCredentials.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*AuthResult, error) {
	if err := validation.ValidateCredentials(username, password); err != nil {
		return nil, err
	}

	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			s.logger.WarnContext(ctx, "login failed: user not found", slog.String("username", username))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.WarnContext(ctx, "login failed: wrong password", slog.String("username", username))
		return nil, ErrInvalidCredentials
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user, password)
	}

	s.logger.InfoContext(ctx, "user logged in successfully",
		slog.String("username", user.Username),
		slog.String("user_id", user.ID))

	return s.issue(user)
}

// Lookup resolves a token subject to the current identity of that user.
func (s *Service) Lookup(ctx context.Context, username string) (*models.Identity, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	identity := user.Identity()
	return &identity, nil
}

// rehash обновляет устаревший хеш после успешного входа. Ошибка не прерывает вход.
func (s *Service) rehash(ctx context.Context, user *models.User, password string) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to rehash password", slog.Any("error", err))
		return
	}

	if err := s.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		s.logger.WarnContext(ctx, "failed to store rehashed password",
			slog.String("user_id", user.ID),
			slog.Any("error", err))
		return
	}

	s.logger.InfoContext(ctx, "password hash upgraded", slog.String("user_id", user.ID))
}

func (s *Service) issue(user *models.User) (*AuthResult, error) {
	token, expiresAt, err := s.tokens.Issue(user.Username)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{
		AccessToken: token,
		TokenType:   TokenType,
		ExpiresAt:   expiresAt,
		UserID:      user.ID,
		Username:    user.Username,
	}, nil
}
